package dmq

import "encoding/binary"

// maxFrameLen is the largest payload Frames mode can represent in its
// 2-byte length prefix (spec.md §4.3: L <= 65535).
const maxFrameLen = 1<<16 - 1

// frameLenSize is the width of the Frames length prefix on the wire.
const frameLenSize = 2

// frameFor builds the bytes to append to the write-target file for one
// record under the given mode. It returns ErrOversizeRecord for Frames mode
// oversize records and ErrModeMismatch for an unknown mode; callers are
// expected to have already rejected other length problems.
//
// Grounded on dmq.c's dmq_send: the iovec layout per mode there
// (payload+delimiter for Nulls/Newlines, length-prefix+payload for Frames,
// payload-only for Raw) is reproduced here as a list of separate parts,
// since send.go hands this straight to unix.Writev as one iovec per part
// rather than needing Go-level string concatenation.
func frameFor(mode Mode, payload []byte) ([][]byte, error) {
	switch mode {
	case ModeNulls:
		return [][]byte{payload, {0x00}}, nil
	case ModeNewlines:
		return [][]byte{payload, {0x0A}}, nil
	case ModeFrames:
		if len(payload) > maxFrameLen {
			return nil, ErrOversizeRecord
		}
		prefix := make([]byte, frameLenSize)
		binary.NativeEndian.PutUint16(prefix, uint16(len(payload)))
		return [][]byte{prefix, payload}, nil
	case ModeRaw:
		return [][]byte{payload}, nil
	default:
		return nil, ErrModeMismatch
	}
}

// findBoundary locates the next record boundary in buf[:n] for the given
// mode and returns the offset one past the record's delimiter (i.e. where
// the next record begins), and the start of the delivered payload within
// buf. ok is false if no complete record ends within buf[:n].
//
// Grounded on dmq.c's dmq_findeor. Raw mode has no boundary and must never
// reach here (guarded in receive.go).
func findBoundary(mode Mode, buf []byte, n int) (payloadStart, payloadEnd, nextPos int, ok bool) {
	switch mode {
	case ModeNulls:
		for i := 0; i < n; i++ {
			if buf[i] == 0x00 {
				return 0, i, i + 1, true
			}
		}
		return 0, 0, 0, false
	case ModeNewlines:
		for i := 0; i < n; i++ {
			if buf[i] == 0x0A {
				return 0, i, i + 1, true
			}
		}
		return 0, 0, 0, false
	case ModeFrames:
		if n < frameLenSize {
			return 0, 0, 0, false
		}
		l := int(binary.NativeEndian.Uint16(buf[:frameLenSize]))
		end := frameLenSize + l
		if end > n {
			return 0, 0, 0, false
		}
		// §9 Open Question, resolved: the 2-byte field is payload length;
		// the consumer advances 2+L bytes per record.
		return frameLenSize, end, end, true
	default:
		return 0, 0, 0, false
	}
}
