// Package dmq implements a persistent, durable, single-producer /
// single-consumer message queue backed by two local files plus a small
// memory-mapped header.
//
// Records are appended by a producer and framed with one of four codecs
// (Nulls, Newlines, Frames, Raw). A consumer reads records in order,
// persists its position in the shared header after every delivered record,
// and drives a dual-file rollover state machine so queue storage is
// reclaimed once it has been fully drained. The scheme is lock-free between
// the two endpoints: the header's fields are partitioned by writer (the
// producer only ever reads it), so no cross-process mutex is required.
//
// This is an inter-process pipe, not a general-purpose broker: one producer,
// one consumer, local disk only. See the package-level functions Init,
// Free, Send, Receive, Info, and Clean for the full surface.
package dmq

// Mode selects the framing codec used to delimit records on disk. Mode is
// fixed for the lifetime of a queue and is stored in the shared header at
// creation time.
type Mode int32

const (
	// ModeUnspecified means "keep whatever the queue was created with", or
	// default to ModeNewlines on a fresh create. It is never stored in the
	// header.
	ModeUnspecified Mode = -1

	// ModeNulls appends one 0x00 byte after each record; a NUL byte marks
	// the next record boundary. Records must not contain 0x00.
	ModeNulls Mode = 0

	// ModeNewlines appends one 0x0A byte after each record; a newline byte
	// marks the next record boundary. Records must not contain 0x0A.
	ModeNewlines Mode = 1

	// ModeFrames prefixes each record with a 2-byte length (host byte
	// order, payload length only, max 65535) and carries arbitrary bytes,
	// including 0x00 and 0x0A.
	ModeFrames Mode = 2

	// ModeRaw appends records back to back with no delimiter. Receive is
	// not permitted in this mode: there is no way to recover boundaries.
	ModeRaw Mode = 3
)

func (m Mode) String() string {
	switch m {
	case ModeNulls:
		return "nulls"
	case ModeNewlines:
		return "newlines"
	case ModeFrames:
		return "frames"
	case ModeRaw:
		return "raw"
	case ModeUnspecified:
		return "unspecified"
	default:
		return "invalid"
	}
}
