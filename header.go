package dmq

import (
	"sync/atomic"
	"unsafe"
)

// The shared header is one memory-mapped page. Every process attached to
// the same base path maps this exact region; fields are partitioned by
// writer (spec.md §3/§5) so each can be read and written as an independent
// atomic word with no cross-field locking.
const (
	headerMagic   = int64(0x646d7120717564) // "dmq qud" read most-significant byte first, arbitrary but stable
	headerVersion = int64(1)

	headerFixedSize  = 64   // 8 int64 fields
	headerPathMaxLen = 1344 // (4096 - 64) / 3
	headerSize       = headerFixedSize + 3*headerPathMaxLen

	offReadTarget  = 0
	offWriteTarget = 8
	offWriteDelay  = 16
	offMode        = 24
	offReadOffset  = 32
	offPosition    = 40
	offMagic       = 48
	offVersion     = 56

	offQFile0   = headerFixedSize
	offQFile1   = offQFile0 + headerPathMaxLen
	offQFileMap = offQFile1 + headerPathMaxLen
)

// qfile indices, matching spec.md §4.1's QF_Q0/QF_Q1/QF_MAP.
const (
	qfQ0  = 0
	qfQ1  = 1
	qfMap = 2
)

// header is a view over the mmap'd control block. It never copies the
// backing bytes; all accessors read or write directly through the mapping.
type header struct {
	data []byte // len(data) == headerSize, backed by mmap
}

func newHeaderView(data []byte) *header {
	return &header{data: data}
}

func (h *header) word(off int) *int64 {
	return (*int64)(unsafe.Pointer(&h.data[off]))
}

func (h *header) ReadTarget() int      { return int(atomic.LoadInt64(h.word(offReadTarget))) }
func (h *header) SetReadTarget(v int)  { atomic.StoreInt64(h.word(offReadTarget), int64(v)) }
func (h *header) WriteTarget() int     { return int(atomic.LoadInt64(h.word(offWriteTarget))) }
func (h *header) SetWriteTarget(v int) { atomic.StoreInt64(h.word(offWriteTarget), int64(v)) }

func (h *header) WriteDelay() int64     { return atomic.LoadInt64(h.word(offWriteDelay)) }
func (h *header) SetWriteDelay(v int64) { atomic.StoreInt64(h.word(offWriteDelay), v) }

func (h *header) Mode() Mode      { return Mode(atomic.LoadInt64(h.word(offMode))) }
func (h *header) SetMode(m Mode)  { atomic.StoreInt64(h.word(offMode), int64(m)) }

func (h *header) ReadOffset() int64     { return atomic.LoadInt64(h.word(offReadOffset)) }
func (h *header) SetReadOffset(v int64) { atomic.StoreInt64(h.word(offReadOffset), v) }

func (h *header) Position() int64     { return atomic.LoadInt64(h.word(offPosition)) }
func (h *header) SetPosition(v int64) { atomic.StoreInt64(h.word(offPosition), v) }

func (h *header) magic() int64   { return atomic.LoadInt64(h.word(offMagic)) }
func (h *header) version() int64 { return atomic.LoadInt64(h.word(offVersion)) }

// QFile returns the path stored in slot i (qfQ0, qfQ1, or qfMap), trimmed of
// its trailing NUL padding.
func (h *header) QFile(i int) string {
	b := h.pathSlot(i)
	n := 0
	for n < len(b) && b[n] != 0 {
		n++
	}
	return string(b[:n])
}

// SetQFile writes path into slot i, NUL-padding the remainder. It panics if
// path doesn't fit — basepaths are operator-controlled and bounded, unlike
// record payloads.
func (h *header) SetQFile(i int, path string) {
	b := h.pathSlot(i)
	if len(path) >= len(b) {
		panic("dmq: base path too long for header path slot")
	}
	clear(b)
	copy(b, path)
}

func (h *header) pathSlot(i int) []byte {
	off := offQFile0 + i*headerPathMaxLen
	return h.data[off : off+headerPathMaxLen]
}

// initializeFresh stamps a brand-new header with the create-time defaults
// from spec.md §4.1: both targets at file 0, offsets at zero, mode fixed.
func (h *header) initializeFresh(base string, mode Mode) {
	if mode == ModeUnspecified {
		mode = ModeNewlines
	}
	atomic.StoreInt64(h.word(offMagic), headerMagic)
	atomic.StoreInt64(h.word(offVersion), headerVersion)
	h.SetReadTarget(0)
	h.SetWriteTarget(0)
	h.SetWriteDelay(0)
	h.SetMode(mode)
	h.SetReadOffset(0)
	h.SetPosition(0)
	h.SetQFile(qfQ0, base+"0")
	h.SetQFile(qfQ1, base+"1")
	h.SetQFile(qfMap, base+"map")
}

// valid reports whether this looks like a header we initialized, as opposed
// to a zero-length or foreign file attached by mistake.
func (h *header) valid() bool {
	return h.magic() == headerMagic && h.version() == headerVersion
}
