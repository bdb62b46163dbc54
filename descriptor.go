package dmq

import (
	"os"
	"sync"
)

// direction is the send/receive lock committed on a descriptor's first
// operation (spec.md §4.2).
type direction int32

const (
	directionUncommitted direction = iota
	directionSend
	directionReceive
)

// recvBufChunk is the refill size used by the consumer (matches the
// original's BUFSIZ-per-read convention). The internal buffer holds two
// chunks: a "carry" region for a partial record left over from the
// previous refill, and a "fresh" region that the next read lands in.
const recvBufChunk = 8192

// descriptor is a per-process session handle: the mapped header, the two
// queue file handles, the direction lock, and (for receivers) a private
// receive buffer. Grounded on dmq.c's struct statedescriptor and on
// paultag-go-diskring/ring.go's Ring struct (file handles + mutex + buffer
// bundled together); per spec.md §9's "static per-process receive buffer"
// note, this buffer lives on the descriptor rather than as a package
// global, so independent queues in one process don't share state.
type descriptor struct {
	mu sync.Mutex

	base       string
	headerFile *os.File
	headerData []byte
	hdr        *header

	qfd [2]*os.File

	direction direction

	// Consumer-only receive buffer. buf has capacity 2*recvBufChunk: bytes
	// [0:recvBufChunk) are the carry region, [recvBufChunk:2*recvBufChunk)
	// is where the next refill lands. pos is the next unconsumed byte
	// within buf; limit is one past the last valid byte in buf.
	buf   []byte
	pos   int
	limit int
}

// commitDirection enforces the direction lock described in spec.md §4.2:
// the first send or receive on a descriptor commits it; any later call in
// the other direction fails.
func (d *descriptor) commitDirection(want direction) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.direction {
	case directionUncommitted:
		d.direction = want
		return nil
	case want:
		return nil
	default:
		return ErrDirectionViolation
	}
}

func (d *descriptor) close() error {
	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.headerData != nil {
		record(unmapHeaderFile(d.headerData))
		d.headerData = nil
	}
	if d.headerFile != nil {
		record(d.headerFile.Close())
		d.headerFile = nil
	}
	for i := range d.qfd {
		if d.qfd[i] != nil {
			record(d.qfd[i].Close())
			d.qfd[i] = nil
		}
	}
	return firstErr
}
