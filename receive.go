package dmq

import (
	"fmt"
	"io"
	"time"
)

// Record is a view into a descriptor's internal receive buffer, valid
// until the next Receive call on the same handle. Copy Bytes() out before
// calling Receive again if you need to retain it.
type Record struct {
	buf        []byte
	start, end int
}

// Bytes returns the delivered record's payload, excluding its delimiter or
// length prefix.
func (r Record) Bytes() []byte { return r.buf[r.start:r.end] }

// Receive returns the next record from the queue. If nowait is true and no
// record is currently available, it returns (Record{}, ErrWouldBlock)
// immediately instead of waiting. In blocking mode it polls once a second
// until data arrives (spec.md §4.6's "wait" semantics — a coarse poll, by
// design: the two endpoints are independent OS processes, so an in-process
// notification channel can't reach across that boundary).
//
// Grounded directly on dmq.c's dmq_receive/dmq_read/dmq_findeor: the
// buffer-refill-and-carry logic, and the three-case rollover state machine,
// are reproduced in behavior, moved from process-global statics onto the
// per-descriptor buffer (spec.md §9).
func Receive(h Handle, nowait bool) (Record, error) {
	rec, err := receiveLocked(h, nowait)
	if err != nil && err != ErrWouldBlock {
		err = setLastError(err)
	}
	return rec, err
}

func receiveLocked(h Handle, nowait bool) (Record, error) {
	d, err := defaultRegistry.get(h)
	if err != nil {
		return Record{}, err
	}
	if err := d.commitDirection(directionReceive); err != nil {
		return Record{}, err
	}

	mode := d.hdr.Mode()
	if mode == ModeRaw {
		return Record{}, ErrModeMismatch
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.buf == nil {
		d.buf = make([]byte, 2*recvBufChunk)
		// Start with an empty window so the first call forces a refill,
		// the way dmq_receive's "pos == iov->len" check does with both
		// starting at zero.
		d.pos, d.limit = recvBufChunk, recvBufChunk
	}

	if d.pos == d.limit {
		// The window is exactly exhausted, nothing to carry: reset both
		// to the fresh region's start before refill overwrites it, or
		// pos would be left stale past the new limit.
		d.pos, d.limit = recvBufChunk, recvBufChunk
		if err := d.refill(nowait); err != nil {
			return Record{}, err
		}
	}
	if d.pos >= d.limit {
		return Record{}, ErrWouldBlock
	}

	ps, pe, next, ok := findBoundary(mode, d.buf[d.pos:d.limit], d.limit-d.pos)
	if !ok {
		// No complete record in the unconsumed region: carry it into the
		// region immediately preceding the next refill slot, then refill
		// once more (spec.md §4.5 step 3).
		unconsumed := d.limit - d.pos
		dst := recvBufChunk - unconsumed
		copy(d.buf[dst:recvBufChunk], d.buf[d.pos:d.limit])
		d.pos, d.limit = dst, recvBufChunk
		if err := d.refill(nowait); err != nil {
			return Record{}, err
		}
		ps, pe, next, ok = findBoundary(mode, d.buf[d.pos:d.limit], d.limit-d.pos)
		if !ok {
			return Record{}, ErrRecordTooBig
		}
	}

	rec := Record{buf: d.buf, start: d.pos + ps, end: d.pos + pe}
	nextBufIndex := d.pos + next
	d.hdr.SetPosition(d.hdr.ReadOffset() - int64(d.limit) + int64(nextBufIndex))
	d.pos = nextBufIndex
	return rec, nil
}

// refill reads more bytes from the read-target file into the buffer's
// fresh region (bytes [recvBufChunk:2*recvBufChunk)), driving the rollover
// state machine on EOF. It assumes d.mu is held and that d.limit ==
// recvBufChunk (i.e. the fresh region is currently empty) on entry.
func (d *descriptor) refill(nowait bool) error {
	fresh := d.buf[recvBufChunk:]
	for {
		qfd := d.qfd[d.hdr.ReadTarget()]
		n, err := qfd.Read(fresh)
		if err != nil && err != io.EOF {
			return fmt.Errorf("dmq: read %s: %w", qfd.Name(), err)
		}
		if n > 0 {
			d.hdr.SetReadOffset(d.hdr.ReadOffset() + int64(n))
			d.limit = recvBufChunk + n
			return nil
		}

		// n == 0: EOF on the read target. Drive the rollover state
		// machine (spec.md §4.6).
		readTarget := d.hdr.ReadTarget()
		writeTarget := d.hdr.WriteTarget()

		if readTarget != writeTarget {
			// Case A: the producer has already been redirected
			// elsewhere; this file is fully drained. Reclaim it and
			// switch the read target.
			if err := d.qfd[readTarget].Truncate(0); err != nil {
				return fmt.Errorf("dmq: truncate drained file %s: %w", d.qfd[readTarget].Name(), err)
			}
			d.hdr.SetReadTarget(writeTarget)
			if _, err := d.qfd[writeTarget].Seek(0, io.SeekStart); err != nil {
				return fmt.Errorf("dmq: seek new read target: %w", err)
			}
			d.hdr.SetReadOffset(0)
			d.hdr.SetPosition(0)
			continue
		}

		if d.hdr.ReadOffset() > 100 {
			// Case B: same file, meaningful drain so far. Redirect
			// future writes to the other file so this one can finish
			// draining, then fall through to waiting.
			d.hdr.SetWriteTarget(1 - writeTarget)
		}

		// Case C (or the tail of case B): wait for the producer.
		if nowait {
			return ErrWouldBlock
		}
		time.Sleep(time.Second)
	}
}
