package dmq

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Send frames p per the queue's mode and appends it, in one gather write,
// to the current write-target file. It commits the descriptor to the send
// direction on first use (spec.md §4.2) and never mutates the header: the
// producer only ever reads WriteTarget and Mode.
//
// Grounded directly on dmq.c's dmq_send: the iovec layout built there per
// mode is reproduced in codec.frameFor, and the single writev(2) call (with
// a short write treated as fatal, not retried) is reproduced here via
// golang.org/x/sys/unix.Writev.
func Send(h Handle, p []byte) (int, error) {
	n, err := sendLocked(h, p)
	return n, setLastError(err)
}

func sendLocked(h Handle, p []byte) (int, error) {
	d, err := defaultRegistry.get(h)
	if err != nil {
		return 0, err
	}
	if err := d.commitDirection(directionSend); err != nil {
		return 0, err
	}

	mode := d.hdr.Mode()
	parts, err := frameFor(mode, p)
	if err != nil {
		return 0, err
	}

	want := 0
	for _, part := range parts {
		want += len(part)
	}

	qfd := d.qfd[d.hdr.WriteTarget()]
	n, err := unix.Writev(int(qfd.Fd()), parts)
	if err != nil {
		return 0, fmt.Errorf("dmq: writev(%s, %d bytes): %w", qfd.Name(), want, err)
	}
	if n != want {
		return n, ErrShortWrite
	}
	return n, nil
}
