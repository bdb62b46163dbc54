package dmq

import (
	"errors"
	"sync"
)

// Sentinel errors for the conditions enumerated in spec.md §7. Compare with
// errors.Is; wrapped I/O errors carry the underlying cause via %w.
//
// Grounded on hayabusa-cloud-framer/errors.go's package-level sentinel
// block style.
var (
	// ErrInvalidHandle means the handle is out of range or not bound to an
	// open descriptor.
	ErrInvalidHandle = errors.New("dmq: invalid handle")

	// ErrDescriptorTableFull means Init was called after maxDescriptors
	// handles were already allocated and not yet freed.
	ErrDescriptorTableFull = errors.New("dmq: no descriptors available")

	// ErrDirectionViolation means Send was called on a handle already
	// committed to receive, or vice versa.
	ErrDirectionViolation = errors.New("dmq: direction violation")

	// ErrOversizeRecord means a record exceeds what the active framing
	// mode can represent (Frames mode: more than 65535 bytes). A record too
	// large for the consumer's buffer is reported as ErrRecordTooBig.
	ErrOversizeRecord = errors.New("dmq: record too large for framing mode")

	// ErrModeMismatch means Receive was called on a ModeRaw queue, which
	// has no self-delimiting boundary.
	ErrModeMismatch = errors.New("dmq: receive not permitted in raw mode")

	// ErrRecordTooBig means a record boundary could not be found even
	// after one full buffer refill: the record does not fit in the
	// consumer's internal buffer.
	ErrRecordTooBig = errors.New("dmq: record too big for internal buffer")

	// ErrShortWrite means the gather-write to the write-target file wrote
	// fewer bytes than the framed record length. This is fatal for the
	// call that produced it; the core does not retry partial writes.
	ErrShortWrite = errors.New("dmq: short write")

	// ErrWouldBlock is returned by Receive in non-blocking mode when the
	// read target has no more data and the queue is not in a position to
	// roll over. It is not a failure.
	ErrWouldBlock = errors.New("dmq: would block")

	// ErrCorrupted means an existing header file failed the magic/version
	// check on attach.
	ErrCorrupted = errors.New("dmq: header file is not a valid dmq header")
)

// lastError is a process-global last-error string, mirroring dmq_errmsg
// from the original C source for callers (e.g. a future FFI binding layer)
// that expect a single global message rather than a returned error value.
// Every exported operation that returns a non-nil error also records its
// message here, except Receive's ErrWouldBlock, which is not a failure;
// this is purely a convenience mirror, never the primary error-reporting
// path.
var lastErrorMu sync.Mutex
var lastErrorMsg string

func setLastError(err error) error {
	if err != nil {
		lastErrorMu.Lock()
		lastErrorMsg = err.Error()
		lastErrorMu.Unlock()
	}
	return err
}

// LastError returns the message of the most recently recorded error from
// any dmq operation in this process, or the empty string if none has
// occurred yet.
func LastError() string {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	return lastErrorMsg
}
