package dmq

import (
	"fmt"
	"io"
	"os"
)

// Init creates or attaches to the queue rooted at base, returning a handle
// to a fresh session descriptor. base is a path prefix: the queue's three
// files are base+"0", base+"1", and base+"map".
//
// If the header file does not exist, it is created and initialized with
// mode (ModeUnspecified defaults to ModeNewlines). If it exists, mode is
// ignored — mode is immutable after creation (spec.md §3) — and its stored
// fields are left untouched except the read offset. In both cases the read
// target file is seeked to the stored position and the read offset is set
// to that position.
//
// Grounded on dmq.c's dmq_init and paultag-go-diskring/ring.go's
// Open/OpenWithOptions (open-or-create, mmap, return a handle to the
// caller).
func Init(base string, mode Mode) (Handle, error) {
	h, err := initLocked(base, mode)
	return h, setLastError(err)
}

func initLocked(base string, mode Mode) (Handle, error) {
	mapPath := base + "map"

	f, fresh, err := openOrCreateHeaderFile(mapPath)
	if err != nil {
		return -1, fmt.Errorf("dmq: open map file %s: %w", mapPath, err)
	}

	data, err := mapHeaderFile(f)
	if err != nil {
		f.Close()
		return -1, err
	}
	hdr := newHeaderView(data)

	if fresh {
		hdr.initializeFresh(base, mode)
	} else if !hdr.valid() {
		unmapHeaderFile(data)
		f.Close()
		return -1, ErrCorrupted
	}

	d := &descriptor{base: base, headerFile: f, headerData: data, hdr: hdr}

	for i, qf := range [2]string{hdr.QFile(qfQ0), hdr.QFile(qfQ1)} {
		qfd, err := os.OpenFile(qf, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0600)
		if err != nil {
			d.close()
			return -1, fmt.Errorf("dmq: open queue file %s: %w", qf, err)
		}
		d.qfd[i] = qfd
	}

	readTarget := hdr.ReadTarget()
	pos := hdr.Position()
	if _, err := d.qfd[readTarget].Seek(pos, io.SeekStart); err != nil {
		d.close()
		return -1, fmt.Errorf("dmq: seek read target to position %d: %w", pos, err)
	}
	hdr.SetReadOffset(pos)

	handle, err := defaultRegistry.alloc(d)
	if err != nil {
		d.close()
		return -1, err
	}
	return handle, nil
}

// openOrCreateHeaderFile opens path for read-write, creating and truncating
// it to headerSize if it doesn't already exist. fresh reports whether the
// file was just created.
func openOrCreateHeaderFile(path string) (f *os.File, fresh bool, err error) {
	f, err = os.OpenFile(path, os.O_RDWR, 0)
	if err == nil {
		return f, false, nil
	}
	if !os.IsNotExist(err) {
		return nil, false, err
	}
	f, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, false, err
	}
	if err := f.Truncate(int64(headerSize)); err != nil {
		f.Close()
		return nil, false, err
	}
	return f, true, nil
}

// Free unmaps the header, closes both queue files, and releases the
// descriptor's slot in the table. Grounded on dmq.c's dmq_free and
// paultag-go-diskring/ring.go's Ring.Close.
func Free(h Handle) error {
	return setLastError(freeLocked(h))
}

func freeLocked(h Handle) error {
	d, err := defaultRegistry.get(h)
	if err != nil {
		return err
	}
	closeErr := d.close()
	if err := defaultRegistry.free(h); err != nil {
		return err
	}
	return closeErr
}

// HeaderSnapshot is a point-in-time copy of the shared header's fields, as
// returned by Info.
type HeaderSnapshot struct {
	ReadTarget  int
	WriteTarget int
	WriteDelay  int64
	Mode        Mode
	ReadOffset  int64
	Position    int64
	Q0          string
	Q1          string
	MapFile     string
}

// Info returns a snapshot of the shared header's fields. Grounded on
// dmq.c's dmq_info, which prints the same fields in key=value form; the
// CLI's -p mode (cmd/dmq) formats this snapshot the way dmq_info did.
func Info(h Handle) (HeaderSnapshot, error) {
	d, err := defaultRegistry.get(h)
	if err != nil {
		return HeaderSnapshot{}, setLastError(err)
	}
	hdr := d.hdr
	return HeaderSnapshot{
		ReadTarget:  hdr.ReadTarget(),
		WriteTarget: hdr.WriteTarget(),
		WriteDelay:  hdr.WriteDelay(),
		Mode:        hdr.Mode(),
		ReadOffset:  hdr.ReadOffset(),
		Position:    hdr.Position(),
		Q0:          hdr.QFile(qfQ0),
		Q1:          hdr.QFile(qfQ1),
		MapFile:     hdr.QFile(qfMap),
	}, nil
}

// Clean unlinks the queue's three files. It must not be called while any
// endpoint holds an open descriptor against the same base path (spec.md
// §4.8). Grounded on dmq.c's dmq_clean.
func Clean(h Handle) error {
	return setLastError(cleanLocked(h))
}

func cleanLocked(h Handle) error {
	d, err := defaultRegistry.get(h)
	if err != nil {
		return err
	}
	hdr := d.hdr
	var firstErr error
	for _, qf := range []string{hdr.QFile(qfQ0), hdr.QFile(qfQ1), hdr.QFile(qfMap)} {
		if err := os.Remove(qf); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
