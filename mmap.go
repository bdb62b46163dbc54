package dmq

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mapHeaderFile maps the header file's first headerSize bytes shared
// read-write. Grounded on marmos91-dittofs/pkg/wal/mmap.go's
// unix.Mmap(fd, 0, size, PROT_READ|PROT_WRITE, MAP_SHARED) usage, which
// replaces the teacher's hand-rolled syscall.Syscall6(SYS_MMAP, ...).
func mapHeaderFile(f *os.File) ([]byte, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, headerSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("dmq: mmap %s: %w", f.Name(), err)
	}
	return data, nil
}

func unmapHeaderFile(data []byte) error {
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("dmq: munmap: %w", err)
	}
	return nil
}

// syncHeaderFile flushes the mapped header to the page cache. The core
// offers no fsync-grade durability guarantee (spec.md §1 Non-goals), so this
// is asynchronous and best-effort, mirroring marmos91-dittofs/pkg/wal's use
// of MS_ASYNC.
func syncHeaderFile(data []byte) error {
	if err := unix.Msync(data, unix.MS_ASYNC); err != nil {
		return fmt.Errorf("dmq: msync: %w", err)
	}
	return nil
}
