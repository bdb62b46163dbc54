// Package bufpool provides a small sync.Pool of reusable byte slices for
// the CLI's producer path, so a tight send loop doesn't
// allocate a new buffer per record.
package bufpool

import "sync"

// Pool hands out []byte slices of a fixed capacity.
type Pool struct {
	size int
	pool sync.Pool
}

// New returns a Pool that hands out slices of the given capacity.
func New(size int) *Pool {
	p := &Pool{size: size}
	p.pool.New = func() any {
		return make([]byte, size)
	}
	return p
}

// Get returns a slice of length p.size. Callers must not retain it past
// the matching Put.
func (p *Pool) Get() []byte {
	return p.pool.Get().([]byte)
}

// Put returns buf to the pool.
func (p *Pool) Put(buf []byte) {
	if cap(buf) < p.size {
		return
	}
	p.pool.Put(buf[:p.size])
}
