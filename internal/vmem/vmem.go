// Package vmem wraps the operating system's virtual-memory primitives:
// reserve address space, commit and decommit pages inside it, release it.
package vmem

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrOutOfRange indicates a commit or decommit range outside the reservation.
	ErrOutOfRange = errors.New("vmem: range outside reservation")

	// ErrReleased indicates use of a region after Release.
	ErrReleased = errors.New("vmem: region released")
)

// Region is a reserved span of address space. Only committed pages may be
// touched; reading or writing reserved-but-uncommitted pages faults on
// platforms that support reservation.
type Region struct {
	data     []byte
	released bool
}

// Reserve reserves size bytes of address space without committing it.
func Reserve(size int) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("vmem: invalid reservation size %d", size)
	}
	data, err := reserve(size)
	if err != nil {
		return nil, fmt.Errorf("vmem: reserve %d bytes: %w", size, err)
	}
	return &Region{data: data}, nil
}

// Alloc reserves and commits size bytes in one step.
func Alloc(size int) (*Region, error) {
	r, err := Reserve(size)
	if err != nil {
		return nil, err
	}
	if err := r.Commit(0, size); err != nil {
		_ = r.Release()
		return nil, err
	}
	return r, nil
}

// Bytes returns the whole reservation. Only committed ranges are usable.
func (r *Region) Bytes() []byte {
	return r.data
}

// Size returns the reservation size in bytes.
func (r *Region) Size() int {
	return len(r.data)
}

// Commit backs [off, off+n) with readable, writable memory. The range is
// widened to page boundaries.
func (r *Region) Commit(off, n int) error {
	b, err := r.span(off, n)
	if err != nil {
		return err
	}
	if err := commit(b); err != nil {
		return fmt.Errorf("vmem: commit [%d,+%d): %w", off, n, err)
	}
	return nil
}

// Decommit returns the pages covering [off, off+n) to the OS. Their contents
// are lost; the range must be committed again before use.
func (r *Region) Decommit(off, n int) error {
	b, err := r.span(off, n)
	if err != nil {
		return err
	}
	if err := decommit(b); err != nil {
		return fmt.Errorf("vmem: decommit [%d,+%d): %w", off, n, err)
	}
	return nil
}

// Release unmaps the whole reservation. Calling it twice is a no-op.
func (r *Region) Release() error {
	if r.released {
		return nil
	}
	r.released = true
	data := r.data
	r.data = nil
	return release(data)
}

// span returns the page-aligned sub-slice covering [off, off+n).
func (r *Region) span(off, n int) ([]byte, error) {
	if r.released {
		return nil, ErrReleased
	}
	if off < 0 || n <= 0 || off > len(r.data) || n > len(r.data)-off {
		return nil, fmt.Errorf("%w: [%d,+%d) of %d", ErrOutOfRange, off, n, len(r.data))
	}
	page := os.Getpagesize()
	start := off &^ (page - 1)
	end := min((off+n+page-1)&^(page-1), len(r.data))
	return r.data[start:end], nil
}
