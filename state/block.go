package state

import (
	"errors"
	"fmt"

	"github.com/joshuapare/hotkit/arena"
	"github.com/joshuapare/hotkit/internal/buf"
	"github.com/joshuapare/hotkit/internal/vmem"
)

// ErrOutOfRange indicates an offset or length outside the block.
var ErrOutOfRange = errors.New("state: range outside block")

// Block is the persistent state block.
type Block struct {
	region *vmem.Region // nil when the block wraps caller memory
	mem    []byte
}

// New reserves and commits size bytes from the OS.
func New(size int) (*Block, error) {
	r, err := vmem.Alloc(size)
	if err != nil {
		return nil, fmt.Errorf("state: allocate %d bytes: %w", size, err)
	}
	return &Block{region: r, mem: r.Bytes()}, nil
}

// FromBytes wraps caller-owned memory as a block.
func FromBytes(b []byte) *Block {
	return &Block{mem: b}
}

// Bytes returns the whole block.
func (b *Block) Bytes() []byte {
	return b.mem
}

// Size returns the block size in bytes.
func (b *Block) Size() uint64 {
	return uint64(len(b.mem))
}

// Slice returns the n bytes at off.
func (b *Block) Slice(off, n uint64) ([]byte, error) {
	end, ok := buf.AddU64(off, n)
	if !ok || end > b.Size() {
		return nil, fmt.Errorf("%w: [%d,+%d) of %d", ErrOutOfRange, off, n, b.Size())
	}
	return b.mem[off:end:end], nil
}

// U64 reads the little-endian uint64 at off.
func (b *Block) U64(off uint64) (uint64, error) {
	s, err := b.Slice(off, 8)
	if err != nil {
		return 0, err
	}
	return buf.U64LE(s), nil
}

// PutU64 writes v little-endian at off.
func (b *Block) PutU64(off, v uint64) error {
	s, err := b.Slice(off, 8)
	if err != nil {
		return err
	}
	buf.PutU64LE(s, v)
	return nil
}

// Carve initialises a fresh arena over [off, off+size). size must be a power
// of two. Whatever the range held before is abandoned.
func (b *Block) Carve(off, size uint64) (*arena.Arena, error) {
	s, err := b.Slice(off, size)
	if err != nil {
		return nil, err
	}
	return arena.New(s)
}

// Attach re-opens an arena previously carved at [off, off+size) without
// resetting it.
func (b *Block) Attach(off, size uint64) (*arena.Arena, error) {
	s, err := b.Slice(off, size)
	if err != nil {
		return nil, err
	}
	return arena.Open(s)
}

// Release returns OS-backed memory. Blocks created with FromBytes are left alone.
func (b *Block) Release() error {
	b.mem = nil
	if b.region == nil {
		return nil
	}
	return b.region.Release()
}
