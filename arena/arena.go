package arena

import (
	"fmt"

	"github.com/joshuapare/hotkit/internal/buf"
)

// HeaderSize is the number of bytes at the start of every block reserved for
// the arena header: cursor (u64 LE) followed by capacity (u64 LE).
const HeaderSize = 16

const (
	cursorOffset   = 0
	capacityOffset = 8
)

// Ref is the byte offset of an allocation from the start of its arena block.
type Ref uint64

// Arena is a fixed-capacity bump allocator whose state lives in the header of
// the block it manages. The Go value is only a view; two Arenas opened over
// the same block observe the same cursor.
type Arena struct {
	mem []byte
}

// New lays out a fresh arena header at the start of block and returns an
// arena with its cursor just past the header. Any previous contents of the
// header are overwritten.
func New(block []byte) (*Arena, error) {
	n := uint64(len(block))
	if n < HeaderSize {
		return nil, ErrTooSmall
	}
	if !buf.IsPow2(n) {
		return nil, ErrNotPow2
	}
	a := &Arena{mem: block[:n:n]}
	buf.PutU64LE(a.mem[capacityOffset:], n)
	a.setCursor(HeaderSize)
	return a, nil
}

// Open attaches to a block previously initialised by New without resetting
// it. Allocations made through earlier views remain valid.
func Open(block []byte) (*Arena, error) {
	n := uint64(len(block))
	if n < HeaderSize {
		return nil, ErrTooSmall
	}
	if !buf.IsPow2(n) {
		return nil, ErrNotPow2
	}
	capacity := buf.U64LE(block[capacityOffset:])
	cursor := buf.U64LE(block[cursorOffset:])
	if capacity != n {
		return nil, fmt.Errorf("%w: capacity %d, block %d bytes", ErrCorruptHeader, capacity, n)
	}
	if cursor < HeaderSize || cursor > capacity {
		return nil, fmt.Errorf("%w: cursor %d outside [%d, %d]", ErrCorruptHeader, cursor, HeaderSize, capacity)
	}
	return &Arena{mem: block[:n:n]}, nil
}

// Allocate reserves size bytes at the next multiple of align. align must be a
// power of two. When zeroed is set the region is cleared before it is
// returned; otherwise it holds whatever the block contained.
//
// On ErrExhausted no state changes, so the caller can recover locally or
// treat it as fatal.
func (a *Arena) Allocate(size, align uint64, zeroed bool) (Ref, []byte, error) {
	if !buf.IsPow2(align) {
		return 0, nil, ErrBadAlign
	}
	start, ok := buf.AlignUpPow2(a.cursor(), align)
	if !ok {
		return 0, nil, ErrExhausted
	}
	end, ok := buf.AddU64(start, size)
	if !ok || end > a.Capacity() {
		return 0, nil, ErrExhausted
	}

	region := a.mem[start:end:end]
	if zeroed {
		clear(region)
	}
	a.setCursor(end)
	return Ref(start), region, nil
}

// Push allocates a zero-filled region.
func (a *Arena) Push(size, align uint64) (Ref, []byte, error) {
	return a.Allocate(size, align, true)
}

// PushNoZero allocates a region without clearing it.
func (a *Arena) PushNoZero(size, align uint64) (Ref, []byte, error) {
	return a.Allocate(size, align, false)
}

// PopTo moves the cursor back to pos. pos is clamped to the header size, and
// a pos beyond the current cursor is ignored: popping never allocates.
func (a *Arena) PopTo(pos uint64) {
	pos = max(pos, HeaderSize)
	if pos >= a.cursor() {
		return
	}
	a.setCursor(pos)
}

// Pop releases the most recent amount bytes, stopping at the header.
func (a *Arena) Pop(amount uint64) {
	cur := a.cursor()
	amount = min(amount, cur-HeaderSize)
	a.PopTo(cur - amount)
}

// Clear releases every allocation.
func (a *Arena) Clear() {
	a.PopTo(HeaderSize)
}

// Position returns the current cursor. It can be passed to PopTo later.
func (a *Arena) Position() uint64 {
	return a.cursor()
}

// Capacity returns the total size of the block, header included.
func (a *Arena) Capacity() uint64 {
	return uint64(len(a.mem))
}

// Remaining returns the number of bytes between the cursor and the end of the block.
func (a *Arena) Remaining() uint64 {
	return a.Capacity() - a.cursor()
}

// Bytes returns the n bytes at ref if they lie entirely inside allocated space.
func (a *Arena) Bytes(ref Ref, n uint64) ([]byte, bool) {
	if uint64(ref) < HeaderSize {
		return nil, false
	}
	end, ok := buf.AddU64(uint64(ref), n)
	if !ok || end > a.cursor() {
		return nil, false
	}
	return a.mem[ref:end:end], true
}

// Block returns the whole backing block, header included.
func (a *Arena) Block() []byte {
	return a.mem
}

func (a *Arena) cursor() uint64 {
	return buf.U64LE(a.mem[cursorOffset:])
}

// setCursor cannot fail: New and Open reject blocks shorter than the header.
func (a *Arena) setCursor(pos uint64) {
	buf.PutU64LE(a.mem[cursorOffset:], pos)
}
