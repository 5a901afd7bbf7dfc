package arena

import (
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vec struct {
	X, Y float32
	Tag  uint64
}

func TestAlloc_Typed(t *testing.T) {
	a := newTestArena(t, 256)
	_, _, err := a.Push(1, 1) // misalign the cursor
	require.NoError(t, err)

	v, ref, err := Alloc[vec](a)
	require.NoError(t, err)
	assert.Zero(t, uint64(ref)%uint64(unsafe.Alignof(vec{})))
	assert.Equal(t, vec{}, *v)

	v.X, v.Tag = 1.5, 42
	again, ok := At[vec](a, ref)
	require.True(t, ok)
	assert.Equal(t, float32(1.5), again.X)
	assert.Equal(t, uint64(42), again.Tag)
}

func TestAlloc_Exhausted(t *testing.T) {
	a := newTestArena(t, 32)
	_, _, err := Alloc[[32]byte](a)
	require.ErrorIs(t, err, ErrExhausted)
}

func TestAllocSlice(t *testing.T) {
	a := newTestArena(t, 512)
	s, ref, err := AllocSlice[uint32](a, 10)
	require.NoError(t, err)
	require.Len(t, s, 10)
	for i := range s {
		s[i] = uint32(i * i)
	}

	view, ok := SliceAt[uint32](a, ref, 10)
	require.True(t, ok)
	assert.Equal(t, uint32(81), view[9])

	_, ok = SliceAt[uint32](a, ref, 11)
	assert.False(t, ok)

	empty, ref, err := AllocSlice[uint32](a, 0)
	require.NoError(t, err)
	assert.Nil(t, empty)
	assert.Zero(t, ref)
}

func TestAllocSlice_OverflowingCount(t *testing.T) {
	a := newTestArena(t, 64)
	_, _, err := AllocSlice[[1 << 20]byte](a, math.MaxInt)
	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, uint64(HeaderSize), a.Position())
}

func TestAt_RejectsUnallocated(t *testing.T) {
	a := newTestArena(t, 128)
	_, ok := At[uint64](a, Ref(HeaderSize))
	assert.False(t, ok)
}
