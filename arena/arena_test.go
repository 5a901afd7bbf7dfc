package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArena(t testing.TB, size int) *Arena {
	t.Helper()
	a, err := New(make([]byte, size))
	require.NoError(t, err)
	return a
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		size int
		want error
	}{
		{"empty", 0, ErrTooSmall},
		{"smaller than header", 8, ErrTooSmall},
		{"not power of two", 48, ErrNotPow2},
		{"odd size", 100, ErrNotPow2},
		{"exactly header", HeaderSize, nil},
		{"typical", 4096, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(make([]byte, tt.size))
			if tt.want != nil {
				require.ErrorIs(t, err, tt.want)
				assert.Nil(t, a)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint64(HeaderSize), a.Position())
			assert.Equal(t, uint64(tt.size), a.Capacity())
		})
	}
}

func TestNew_WritesHeaderIntoBlock(t *testing.T) {
	block := make([]byte, 256)
	for i := range block {
		block[i] = 0xff
	}
	a, err := New(block)
	require.NoError(t, err)

	_, _, err = a.Push(10, 1)
	require.NoError(t, err)

	// Header lives in the caller's block, little-endian.
	assert.Equal(t, byte(HeaderSize+10), block[0])
	assert.Equal(t, byte(0), block[1])
	assert.Equal(t, byte(0), block[8]) // 256 = 0x100
	assert.Equal(t, byte(1), block[9])
}

// Capacity 64 with a 16-byte header leaves room for exactly three 16-byte
// blocks; the fourth must fail without moving the cursor.
func TestAllocate_FixedCapacityScenario(t *testing.T) {
	a := newTestArena(t, 64)

	wantCursor := []uint64{32, 48, 64}
	for i, want := range wantCursor {
		ref, b, err := a.Allocate(16, 8, false)
		require.NoError(t, err, "allocation %d", i)
		require.Len(t, b, 16)
		assert.Equal(t, Ref(want-16), ref)
		assert.Equal(t, want, a.Position())
	}

	ref, b, err := a.Allocate(16, 8, false)
	require.ErrorIs(t, err, ErrExhausted)
	assert.Nil(t, b)
	assert.Zero(t, ref)
	assert.Equal(t, uint64(64), a.Position(), "failed allocation must not move the cursor")
}

func TestAllocate_Alignment(t *testing.T) {
	a := newTestArena(t, 1024)

	_, _, err := a.Allocate(3, 1, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(19), a.Position())

	for _, align := range []uint64{2, 4, 8, 16, 64} {
		ref, _, err := a.Allocate(1, align, false)
		require.NoError(t, err)
		assert.Zero(t, uint64(ref)%align, "ref %d not aligned to %d", ref, align)
	}
}

func TestAllocate_BadAlign(t *testing.T) {
	a := newTestArena(t, 128)
	for _, align := range []uint64{0, 3, 6, 12} {
		_, _, err := a.Allocate(8, align, true)
		require.ErrorIs(t, err, ErrBadAlign, "align %d", align)
	}
	assert.Equal(t, uint64(HeaderSize), a.Position())
}

func TestAllocate_AlignmentPaddingCountsAgainstCapacity(t *testing.T) {
	a := newTestArena(t, 64)
	_, _, err := a.Allocate(1, 1, false) // cursor 17
	require.NoError(t, err)

	// 17 aligns up to 32; 32+40 > 64 even though 17+40 would fit.
	_, _, err = a.Allocate(40, 32, false)
	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, uint64(17), a.Position())
}

func TestAllocate_HugeSizeDoesNotWrap(t *testing.T) {
	a := newTestArena(t, 64)
	_, _, err := a.Allocate(^uint64(0), 8, false)
	require.ErrorIs(t, err, ErrExhausted)
	_, _, err = a.Allocate(8, 1<<63, false)
	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, uint64(HeaderSize), a.Position())
}

func TestAllocate_Zeroing(t *testing.T) {
	a := newTestArena(t, 128)
	mark := a.Position()

	_, b, err := a.Push(32, 8)
	require.NoError(t, err)
	for i := range b {
		b[i] = 0xAB
	}
	a.PopTo(mark)

	_, dirty, err := a.PushNoZero(32, 8)
	require.NoError(t, err)
	assert.Equal(t, byte(0xAB), dirty[0], "PushNoZero must not clear reused memory")
	a.PopTo(mark)

	_, clean, err := a.Push(32, 8)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 32), clean)
}

func TestAllocate_ZeroSize(t *testing.T) {
	a := newTestArena(t, 64)
	_, _, err := a.Allocate(1, 1, false)
	require.NoError(t, err)

	ref, b, err := a.Allocate(0, 8, false)
	require.NoError(t, err)
	assert.Empty(t, b)
	assert.Equal(t, Ref(24), ref)
	assert.Equal(t, uint64(24), a.Position())
}

func TestAllocate_RegionsDoNotOverlap(t *testing.T) {
	a := newTestArena(t, 256)
	_, first, err := a.Push(8, 8)
	require.NoError(t, err)
	_, second, err := a.Push(8, 8)
	require.NoError(t, err)

	first = append(first, 0xEE) // capped slice: must reallocate, not clobber second
	assert.Equal(t, byte(0), second[0])
	assert.Len(t, first, 9)
}

func TestPopTo(t *testing.T) {
	a := newTestArena(t, 256)
	_, _, err := a.Push(64, 8)
	require.NoError(t, err)
	saved := a.Position()
	_, _, err = a.Push(64, 8)
	require.NoError(t, err)

	a.PopTo(saved)
	assert.Equal(t, saved, a.Position())

	a.PopTo(0)
	assert.Equal(t, uint64(HeaderSize), a.Position(), "PopTo clamps at the header")

	a.PopTo(200)
	assert.Equal(t, uint64(HeaderSize), a.Position(), "PopTo never advances the cursor")
}

func TestPop(t *testing.T) {
	a := newTestArena(t, 256)
	_, _, err := a.Push(100, 1)
	require.NoError(t, err)

	a.Pop(40)
	assert.Equal(t, uint64(HeaderSize+60), a.Position())

	a.Pop(1000)
	assert.Equal(t, uint64(HeaderSize), a.Position(), "Pop stops at the header")

	a.Pop(1)
	assert.Equal(t, uint64(HeaderSize), a.Position())
}

func TestClear_Idempotent(t *testing.T) {
	a := newTestArena(t, 512)
	for range 5 {
		_, _, err := a.Push(48, 16)
		require.NoError(t, err)
	}
	for range 3 {
		a.Clear()
		assert.Equal(t, uint64(HeaderSize), a.Position())
	}
	assert.Equal(t, a.Capacity()-HeaderSize, a.Remaining())
}

func TestOpen_ReattachesExistingState(t *testing.T) {
	block := make([]byte, 512)
	a, err := New(block)
	require.NoError(t, err)
	ref, b, err := a.Push(8, 8)
	require.NoError(t, err)
	copy(b, "persist!")
	pos := a.Position()

	reopened, err := Open(block)
	require.NoError(t, err)
	assert.Equal(t, pos, reopened.Position())

	got, ok := reopened.Bytes(ref, 8)
	require.True(t, ok)
	assert.Equal(t, "persist!", string(got))

	// Both views share the cursor stored in the block.
	_, _, err = reopened.Push(8, 8)
	require.NoError(t, err)
	assert.Equal(t, reopened.Position(), a.Position())
}

func TestOpen_RejectsCorruptHeader(t *testing.T) {
	t.Run("capacity mismatch", func(t *testing.T) {
		block := make([]byte, 256)
		_, err := New(block)
		require.NoError(t, err)
		_, err = Open(block[:128])
		require.ErrorIs(t, err, ErrCorruptHeader)
	})
	t.Run("uninitialised", func(t *testing.T) {
		_, err := Open(make([]byte, 256))
		require.ErrorIs(t, err, ErrCorruptHeader)
	})
	t.Run("cursor past capacity", func(t *testing.T) {
		block := make([]byte, 64)
		_, err := New(block)
		require.NoError(t, err)
		block[0] = 65
		_, err = Open(block)
		require.ErrorIs(t, err, ErrCorruptHeader)
	})
	t.Run("bad size", func(t *testing.T) {
		_, err := Open(make([]byte, 48))
		require.ErrorIs(t, err, ErrNotPow2)
		_, err = Open(make([]byte, 4))
		require.ErrorIs(t, err, ErrTooSmall)
	})
}

func TestBytes_Bounds(t *testing.T) {
	a := newTestArena(t, 128)
	ref, _, err := a.Push(16, 8)
	require.NoError(t, err)

	_, ok := a.Bytes(ref, 16)
	assert.True(t, ok)
	_, ok = a.Bytes(ref, 17)
	assert.False(t, ok, "range past the cursor is not allocated")
	_, ok = a.Bytes(0, 4)
	assert.False(t, ok, "the header is not addressable")
}

func TestStats(t *testing.T) {
	a := newTestArena(t, 128)
	_, _, err := a.Push(56, 8)
	require.NoError(t, err)

	s := a.Stats()
	assert.Equal(t, uint64(56), s.Used)
	assert.Equal(t, uint64(128), s.Capacity)
	assert.Equal(t, uint64(56), s.Remaining)
	assert.InDelta(t, 0.5, s.Utilization, 1e-9)
}
