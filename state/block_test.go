package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hotkit/arena"
)

func TestNew_OSBacked(t *testing.T) {
	b, err := New(1 << 16)
	require.NoError(t, err)
	defer func() { require.NoError(t, b.Release()) }()

	assert.Equal(t, uint64(1<<16), b.Size())
	require.NoError(t, b.PutU64(128, 42))
	got, err := b.U64(128)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got)
}

func TestSlice_Bounds(t *testing.T) {
	b := FromBytes(make([]byte, 64))

	_, err := b.Slice(60, 4)
	require.NoError(t, err)
	_, err = b.Slice(60, 5)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = b.Slice(^uint64(0), 2)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = b.U64(57)
	require.ErrorIs(t, err, ErrOutOfRange)
	require.ErrorIs(t, b.PutU64(64, 1), ErrOutOfRange)
}

func TestCarveAndAttach_SurviveReattach(t *testing.T) {
	b := FromBytes(make([]byte, 8192))

	perm, err := b.Carve(4096, 2048)
	require.NoError(t, err)
	ref, data, err := perm.Push(8, 8)
	require.NoError(t, err)
	copy(data, "survives")
	pos := perm.Position()

	// A reloaded module only has the block; it re-attaches by offset.
	again, err := b.Attach(4096, 2048)
	require.NoError(t, err)
	assert.Equal(t, pos, again.Position())
	got, ok := again.Bytes(ref, 8)
	require.True(t, ok)
	assert.Equal(t, "survives", string(got))
}

func TestCarve_Errors(t *testing.T) {
	b := FromBytes(make([]byte, 4096))

	_, err := b.Carve(0, 3000)
	require.ErrorIs(t, err, arena.ErrNotPow2)
	_, err = b.Carve(2048, 4096)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = b.Attach(0, 1024)
	require.ErrorIs(t, err, arena.ErrCorruptHeader)
}

func TestRelease_FromBytes(t *testing.T) {
	b := FromBytes(make([]byte, 16))
	require.NoError(t, b.Release())
	assert.Zero(t, b.Size())
}
