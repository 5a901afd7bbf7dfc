package hotload

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcher_SignalsArtifactChanges(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	w, err := NewWatcher(dir, "game.so", nil)
	require.NoError(t, err)

	// Other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "game.so_temp"), []byte("x"), 0o644))
	time.Sleep(50 * time.Millisecond)
	assert.False(t, w.Changed())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "game.so"), []byte("v1"), 0o644))
	require.Eventually(t, w.Changed, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

func TestWatcher_MissingDir(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	_, err := NewWatcher(filepath.Join(t.TempDir(), "absent"), "game.so", nil)
	require.Error(t, err)
}

func TestReloader_WithWatcher(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := newFixture(t)
	v1, v2 := &build{}, &build{}
	f.loader.Register("v1", v1.symbols(true))
	f.loader.Register("v2", v2.symbols(true))
	f.publish(t, "v1")

	w, err := NewWatcher(f.dir, f.name, nil)
	require.NoError(t, err)
	defer w.Close()

	r, err := NewReloader(Options{Dir: f.dir, Name: f.name, Loader: f.loader, Watcher: w}, f.mem)
	require.NoError(t, err)

	// The first poll loads without waiting for an event.
	changed, err := r.Poll(t.Context())
	require.NoError(t, err)
	require.True(t, changed)

	f.publish(t, "v2")
	require.Eventually(t, func() bool {
		changed, err := r.Poll(t.Context())
		return err == nil && changed
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []bool{false}, v2.loads)
}
