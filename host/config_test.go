package host

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hotkit/arena"
	"github.com/joshuapare/hotkit/input"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hotreload.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[artifact]
dir = "build"
name = "demo.so"
policy = "drop-first"
watch = true

[display]
refresh_hz = 144
max_frames = 10
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "build", cfg.Artifact.Dir)
	assert.Equal(t, "demo.so", cfg.Artifact.Name)
	assert.Equal(t, "drop-first", cfg.Artifact.Policy)
	assert.True(t, cfg.Artifact.Watch)
	assert.Equal(t, 144, cfg.Display.RefreshHz)
	assert.Equal(t, uint64(10), cfg.Display.MaxFrames)
	// Untouched sections keep their defaults.
	assert.Equal(t, DefaultConfig().Memory, cfg.Memory)
	assert.Equal(t, "split", cfg.Artifact.API)
}

func TestLoadConfig_UnknownKey(t *testing.T) {
	path := writeConfig(t, `
[artifact]
nmae = "typo.so"
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "artifact.nmae")
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"policy", "[artifact]\npolicy = \"sometimes\"\n", "sometimes"},
		{"api", "[artifact]\napi = \"mixed\"\n", "mixed"},
		{"loader", "[artifact]\nloader = \"dlopen\"\n", "dlopen"},
		{"host size", "[memory]\nhost_size = 1000\n", "host_size"},
		{"level", "[log]\nlevel = \"loud\"\n", "loud"},
		{"events", "[input]\nmax_events = 0\n", "max_events"},
		{"event buffer", "[memory]\nhost_size = 64\n", "cannot hold input.max_events 64"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_WriteTOMLLoadsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Artifact.Name = "other.so"
	cfg.Display.MaxFrames = 3

	var out bytes.Buffer
	require.NoError(t, cfg.WriteTOML(&out))
	assert.Contains(t, out.String(), "[artifact]")

	got, err := LoadConfig(writeConfig(t, out.String()))
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestValidate_EventBufferFitsFrameArena(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Memory.HostSize = 4096
	fit := (cfg.Memory.HostSize/2 - arena.HeaderSize) / int(unsafe.Sizeof(input.Event{}))

	cfg.Input.MaxEvents = fit
	require.NoError(t, cfg.Validate())

	cfg.Input.MaxEvents = fit + 1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memory.host_size 4096")
}
