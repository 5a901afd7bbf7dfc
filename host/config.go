package host

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"unsafe"

	"github.com/BurntSushi/toml"

	"github.com/joshuapare/hotkit/arena"
	"github.com/joshuapare/hotkit/hotload"
	"github.com/joshuapare/hotkit/input"
	"github.com/joshuapare/hotkit/internal/buf"
)

// Config is the loop configuration, decoded from TOML.
type Config struct {
	Artifact ArtifactConfig `toml:"artifact"`
	Memory   MemoryConfig   `toml:"memory"`
	Display  DisplayConfig  `toml:"display"`
	Input    InputConfig    `toml:"input"`
	Log      LogConfig      `toml:"log"`
}

// ArtifactConfig locates the reloadable code.
type ArtifactConfig struct {
	Dir    string `toml:"dir"`
	Name   string `toml:"name"`
	API    string `toml:"api"`    // "split" or "tick"
	Policy string `toml:"policy"` // "keep-last-good" or "drop-first"
	Loader string `toml:"loader"` // "plugin" or "static"
	Watch  bool   `toml:"watch"`  // stat the artifact only after fsnotify events
}

// MemoryConfig sizes the state block and the host arenas.
type MemoryConfig struct {
	StateSize int `toml:"state_size"` // persistent state block, bytes
	HostSize  int `toml:"host_size"`  // power of two, split into permanent and frame arenas
}

// DisplayConfig describes the output surface and pacing.
type DisplayConfig struct {
	Width     uint32 `toml:"width"`  // 0 uses the platform size
	Height    uint32 `toml:"height"`
	RefreshHz int    `toml:"refresh_hz"` // 0 asks the platform
	MaxFrames uint64 `toml:"max_frames"` // 0 runs until quit
}

// InputConfig bounds per-iteration event buffering.
type InputConfig struct {
	MaxEvents int `toml:"max_events"`
}

// LogConfig selects the log level and destination.
type LogConfig struct {
	Level string `toml:"level"`
	Dir   string `toml:"dir"` // empty logs text to stderr
}

const (
	defaultRefreshHz = 60
	defaultStateSize = 64 << 20
	defaultHostSize  = 8 << 20
)

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Artifact: ArtifactConfig{
			Dir:    ".",
			Name:   "game.so",
			API:    hotload.APISplit.String(),
			Policy: hotload.KeepLastGood.String(),
			Loader: "plugin",
		},
		Memory: MemoryConfig{
			StateSize: defaultStateSize,
			HostSize:  defaultHostSize,
		},
		Display: DisplayConfig{
			Width:  960,
			Height: 540,
		},
		Input: InputConfig{MaxEvents: 64},
		Log:   LogConfig{Level: "info"},
	}
}

// LoadConfig decodes the TOML file at path over DefaultConfig. Unknown keys
// are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("host: decode config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("host: config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WriteTOML encodes c.
func (c Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks field ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if c.Artifact.Name == "" {
		errs = append(errs, errors.New("artifact.name is empty"))
	}
	if _, err := hotload.ParseAPI(c.Artifact.API); err != nil {
		errs = append(errs, err)
	}
	if _, err := hotload.ParsePolicy(c.Artifact.Policy); err != nil {
		errs = append(errs, err)
	}
	switch c.Artifact.Loader {
	case "plugin", "static":
	default:
		errs = append(errs, fmt.Errorf("artifact.loader %q: want plugin or static", c.Artifact.Loader))
	}
	if c.Memory.StateSize <= 0 {
		errs = append(errs, fmt.Errorf("memory.state_size %d: must be positive", c.Memory.StateSize))
	}
	h := c.Memory.HostSize
	if h <= 0 || h&(h-1) != 0 || h/2 < 2*arena.HeaderSize {
		errs = append(errs, fmt.Errorf("memory.host_size %d: must be a power of two >= %d", h, 4*arena.HeaderSize))
	} else if c.Input.MaxEvents > 0 {
		// The frame half must hold an arena header plus one frame's event buffer.
		if need, ok := eventBufferSize(c.Input.MaxEvents); !ok || need > uint64(h/2) {
			errs = append(errs, fmt.Errorf("memory.host_size %d: frame arena of %d bytes cannot hold input.max_events %d",
				h, h/2, c.Input.MaxEvents))
		}
	}
	if c.Display.RefreshHz < 0 {
		errs = append(errs, fmt.Errorf("display.refresh_hz %d: must not be negative", c.Display.RefreshHz))
	}
	if c.Input.MaxEvents <= 0 {
		errs = append(errs, fmt.Errorf("input.max_events %d: must be positive", c.Input.MaxEvents))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("host: invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// eventBufferSize returns the frame arena bytes needed to buffer n events,
// header and alignment padding included.
func eventBufferSize(n int) (uint64, bool) {
	start, ok := buf.AlignUpPow2(arena.HeaderSize, uint64(unsafe.Alignof(input.Event{})))
	if !ok {
		return 0, false
	}
	size, ok := buf.MulU64(uint64(n), uint64(unsafe.Sizeof(input.Event{})))
	if !ok {
		return 0, false
	}
	return buf.AddU64(start, size)
}

// ParseLevel maps debug, info, warn or error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", s, err)
	}
	return l, nil
}
