package hotload

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joshuapare/hotkit/internal/logger"
	"github.com/joshuapare/hotkit/internal/osfs"
	"github.com/joshuapare/hotkit/state"
)

// Policy decides what happens to the running code when a reload fails.
type Policy int

const (
	// KeepLastGood unloads the old handle only after the replacement validates.
	KeepLastGood Policy = iota
	// DropFirst unloads the old handle before loading the replacement.
	DropFirst
)

func (p Policy) String() string {
	switch p {
	case KeepLastGood:
		return "keep-last-good"
	case DropFirst:
		return "drop-first"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy maps "keep-last-good" or "drop-first" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "keep-last-good", "":
		return KeepLastGood, nil
	case "drop-first":
		return DropFirst, nil
	default:
		return 0, fmt.Errorf("hotload: unknown policy %q", s)
	}
}

// Options configures a Reloader.
type Options struct {
	Dir    string // Directory holding the artifact
	Name   string // Artifact file name, e.g. "game.so"
	API    API
	Policy Policy
	Loader Loader // Default: PluginLoader

	Services *Services    // Default: NewServices(Logger)
	Logger   *slog.Logger // Default: logger.L
	Watcher  *Watcher     // Optional; Poll stats only after a change event
}

// ReloadStats counts load attempts.
type ReloadStats struct {
	Attempts int
	Loads    int
	Failures int
}

// Reloader owns the active handle and runs the reload protocol.
// It is not safe for concurrent use.
type Reloader struct {
	opts      Options
	canonical string
	temp      string
	mem       *state.Block
	log       *slog.Logger

	active    *Handle
	lastSeen  time.Time
	attempted bool
	loaded    bool // a Load call has happened at least once
	gen       int
	stats     ReloadStats
}

// NewReloader prepares a reloader for opts against mem. No load happens
// until the first Poll.
func NewReloader(opts Options, mem *state.Block) (*Reloader, error) {
	if opts.Name == "" {
		return nil, errors.New("hotload: artifact name is required")
	}
	if mem == nil {
		return nil, errors.New("hotload: state block is required")
	}
	if opts.Loader == nil {
		opts.Loader = &PluginLoader{}
	}
	log := logger.Or(opts.Logger)
	if opts.Services == nil {
		opts.Services = NewServices(log)
	}
	canonical := filepath.Join(opts.Dir, opts.Name)
	return &Reloader{
		opts:      opts,
		canonical: canonical,
		temp:      canonical + "_temp",
		mem:       mem,
		log:       log.With("artifact", canonical),
	}, nil
}

// Paths returns the canonical artifact path and its temp copy.
func (r *Reloader) Paths() (canonical, temp string) {
	return r.canonical, r.temp
}

// Active returns the current handle, possibly nil or invalid.
func (r *Reloader) Active() *Handle {
	return r.active
}

// Stats returns attempt counters.
func (r *Reloader) Stats() ReloadStats {
	return r.stats
}

// Poll runs one step of the reload protocol. It reports whether a load
// attempt happened; a failed attempt returns its *LoadError. After a
// failure the previous handle (KeepLastGood) or no valid handle (DropFirst)
// remains active.
func (r *Reloader) Poll(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if r.attempted && r.opts.Watcher != nil && !r.opts.Watcher.Changed() {
		return false, nil
	}

	// A missing artifact reads as the zero time, so it is tried once.
	mod, statErr := osfs.LastWriteTime(r.canonical)
	if r.attempted && mod.Equal(r.lastSeen) {
		return false, nil
	}
	r.attempted = true
	r.lastSeen = mod
	r.gen++
	r.stats.Attempts++

	if r.opts.Policy == DropFirst && r.active != nil {
		r.release(r.active)
		r.active = nil
	}

	h := r.open(mod, statErr)
	if !h.valid {
		r.stats.Failures++
		r.log.Warn("reload failed", "gen", h.gen, "policy", r.opts.Policy, "error", h.err)
		if r.active == nil || !r.active.valid {
			r.active = h
		}
		return true, h.err
	}

	if r.active != nil {
		r.release(r.active)
	}
	r.active = h
	first := !r.loaded
	r.loaded = true
	r.stats.Loads++
	h.entry.Load(first, r.mem, r.opts.Services)
	r.log.Info("module loaded", "gen", h.gen, "first", first, "api", r.opts.API)
	return true, nil
}

// open copies, opens and resolves the artifact. The returned handle is
// valid only if every required entry point resolved.
func (r *Reloader) open(mod time.Time, statErr error) *Handle {
	h := &Handle{modTime: mod, gen: r.gen}

	if statErr != nil {
		if errors.Is(statErr, fs.ErrNotExist) {
			statErr = fmt.Errorf("%w: %w", ErrNoArtifact, statErr)
		}
		h.err = artifactError(r.canonical, statErr)
		return h
	}
	if err := osfs.CopyFile(r.canonical, r.temp); err != nil {
		h.err = artifactError(r.canonical, err)
		return h
	}
	lib, err := r.opts.Loader.Open(r.temp)
	if err != nil {
		h.err = artifactError(r.temp, err)
		return h
	}
	entry, err := resolve(lib, r.opts.API, r.temp)
	if err != nil {
		_ = lib.Close()
		h.err = err
		return h
	}

	h.lib, h.entry, h.valid = lib, entry, true
	return h
}

func (r *Reloader) release(h *Handle) {
	if err := h.unload(); err != nil {
		r.log.Warn("unload failed", "gen", h.gen, "error", err)
	}
}

// Close unloads the active handle.
func (r *Reloader) Close() error {
	h := r.active
	r.active = nil
	return h.unload()
}
