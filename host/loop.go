package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joshuapare/hotkit/arena"
	"github.com/joshuapare/hotkit/hotload"
	"github.com/joshuapare/hotkit/input"
	"github.com/joshuapare/hotkit/internal/logger"
	"github.com/joshuapare/hotkit/internal/vmem"
	"github.com/joshuapare/hotkit/state"
)

const bytesPerPixel = 4

// Options configures a Loop. Config and Platform are required.
type Options struct {
	Config   Config
	Platform Platform
	Loader   hotload.Loader // Default: by Config.Artifact.Loader
	Clock    Clock          // Default: wall clock
	Logger   *slog.Logger   // Default: logger.L
}

// Stats counts loop activity.
type Stats struct {
	Iterations    uint64 `json:"iterations"`
	Reloads       uint64 `json:"reloads"`
	FailedReloads uint64 `json:"failed_reloads"`
	SkippedTicks  uint64 `json:"skipped_ticks"`
	MissedFrames  uint64 `json:"missed_frames"`
	DroppedEvents uint64 `json:"dropped_events"`
}

// Loop is the host side of live reload. It is driven from one goroutine.
type Loop struct {
	cfg      Config
	platform Platform
	log      *slog.Logger

	mem      *state.Block
	hostMem  *vmem.Region
	perm     *arena.Arena
	frame    *arena.Arena
	reloader *hotload.Reloader
	watcher  *hotload.Watcher
	pacer    *Pacer
	handle   Handle

	input   input.Buffer
	fb      *hotload.Bitmap
	pending []input.Event // frame arena memory, valid during pumpEvents
	quit    bool
	stats   Stats
}

// New allocates the state block and host arenas and registers the loop for
// platform callbacks. Nothing is loaded until the first iteration.
func New(opts Options) (_ *Loop, err error) {
	if opts.Platform == nil {
		return nil, errors.New("host: platform is required")
	}
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.Or(opts.Logger)

	api, _ := hotload.ParseAPI(cfg.Artifact.API)
	policy, _ := hotload.ParsePolicy(cfg.Artifact.Policy)
	loader := opts.Loader
	if loader == nil {
		if cfg.Artifact.Loader == "static" {
			return nil, errors.New("host: static loader selected but none provided")
		}
		loader = &hotload.PluginLoader{}
	}

	l := &Loop{cfg: cfg, platform: opts.Platform, log: log}
	defer func() {
		if err != nil {
			l.Close()
		}
	}()

	if l.mem, err = state.New(cfg.Memory.StateSize); err != nil {
		return nil, err
	}
	if l.hostMem, err = vmem.Alloc(cfg.Memory.HostSize); err != nil {
		return nil, fmt.Errorf("host: allocate host memory: %w", err)
	}
	half := cfg.Memory.HostSize / 2
	hostBytes := l.hostMem.Bytes()
	if l.perm, err = arena.New(hostBytes[:half]); err != nil {
		return nil, fmt.Errorf("host: permanent arena: %w", err)
	}
	if l.frame, err = arena.New(hostBytes[half:]); err != nil {
		return nil, fmt.Errorf("host: frame arena: %w", err)
	}

	w, h := cfg.Display.Width, cfg.Display.Height
	if w == 0 || h == 0 {
		w, h = opts.Platform.Size()
	}
	// The framebuffer lives for the whole run, so it comes from the permanent arena.
	pixels, _, err := arena.AllocSlice[byte](l.perm, int(w)*int(h)*bytesPerPixel)
	if err != nil {
		return nil, fmt.Errorf("host: framebuffer %dx%d: %w", w, h, err)
	}
	l.fb = &hotload.Bitmap{Width: w, Height: h, BytesPerPixel: bytesPerPixel, Pitch: w * bytesPerPixel, Pixels: pixels}
	svc := hotload.NewServices(log)
	svc.Framebuffer = l.fb

	if cfg.Artifact.Watch {
		if l.watcher, err = hotload.NewWatcher(cfg.Artifact.Dir, cfg.Artifact.Name, log); err != nil {
			return nil, err
		}
	}
	l.reloader, err = hotload.NewReloader(hotload.Options{
		Dir:      cfg.Artifact.Dir,
		Name:     cfg.Artifact.Name,
		API:      api,
		Policy:   policy,
		Loader:   loader,
		Services: svc,
		Logger:   log,
		Watcher:  l.watcher,
	}, l.mem)
	if err != nil {
		return nil, err
	}

	refresh := cfg.Display.RefreshHz
	if refresh == 0 {
		refresh = opts.Platform.RefreshRate()
	}
	l.pacer = NewPacer(TargetInterval(refresh), opts.Clock, log)
	l.handle = loops.register(l)

	log.Debug("host ready",
		"state_size", l.mem.Size(),
		"host_arena", l.perm.Capacity(),
		"frame_arena", l.frame.Capacity(),
		"target", l.pacer.Target(),
	)
	return l, nil
}

// Run iterates until a quit event, ctx cancellation, or the frame limit.
// Cancellation returns ctx's error; the other stops return nil.
func (l *Loop) Run(ctx context.Context) error {
	l.pacer.Start()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if l.quit {
			l.log.Info("quit requested", "iterations", l.stats.Iterations)
			return nil
		}
		if limit := l.cfg.Display.MaxFrames; limit > 0 && l.stats.Iterations >= limit {
			return nil
		}
		if err := l.Step(ctx); err != nil {
			return err
		}
	}
}

// Step runs one iteration. Only platform failures are returned; reload
// failures are logged and counted.
func (l *Loop) Step(ctx context.Context) error {
	l.stats.Iterations++

	changed, err := l.reloader.Poll(ctx)
	switch {
	case changed && err != nil:
		l.stats.FailedReloads++
	case changed:
		l.stats.Reloads++
	case err != nil:
		return err
	}

	l.input.BeginFrame()
	if err := l.pumpEvents(); err != nil {
		return fmt.Errorf("host: pump events: %w", err)
	}

	l.invoke()

	if err := l.platform.Present(l.fb); err != nil {
		return fmt.Errorf("host: present: %w", err)
	}
	if l.pacer.Wait() {
		l.stats.MissedFrames++
	}
	l.input.Swap()
	l.frame.Clear()
	return nil
}

func (l *Loop) invoke() {
	h := l.reloader.Active()
	if !h.Valid() {
		l.stats.SkippedTicks++
		return
	}
	e := h.Entry()
	if e.Tick != nil {
		e.Tick(&hotload.Payload{
			Memory:      l.mem,
			Input:       l.input.Current(),
			Framebuffer: l.fb,
			Scratch:     l.frame,
		})
		return
	}
	e.Update(l.mem, l.input.Current())
	e.Render(l.mem, l.fb.Width, l.fb.Height)
}

// pumpEvents buffers platform events in a scope of the frame arena and
// applies them in arrival order. The scope is released before the entry
// points run so Tick sees an empty scratch arena.
func (l *Loop) pumpEvents() error {
	scope := arena.Begin(l.frame)
	defer scope.End()

	buf, _, err := arena.AllocSlice[input.Event](l.frame, l.cfg.Input.MaxEvents)
	if err != nil {
		return fmt.Errorf("event buffer: %w", err)
	}
	l.pending = buf[:0]
	defer func() { l.pending = nil }()

	if err := l.platform.PumpEvents(l.handle, dispatchEvent); err != nil {
		return err
	}
	l.flushEvents()
	return nil
}

// queueEvent buffers ev, flushing first when the buffer is full.
func (l *Loop) queueEvent(ev input.Event) {
	if l.pending == nil {
		// Outside pumpEvents there is nowhere to put it.
		l.stats.DroppedEvents++
		return
	}
	if len(l.pending) == cap(l.pending) {
		l.flushEvents()
	}
	l.pending = append(l.pending, ev)
}

func (l *Loop) flushEvents() {
	for _, ev := range l.pending {
		if l.input.Apply(ev) {
			l.quit = true
		}
	}
	l.pending = l.pending[:0]
}

// Handle returns the key platform callbacks use to find this loop.
func (l *Loop) Handle() Handle { return l.handle }

// Memory returns the persistent state block.
func (l *Loop) Memory() *state.Block { return l.mem }

// Reloader returns the loop's reloader.
func (l *Loop) Reloader() *hotload.Reloader { return l.reloader }

// Input returns the input buffer.
func (l *Loop) Input() *input.Buffer { return &l.input }

// Framebuffer returns the bitmap handed to Render and Tick.
func (l *Loop) Framebuffer() *hotload.Bitmap { return l.fb }

// Stats returns a snapshot of the counters.
func (l *Loop) Stats() Stats { return l.stats }

// Close unregisters the loop and releases everything New acquired. Normal
// runs end with process exit instead.
func (l *Loop) Close() error {
	var errs []error
	if l.handle != 0 {
		loops.remove(l.handle)
		l.handle = 0
	}
	if l.reloader != nil {
		errs = append(errs, l.reloader.Close())
	}
	if l.watcher != nil {
		errs = append(errs, l.watcher.Close())
	}
	if l.hostMem != nil {
		errs = append(errs, l.hostMem.Release())
	}
	if l.mem != nil {
		errs = append(errs, l.mem.Release())
	}
	return errors.Join(errs...)
}
