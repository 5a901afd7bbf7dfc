package hotload

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/hotkit/arena"
	"github.com/joshuapare/hotkit/input"
	"github.com/joshuapare/hotkit/state"
)

// Exported symbol names.
const (
	SymLoad   = "Load"
	SymUpdate = "Update"
	SymRender = "Render"
	SymTick   = "Tick"
)

// Entry point signatures.
type (
	LoadFunc   func(first bool, mem *state.Block, svc *Services)
	UpdateFunc func(mem *state.Block, in *input.Snapshot)
	RenderFunc func(mem *state.Block, width, height uint32)
	TickFunc   func(p *Payload)
)

// API selects which entry points an artifact must export.
type API int

const (
	// APISplit requires Load, Update and Render.
	APISplit API = iota
	// APITick requires Load and Tick.
	APITick
)

// Required returns the symbol names the API shape needs, in resolution order.
func (a API) Required() []string {
	if a == APITick {
		return []string{SymLoad, SymTick}
	}
	return []string{SymLoad, SymUpdate, SymRender}
}

func (a API) String() string {
	switch a {
	case APISplit:
		return "split"
	case APITick:
		return "tick"
	default:
		return fmt.Sprintf("API(%d)", int(a))
	}
}

// ParseAPI maps "split" or "tick" to an API shape.
func ParseAPI(s string) (API, error) {
	switch s {
	case "split", "":
		return APISplit, nil
	case "tick":
		return APITick, nil
	default:
		return 0, fmt.Errorf("hotload: unknown api %q (want split or tick)", s)
	}
}

// EntryPoints holds the resolved functions of one loaded artifact.
// Fields the API shape does not require are nil.
type EntryPoints struct {
	Load   LoadFunc
	Update UpdateFunc
	Render RenderFunc
	Tick   TickFunc
}

// Symbols returns the non-nil entry points keyed by symbol name, for
// registration with a StaticLoader.
func (e EntryPoints) Symbols() Symbols {
	s := Symbols{}
	if e.Load != nil {
		s[SymLoad] = e.Load
	}
	if e.Update != nil {
		s[SymUpdate] = e.Update
	}
	if e.Render != nil {
		s[SymRender] = e.Render
	}
	if e.Tick != nil {
		s[SymTick] = e.Tick
	}
	return s
}

// bind stores sym under name. Plugin symbols carry the unnamed func type,
// registered ones may carry either form.
func (e *EntryPoints) bind(name string, sym any) error {
	ok := false
	switch name {
	case SymLoad:
		switch f := sym.(type) {
		case func(bool, *state.Block, *Services):
			e.Load, ok = f, f != nil
		case LoadFunc:
			e.Load, ok = f, f != nil
		}
	case SymUpdate:
		switch f := sym.(type) {
		case func(*state.Block, *input.Snapshot):
			e.Update, ok = f, f != nil
		case UpdateFunc:
			e.Update, ok = f, f != nil
		}
	case SymRender:
		switch f := sym.(type) {
		case func(*state.Block, uint32, uint32):
			e.Render, ok = f, f != nil
		case RenderFunc:
			e.Render, ok = f, f != nil
		}
	case SymTick:
		switch f := sym.(type) {
		case func(*Payload):
			e.Tick, ok = f, f != nil
		case TickFunc:
			e.Tick, ok = f, f != nil
		}
	}
	if !ok {
		return fmt.Errorf("%w: %T", ErrSymbolType, sym)
	}
	return nil
}

// resolve looks up every entry point api requires. The first missing or
// mistyped symbol fails the whole set.
func resolve(lib Library, api API, path string) (EntryPoints, error) {
	var e EntryPoints
	for _, name := range api.Required() {
		sym, err := lib.Lookup(name)
		if err != nil {
			return EntryPoints{}, symbolError(path, name, err)
		}
		if err := e.bind(name, sym); err != nil {
			return EntryPoints{}, symbolError(path, name, err)
		}
	}
	return e, nil
}

// Services are host facilities handed to Load. Loaded code may keep the
// pointer until its next Load.
type Services struct {
	DebugPrint func(text string)
	Logger     *slog.Logger
	// Framebuffer is the surface the host presents. Split-API code draws
	// into it from Render.
	Framebuffer *Bitmap
}

// NewServices returns services that print through logger.
func NewServices(logger *slog.Logger) *Services {
	return &Services{
		DebugPrint: func(text string) { logger.Info(text, "source", "module") },
		Logger:     logger,
	}
}

// Bitmap is a framebuffer in 4-byte pixels, rows Pitch bytes apart.
type Bitmap struct {
	Width         uint32
	Height        uint32
	BytesPerPixel uint32
	Pitch         uint32
	Pixels        []byte
}

// NewBitmap allocates a width x height framebuffer.
func NewBitmap(width, height uint32) *Bitmap {
	const bpp = 4
	return &Bitmap{
		Width:         width,
		Height:        height,
		BytesPerPixel: bpp,
		Pitch:         width * bpp,
		Pixels:        make([]byte, int(width)*int(height)*bpp),
	}
}

// Payload is everything Tick receives for one iteration.
type Payload struct {
	Memory      *state.Block
	Input       *input.Snapshot
	Framebuffer *Bitmap
	// Scratch is cleared by the host after every iteration.
	Scratch *arena.Arena
}
