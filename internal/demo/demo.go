// Package demo is a small reloadable program: a pattern that scrolls with
// the movement keys and counts button presses. It is registered with the
// static loader by the CLI and exercises every entry point.
package demo

import (
	"fmt"
	"log/slog"
	"math/bits"

	"github.com/joshuapare/hotkit/arena"
	"github.com/joshuapare/hotkit/hotload"
	"github.com/joshuapare/hotkit/input"
	"github.com/joshuapare/hotkit/state"
)

// State block layout. The first DataSize bytes hold fixed fields; a
// permanent and a frame arena of equal power-of-two size follow.
const (
	DataSize    = 4096
	MagicOffset = 0
	WorldOffset = 8  // arena.Ref of World in the permanent arena
	LoadsOffset = 16 // number of Load calls since the first
)

// Magic marks a block laid out by this package ("HOTKIT01").
const Magic uint64 = 0x3130_5449_4b54_4f48

const speed = 4

// World is the program state. It lives in the state block and must stay
// pointer-free.
type World struct {
	X, Y    int32
	Frames  uint64
	Presses [input.NumButtons]uint32
}

type game struct {
	perm  *arena.Arena
	frame *arena.Arena
	world *World
}

// Rebuilt on every Load from the state block; nothing here survives a reload.
var (
	svc *hotload.Services
	g   game
)

// ArenaSize returns the size of each arena carved from a block of n bytes:
// the largest power of two not above half of what follows DataSize.
func ArenaSize(n uint64) uint64 {
	if n <= DataSize {
		return 0
	}
	half := (n - DataSize) / 2
	if half < arena.HeaderSize {
		return 0
	}
	return 1 << (bits.Len64(half) - 1)
}

// Load lays out the block on the first call and re-attaches afterwards.
func Load(first bool, mem *state.Block, s *hotload.Services) {
	svc = s
	g = game{}
	var err error
	if first {
		err = initBlock(mem)
	} else {
		err = attach(mem)
	}
	if err != nil {
		logger().Error("demo: load failed", "first", first, "error", err)
		g = game{}
		return
	}

	loads, _ := mem.U64(LoadsOffset)
	loads++
	_ = mem.PutU64(LoadsOffset, loads)
	if s != nil && s.DebugPrint != nil {
		s.DebugPrint(fmt.Sprintf("demo loaded (first=%t, loads=%d)", first, loads))
	}
}

func initBlock(mem *state.Block) error {
	size := ArenaSize(mem.Size())
	if size == 0 {
		return fmt.Errorf("state block of %d bytes is too small", mem.Size())
	}
	perm, err := mem.Carve(DataSize, size)
	if err != nil {
		return err
	}
	frame, err := mem.Carve(DataSize+size, size)
	if err != nil {
		return err
	}
	w, ref, err := arena.Alloc[World](perm)
	if err != nil {
		return err
	}
	if err := mem.PutU64(WorldOffset, uint64(ref)); err != nil {
		return err
	}
	if err := mem.PutU64(LoadsOffset, 0); err != nil {
		return err
	}
	if err := mem.PutU64(MagicOffset, Magic); err != nil {
		return err
	}
	g = game{perm: perm, frame: frame, world: w}
	return nil
}

func attach(mem *state.Block) error {
	size := ArenaSize(mem.Size())
	if m, _ := mem.U64(MagicOffset); m != Magic {
		return fmt.Errorf("state block not initialised (magic %#x)", m)
	}
	perm, err := mem.Attach(DataSize, size)
	if err != nil {
		return err
	}
	frame, err := mem.Attach(DataSize+size, size)
	if err != nil {
		return err
	}
	ref, _ := mem.U64(WorldOffset)
	w, ok := arena.At[World](perm, arena.Ref(ref))
	if !ok {
		return fmt.Errorf("world ref %d outside permanent arena", ref)
	}
	g = game{perm: perm, frame: frame, world: w}
	return nil
}

// WorldOf returns the World stored in a block laid out by Load.
func WorldOf(mem *state.Block) (*World, error) {
	if m, _ := mem.U64(MagicOffset); m != Magic {
		return nil, fmt.Errorf("demo: state block not initialised")
	}
	perm, err := mem.Attach(DataSize, ArenaSize(mem.Size()))
	if err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}
	ref, _ := mem.U64(WorldOffset)
	w, ok := arena.At[World](perm, arena.Ref(ref))
	if !ok {
		return nil, fmt.Errorf("demo: world ref %d outside permanent arena", ref)
	}
	return w, nil
}

// Update moves the pattern and counts presses.
func Update(mem *state.Block, in *input.Snapshot) {
	w := g.world
	if w == nil {
		return
	}
	kb := in.Keyboard()
	w.X += int32(kb.XAxis * speed)
	w.Y += int32(kb.YAxis * speed)
	for b := range kb.Buttons {
		if kb.Buttons[b].Pressed() {
			w.Presses[b]++
		}
	}
	w.Frames++
}

// Render draws into the host framebuffer.
func Render(mem *state.Block, width, height uint32) {
	if svc == nil || svc.Framebuffer == nil {
		return
	}
	draw(svc.Framebuffer, width, height, g.frame)
	if g.frame != nil {
		g.frame.Clear()
	}
}

// Tick is Update and Render in one call.
func Tick(p *hotload.Payload) {
	Update(p.Memory, p.Input)
	if p.Framebuffer != nil {
		draw(p.Framebuffer, p.Framebuffer.Width, p.Framebuffer.Height, p.Scratch)
	}
}

// draw fills fb with an XOR pattern offset by the world position. Each row
// is built in scratch and copied out; the caller clears scratch.
func draw(fb *hotload.Bitmap, width, height uint32, scratch *arena.Arena) {
	w := g.world
	if w == nil || scratch == nil {
		return
	}
	width = min(width, fb.Width)
	height = min(height, fb.Height)
	if width == 0 || height == 0 {
		return
	}

	row, _, err := arena.AllocSlice[uint32](scratch, int(width))
	if err != nil {
		logger().Warn("demo: no scratch for row", "width", width, "error", err)
		return
	}

	tint := w.Presses[input.Primary] * 0x20
	for y := uint32(0); y < height; y++ {
		for x := range row {
			v := uint32(int32(x)+w.X) ^ uint32(int32(y)+w.Y)
			row[x] = 0xff000000 | (tint&0xff)<<16 | (v&0xff)<<8 | (v*3)&0xff
		}
		line := fb.Pixels[int(y*fb.Pitch):]
		for x, px := range row {
			line[4*x] = byte(px)
			line[4*x+1] = byte(px >> 8)
			line[4*x+2] = byte(px >> 16)
			line[4*x+3] = byte(px >> 24)
		}
	}
}

func logger() *slog.Logger {
	if svc != nil && svc.Logger != nil {
		return svc.Logger
	}
	return slog.Default()
}

// Build returns the demo's entry points.
func Build() hotload.EntryPoints {
	return hotload.EntryPoints{Load: Load, Update: Update, Render: Render, Tick: Tick}
}
