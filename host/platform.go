package host

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/joshuapare/hotkit/hotload"
	"github.com/joshuapare/hotkit/input"
)

// EventCallback receives raw events during PumpEvents. Platforms call it
// with the handle they were given; the callback finds its loop from that.
type EventCallback func(h Handle, ev input.Event)

// Platform is the window, event source and presentation surface.
type Platform interface {
	// RefreshRate returns the display refresh rate in Hz, or 0 if unknown.
	RefreshRate() int
	Size() (width, height uint32)
	// PumpEvents delivers every pending event to cb before returning.
	PumpEvents(h Handle, cb EventCallback) error
	Present(fb *hotload.Bitmap) error
}

// Script maps iteration numbers (from 0) to the events delivered in them.
type Script map[uint64][]input.Event

// ParseScript reads one event per line:
//
//	<frame> down|up <key> [repeat]
//	<frame> quit
//
// Blank lines and lines starting with '#' are skipped.
func ParseScript(r io.Reader) (Script, error) {
	s := Script{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("script line %d: want <frame> <event>", line)
		}
		frame, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("script line %d: frame: %w", line, err)
		}

		var ev input.Event
		switch fields[1] {
		case "quit":
			ev.Kind = input.Quit
		case "down", "up":
			if len(fields) < 3 {
				return nil, fmt.Errorf("script line %d: %s needs a key", line, fields[1])
			}
			ev.Kind = input.KeyDown
			if fields[1] == "up" {
				ev.Kind = input.KeyUp
			}
			if ev.Key, err = input.ParseKey(fields[2]); err != nil {
				return nil, fmt.Errorf("script line %d: %w", line, err)
			}
			ev.Repeat = len(fields) > 3 && fields[3] == "repeat"
		default:
			return nil, fmt.Errorf("script line %d: unknown event %q", line, fields[1])
		}
		s[frame] = append(s[frame], ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// Headless is a Platform without a window. It replays a Script and counts
// presented frames.
type Headless struct {
	Width   uint32
	Height  uint32
	Refresh int
	Script  Script

	frame     uint64
	presented uint64
	last      []byte
}

// NewHeadless returns a width x height platform reporting refreshHz.
func NewHeadless(width, height uint32, refreshHz int, script Script) *Headless {
	return &Headless{Width: width, Height: height, Refresh: refreshHz, Script: script}
}

func (p *Headless) RefreshRate() int { return p.Refresh }

func (p *Headless) Size() (uint32, uint32) { return p.Width, p.Height }

// PumpEvents delivers the events scripted for the current iteration.
func (p *Headless) PumpEvents(h Handle, cb EventCallback) error {
	for _, ev := range p.Script[p.frame] {
		cb(h, ev)
	}
	p.frame++
	return nil
}

// Present records a copy of the framebuffer.
func (p *Headless) Present(fb *hotload.Bitmap) error {
	p.presented++
	p.last = append(p.last[:0], fb.Pixels...)
	return nil
}

// Presented returns the number of frames presented.
func (p *Headless) Presented() uint64 { return p.presented }

// LastFrame returns the pixels of the most recent Present.
func (p *Headless) LastFrame() []byte { return p.last }
