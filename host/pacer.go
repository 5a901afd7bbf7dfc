package host

import (
	"log/slog"
	"time"

	"github.com/joshuapare/hotkit/internal/logger"
)

// Clock abstracts time for the pacer.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// spinMargin is how early the pacer wakes from sleep to spin out the rest
// of the interval; OS sleep granularity is coarser than a frame budget needs.
const spinMargin = 2 * time.Millisecond

// TargetInterval returns the iteration period for a display refreshing at
// refreshHz: the loop runs at half the refresh rate. Unknown rates use 60 Hz.
func TargetInterval(refreshHz int) time.Duration {
	if refreshHz <= 0 {
		refreshHz = defaultRefreshHz
	}
	hz := max(refreshHz/2, 1)
	return time.Second / time.Duration(hz)
}

// Pacer holds iterations to a fixed period.
type Pacer struct {
	clock  Clock
	target time.Duration
	start  time.Time
	log    *slog.Logger
	missed uint64
}

// NewPacer returns a pacer for target. Without a Start, the first Wait
// measures its iteration from the moment it is called.
func NewPacer(target time.Duration, clock Clock, log *slog.Logger) *Pacer {
	if clock == nil {
		clock = systemClock{}
	}
	return &Pacer{clock: clock, target: target, log: logger.Or(log)}
}

// Start marks the beginning of an iteration.
func (p *Pacer) Start() {
	p.start = p.clock.Now()
}

// Target returns the iteration period.
func (p *Pacer) Target() time.Duration {
	return p.target
}

// Missed returns the number of overrun iterations.
func (p *Pacer) Missed() uint64 {
	return p.missed
}

// Wait blocks until target has elapsed since the iteration began, then
// starts the next one. It reports whether the iteration overran; overruns
// are logged and never wait.
func (p *Pacer) Wait() bool {
	if p.start.IsZero() {
		p.Start()
	}
	elapsed := p.clock.Now().Sub(p.start)
	overran := elapsed > p.target
	if overran {
		p.missed++
		p.log.Warn("missed frame rate", "elapsed", elapsed, "target", p.target)
	} else {
		if rest := p.target - elapsed; rest > spinMargin {
			p.clock.Sleep(rest - spinMargin)
		}
		for p.clock.Now().Sub(p.start) < p.target {
		}
	}
	p.start = p.clock.Now()
	return overran
}
