package host

import (
	"sync"

	"github.com/joshuapare/hotkit/input"
)

// Handle identifies a registered loop to platform callbacks, which cannot
// carry a Go context of their own.
type Handle uint64

type registry struct {
	mu    sync.Mutex
	next  Handle
	loops map[Handle]*Loop
}

var loops = registry{loops: make(map[Handle]*Loop)}

func (r *registry) register(l *Loop) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.loops[r.next] = l
	return r.next
}

func (r *registry) lookup(h Handle) (*Loop, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.loops[h]
	return l, ok
}

func (r *registry) remove(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.loops, h)
}

// dispatchEvent is the EventCallback handed to every platform.
func dispatchEvent(h Handle, ev input.Event) {
	if l, ok := loops.lookup(h); ok {
		l.queueEvent(ev)
	}
}
