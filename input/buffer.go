package input

// Buffer holds the current and previous snapshots and swaps them each frame.
// The zero value is ready to use.
type Buffer struct {
	snaps [2]Snapshot
	cur   int
}

// Current returns the snapshot being filled this frame.
func (b *Buffer) Current() *Snapshot {
	return &b.snaps[b.cur]
}

// Previous returns last frame's snapshot.
func (b *Buffer) Previous() *Snapshot {
	return &b.snaps[1-b.cur]
}

// Swap makes the current snapshot the previous one.
func (b *Buffer) Swap() {
	b.cur = 1 - b.cur
}

// BeginFrame seeds the current snapshot from the previous one so that held
// buttons and axes persist across frames with no events, and clears every
// half-transition count.
func (b *Buffer) BeginFrame() {
	cur := b.Current()
	*cur = *b.Previous()
	for i := range cur.Sources {
		for j := range cur.Sources[i].Buttons {
			cur.Sources[i].Buttons[j].HalfTransitionCount = 0
		}
	}
}

// Apply folds one raw event into the current snapshot. It reports whether
// the event asks the host to terminate. Auto-repeat key events are ignored.
func (b *Buffer) Apply(ev Event) (quit bool) {
	switch ev.Kind {
	case Quit:
		return true
	case KeyDown, KeyUp:
	default:
		return false
	}
	if ev.Repeat || ev.Source < 0 || ev.Source >= NumSources {
		return false
	}

	isDown := ev.Kind == KeyDown
	cur := &b.Current().Sources[ev.Source]
	old := &b.Previous().Sources[ev.Source]

	step := float32(1)
	if !isDown {
		step = -1
	}
	switch ev.Key {
	case KeyW, KeyArrowUp:
		cur.YAxis -= step
	case KeyA, KeyArrowLeft:
		cur.XAxis -= step
	case KeyS, KeyArrowDown:
		cur.YAxis += step
	case KeyD, KeyArrowRight:
		cur.XAxis += step
	default:
		if btn, ok := buttonKeys[ev.Key]; ok {
			ProcessButton(&old.Buttons[btn], &cur.Buttons[btn], isDown)
		}
	}
	return false
}

var buttonKeys = map[Key]Button{
	KeyQ: Primary,
	KeyE: Secondary,
	KeyR: Tertiary,
	KeyT: Quaternary,
}
