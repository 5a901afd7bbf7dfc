// Package input holds the double-buffered input snapshots passed to
// reloadable code and the translation of raw key transitions into them.
package input

// NumButtons is the number of named buttons on every source.
const NumButtons = 4

// NumSources is the number of input sources. Source 0 is the keyboard.
const NumSources = 1

// Button names one of the NumButtons buttons of a source.
type Button int

const (
	Primary Button = iota
	Secondary
	Tertiary
	Quaternary
)

// ButtonState is the sampled state of one button.
type ButtonState struct {
	IsDown bool
	// HalfTransitionCount is 1 when IsDown differs from the previous frame's
	// sample, else 0. Several edges inside one poll interval collapse into one.
	HalfTransitionCount uint32
}

// Pressed reports whether the button went down this frame.
func (s ButtonState) Pressed() bool {
	return s.IsDown && s.HalfTransitionCount > 0
}

// Released reports whether the button went up this frame.
func (s ButtonState) Released() bool {
	return !s.IsDown && s.HalfTransitionCount > 0
}

// Source is one input device: two continuous axes and the named buttons.
type Source struct {
	XAxis, YAxis float32
	Buttons      [NumButtons]ButtonState
}

// Button returns the state of b.
func (s *Source) Button(b Button) *ButtonState {
	return &s.Buttons[b]
}

// Snapshot is the input state for one frame. It is pointer-free so it can be
// copied into a state block.
type Snapshot struct {
	Sources [NumSources]Source
}

// Keyboard returns source 0.
func (s *Snapshot) Keyboard() *Source {
	return &s.Sources[0]
}

// ProcessButton records a raw transition: cur takes isDown, and counts one
// half transition when that differs from old.
func ProcessButton(old, cur *ButtonState, isDown bool) {
	cur.IsDown = isDown
	if old.IsDown != isDown {
		cur.HalfTransitionCount = 1
	} else {
		cur.HalfTransitionCount = 0
	}
}
