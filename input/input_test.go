package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessButton_HalfTransitions(t *testing.T) {
	tests := []struct {
		name    string
		wasDown bool
		isDown  bool
		want    uint32
	}{
		{"press", false, true, 1},
		{"held", true, true, 0},
		{"release", true, false, 1},
		{"idle", false, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := ButtonState{IsDown: tt.wasDown}
			var cur ButtonState
			ProcessButton(&old, &cur, tt.isDown)
			assert.Equal(t, tt.isDown, cur.IsDown)
			assert.Equal(t, tt.want, cur.HalfTransitionCount)
		})
	}
}

func TestButtonState_PressedReleased(t *testing.T) {
	assert.True(t, ButtonState{IsDown: true, HalfTransitionCount: 1}.Pressed())
	assert.False(t, ButtonState{IsDown: true}.Pressed())
	assert.True(t, ButtonState{HalfTransitionCount: 1}.Released())
	assert.False(t, ButtonState{}.Released())
}

func TestBuffer_SwapAlternates(t *testing.T) {
	var b Buffer
	first := b.Current()
	b.Swap()
	assert.Same(t, first, b.Previous())
	assert.NotSame(t, first, b.Current())
	b.Swap()
	assert.Same(t, first, b.Current())
}

func TestBuffer_PressHoldRelease(t *testing.T) {
	var b Buffer

	// Frame 1: press Q.
	b.BeginFrame()
	b.Apply(Event{Kind: KeyDown, Key: KeyQ})
	assert.True(t, b.Current().Keyboard().Button(Primary).Pressed())
	b.Swap()

	// Frame 2: no events; the button stays down without a new edge.
	b.BeginFrame()
	q := b.Current().Keyboard().Button(Primary)
	assert.True(t, q.IsDown)
	assert.Zero(t, q.HalfTransitionCount)
	b.Swap()

	// Frame 3: release.
	b.BeginFrame()
	b.Apply(Event{Kind: KeyUp, Key: KeyQ})
	assert.True(t, b.Current().Keyboard().Button(Primary).Released())
}

// Press and release inside one poll interval collapse: the final state
// equals the previous sample, so no edge is reported.
func TestBuffer_EdgesWithinOneFrameCollapse(t *testing.T) {
	var b Buffer
	b.BeginFrame()
	b.Apply(Event{Kind: KeyDown, Key: KeyE})
	b.Apply(Event{Kind: KeyUp, Key: KeyE})
	e := b.Current().Keyboard().Button(Secondary)
	assert.False(t, e.IsDown)
	assert.Zero(t, e.HalfTransitionCount)
}

func TestBuffer_Axes(t *testing.T) {
	var b Buffer
	b.BeginFrame()
	b.Apply(Event{Kind: KeyDown, Key: KeyD})
	b.Apply(Event{Kind: KeyDown, Key: KeyArrowUp})
	kb := b.Current().Keyboard()
	assert.Equal(t, float32(1), kb.XAxis)
	assert.Equal(t, float32(-1), kb.YAxis)
	b.Swap()

	b.BeginFrame()
	b.Apply(Event{Kind: KeyUp, Key: KeyD})
	kb = b.Current().Keyboard()
	assert.Equal(t, float32(0), kb.XAxis)
	assert.Equal(t, float32(-1), kb.YAxis, "held axis carries over")
}

func TestBuffer_IgnoresRepeatsAndUnknownSources(t *testing.T) {
	var b Buffer
	b.BeginFrame()
	b.Apply(Event{Kind: KeyDown, Key: KeyR, Repeat: true})
	b.Apply(Event{Kind: KeyDown, Key: KeyR, Source: 3})
	b.Apply(Event{Kind: KeyDown, Key: KeyEscape})
	assert.Equal(t, Snapshot{}, *b.Current())
}

func TestBuffer_QuitEvent(t *testing.T) {
	var b Buffer
	assert.True(t, b.Apply(Event{Kind: Quit}))
	assert.False(t, b.Apply(Event{Kind: KeyDown, Key: KeyW}))
}

func TestParseKey(t *testing.T) {
	k, err := ParseKey(" Left ")
	require.NoError(t, err)
	assert.Equal(t, KeyArrowLeft, k)
	assert.Equal(t, "left", k.String())

	_, err = ParseKey("f13")
	require.Error(t, err)
	assert.Equal(t, "unknown", KeyUnknown.String())
}
