package input

import (
	"fmt"
	"strings"
)

// EventKind classifies a raw platform event.
type EventKind uint8

const (
	KeyDown EventKind = iota + 1
	KeyUp
	Quit
)

// Key identifies a physical key.
type Key uint16

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyArrowUp
	KeyArrowLeft
	KeyArrowDown
	KeyArrowRight
	KeyQ
	KeyE
	KeyR
	KeyT
	KeyEscape
)

// Event is a raw key transition or a quit request from the platform.
type Event struct {
	Kind   EventKind
	Key    Key
	Repeat bool // auto-repeat; ignored by Buffer.Apply
	Source int
}

var keyNames = map[string]Key{
	"w":      KeyW,
	"a":      KeyA,
	"s":      KeyS,
	"d":      KeyD,
	"up":     KeyArrowUp,
	"left":   KeyArrowLeft,
	"down":   KeyArrowDown,
	"right":  KeyArrowRight,
	"q":      KeyQ,
	"e":      KeyE,
	"r":      KeyR,
	"t":      KeyT,
	"escape": KeyEscape,
}

// ParseKey maps a case-insensitive key name such as "w" or "left" to a Key.
func ParseKey(name string) (Key, error) {
	k, ok := keyNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return KeyUnknown, fmt.Errorf("input: unknown key %q", name)
	}
	return k, nil
}

// String returns the key's name.
func (k Key) String() string {
	for name, v := range keyNames {
		if v == k {
			return name
		}
	}
	return "unknown"
}
