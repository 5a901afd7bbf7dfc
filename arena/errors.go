package arena

import "errors"

var (
	// ErrExhausted indicates that an allocation does not fit in the remaining capacity.
	// The arena cursor is unchanged when this is returned.
	ErrExhausted = errors.New("arena: capacity exhausted")

	// ErrBadAlign indicates an alignment that is not a power of two.
	ErrBadAlign = errors.New("arena: alignment must be a power of two")

	// ErrNotPow2 indicates a backing block whose length is not a power of two.
	ErrNotPow2 = errors.New("arena: block size must be a power of two")

	// ErrTooSmall indicates a backing block that cannot hold the arena header.
	ErrTooSmall = errors.New("arena: block smaller than header")

	// ErrCorruptHeader indicates that Open found a header inconsistent with its block.
	ErrCorruptHeader = errors.New("arena: corrupt header")
)
