// Package arena provides a fixed-capacity bump allocator laid out inside a
// caller-supplied memory block, plus scoped temporary regions over it.
//
// # Overview
//
// An Arena never owns its memory. The caller hands it a block whose length is
// a power of two; the arena writes a 16-byte header (cursor, capacity) at the
// start of that block and hands out the rest with a single cursor:
//
//	+----------+------------------------------+---------------+
//	| header   | allocations (cursor grows →) | free          |
//	| 16 bytes |                              |               |
//	+----------+------------------------------+---------------+
//	0          HeaderSize                     cursor          capacity
//
// Because the header is part of the block, an arena survives anything that
// preserves the block: code that is unloaded and reloaded can call Open on the
// same bytes and continue allocating where the previous code stopped.
//
// # Allocation
//
//	a, err := arena.New(block)
//	if err != nil {
//	    return err
//	}
//
//	ref, buf, err := a.Allocate(256, 8, true)
//	if errors.Is(err, arena.ErrExhausted) {
//	    // out of space: the cursor did not move
//	}
//
// Every allocation is identified by a Ref, the byte offset of the region from
// the start of the block. Refs are stable for the lifetime of the block and
// are the only kind of cross-reference that may be stored inside arena
// memory: the Go collector does not scan these blocks, so values placed in
// them must not contain Go pointers.
//
// # Deallocation
//
// There is no per-object free. Memory is released in bulk:
//
//   - PopTo(pos): discard everything allocated after a saved Position
//   - Pop(n): discard the last n bytes (never below the header)
//   - Clear(): discard everything
//
// Scoped regions wrap the Position/PopTo pair:
//
//	tmp := arena.Begin(a)
//	defer tmp.End()
//
// Scopes must be closed in reverse order of opening. This is not checked;
// closing an outer scope first silently invalidates the inner one.
//
// # Thread Safety
//
// Arenas are not safe for concurrent use. One goroutine owns an arena.
package arena
