// Package state provides the persistent state block: the single long-lived
// memory region the host hands, unchanged, to every call into reloadable code.
//
// # Overview
//
// The host allocates one Block at startup and keeps it for the life of the
// process. Its address and size never change, across any number of code
// reloads. Reloadable code must carve all of its mutable state out of the
// block, typically as sub-arenas:
//
//	perm, err := mem.Carve(4096, 1<<20)    // first load: fresh arena
//	perm, err := mem.Attach(4096, 1<<20)   // later loads: re-attach, keep contents
//
// Nothing that must survive a reload may live in the reloadable code's own
// package variables; those are recreated when the code is swapped.
//
// # Pointer Rules
//
// The block is allocated outside the Go heap and is not scanned by the
// garbage collector. Values stored in it must be pointer-free; refer to other
// values in the block by offset (arena.Ref), never by Go pointer.
package state
