// Package host runs the reload loop: it owns the persistent state block,
// polls for new code, feeds input to the loaded entry points, presents
// frames, and paces iterations to the display.
//
// # Iteration
//
// Every iteration of Loop.Run performs, in order:
//
//  1. Reloader.Poll (copy, open and resolve a changed artifact)
//  2. input: carry held state forward, drain platform events
//  3. Update then Render, or Tick, when the active handle is valid
//  4. Platform.Present
//  5. pacing to half the display refresh rate
//  6. swap the current and previous input snapshots
//  7. Clear the frame arena
//
// The loop stops when a quit event arrives, the context is canceled, or the
// configured frame limit is reached. A reload that fails never stops it.
//
// # Memory
//
// Host bookkeeping comes from one OS region split into two arenas: a
// permanent arena for allocations that live as long as the loop, and a
// frame arena cleared at the end of every iteration. Tick receives the frame
// arena as its scratch space.
package host
