// Package hotload swaps the code that operates on a persistent state block
// while the process keeps running.
//
// # Overview
//
// Reloadable code is built as a separate artifact (a Go plugin, or a build
// registered with a StaticLoader) that exports a fixed set of entry points
// resolved by exact name:
//
//	Load(first bool, mem *state.Block, svc *hotload.Services)
//	Update(mem *state.Block, in *input.Snapshot)
//	Render(mem *state.Block, width, height uint32)
//
// or, with the combined API shape:
//
//	Load(first bool, mem *state.Block, svc *hotload.Services)
//	Tick(p *hotload.Payload)
//
// The artifact never holds state of its own. Everything it needs across
// reloads lives in the state.Block, which the host allocates once and passes
// to every call.
//
// # Reload Protocol
//
// Reloader.Poll compares the artifact's last-write time against the time
// recorded at the previous attempt. On a change it copies the artifact to
// "<name>_temp", opens the copy, resolves the entry points, and calls Load.
// Loading the copy leaves the canonical path free for the build tool to
// overwrite.
//
// A failed attempt records the timestamp too, so a broken artifact is tried
// once and then ignored until it changes again.
//
// # Failure Policy
//
// KeepLastGood (the default) validates the replacement before unloading the
// old handle and keeps ticking the old code when the replacement fails.
// DropFirst unloads first; a failed reload leaves no valid handle and the
// host skips its entry points until the next change.
//
// # Plugins
//
// The Go runtime caches plugins by path and never unloads them. PluginLoader
// therefore links each temp copy to a generation-unique name before opening
// it, and each build of the artifact must use a distinct -pluginpath:
//
//	go build -buildmode=plugin -ldflags="-pluginpath=game-$(date +%s)" -o game.so ./examples/game
//
// Replaced generations stay mapped until the process exits.
package hotload
