//go:build (linux || darwin || freebsd) && cgo

package hotload

import (
	"fmt"
	"os"
	"plugin"

	"github.com/joshuapare/hotkit/internal/osfs"
)

// PluginsSupported reports whether PluginLoader can open artifacts on this target.
const PluginsSupported = true

// PluginLoader opens artifacts built with -buildmode=plugin.
//
// Each Open maps a fresh, generation-unique file name because the runtime
// returns the cached plugin for a path it has already opened.
type PluginLoader struct {
	seq int
}

// Open links path to a unique name and opens it as a Go plugin.
func (l *PluginLoader) Open(path string) (Library, error) {
	l.seq++
	unique := fmt.Sprintf("%s.%d.%d", path, os.Getpid(), l.seq)
	_ = os.Remove(unique)
	if err := os.Link(path, unique); err != nil {
		// Hard links fail across devices and on some filesystems.
		if err := osfs.CopyFile(path, unique); err != nil {
			return nil, err
		}
	}

	p, err := plugin.Open(unique)
	if err != nil {
		_ = os.Remove(unique)
		return nil, fmt.Errorf("open plugin %s: %w", path, err)
	}
	return &pluginLibrary{p: p, path: unique}, nil
}

type pluginLibrary struct {
	p    *plugin.Plugin
	path string
}

func (l *pluginLibrary) Lookup(name string) (any, error) {
	sym, err := l.p.Lookup(name)
	if err != nil {
		return nil, err
	}
	// Exported funcs arrive as func values, exported vars as pointers.
	return sym, nil
}

// Close removes the generation file. The code stays mapped: Go plugins
// cannot be unloaded.
func (l *pluginLibrary) Close() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
