package hotload

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Symbols maps exported names to entry point funcs.
type Symbols map[string]any

// StaticLoader resolves artifacts against builds linked into the host.
//
// The artifact file contains a build tag; Open looks the tag up in the
// registry. Rewriting the artifact with another tag swaps the code exactly
// as a rebuilt plugin would, on any target.
type StaticLoader struct {
	mu     sync.RWMutex
	builds map[string]Symbols
}

// NewStaticLoader returns an empty registry.
func NewStaticLoader() *StaticLoader {
	return &StaticLoader{builds: make(map[string]Symbols)}
}

// Register makes syms available under tag, replacing any earlier build.
func (l *StaticLoader) Register(tag string, syms Symbols) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.builds[tag] = syms
}

// Len returns the number of registered builds.
func (l *StaticLoader) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.builds)
}

// Open reads the build tag from path.
func (l *StaticLoader) Open(path string) (Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tag := strings.TrimSpace(string(data))

	l.mu.RLock()
	syms, ok := l.builds[tag]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no registered build %q", tag)
	}
	return &staticLibrary{tag: tag, syms: syms}, nil
}

type staticLibrary struct {
	tag  string
	syms Symbols
}

func (l *staticLibrary) Lookup(name string) (any, error) {
	sym, ok := l.syms[name]
	if !ok {
		return nil, fmt.Errorf("symbol %s not found in build %q", name, l.tag)
	}
	return sym, nil
}

func (l *staticLibrary) Close() error { return nil }
