package hotload

import (
	"errors"
	"fmt"
)

var (
	// ErrArtifactLoad indicates the artifact could not be stat'ed, copied, or opened.
	ErrArtifactLoad = errors.New("hotload: artifact load failed")

	// ErrSymbolResolution indicates a required entry point is missing or has the wrong signature.
	ErrSymbolResolution = errors.New("hotload: symbol resolution failed")

	// ErrSymbolType indicates an exported symbol exists but its type does not match the entry point.
	ErrSymbolType = errors.New("hotload: symbol has unexpected type")

	// ErrPluginsUnsupported is returned by PluginLoader on targets without Go plugin support.
	ErrPluginsUnsupported = errors.New("hotload: plugins not supported on this platform")

	// ErrNoArtifact indicates the artifact does not exist at its canonical path.
	ErrNoArtifact = errors.New("hotload: artifact not found")
)

// LoadError describes a failed load attempt.
//
// Kind is ErrArtifactLoad or ErrSymbolResolution. Both Kind and the
// underlying cause match with errors.Is.
type LoadError struct {
	Path   string // Artifact path the attempt used
	Symbol string // Entry point name, empty for artifact failures
	Kind   error
	Err    error
}

func (e *LoadError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("%v: %s in %s: %v", e.Kind, e.Symbol, e.Path, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func artifactError(path string, err error) *LoadError {
	return &LoadError{Path: path, Kind: ErrArtifactLoad, Err: err}
}

func symbolError(path, symbol string, err error) *LoadError {
	return &LoadError{Path: path, Symbol: symbol, Kind: ErrSymbolResolution, Err: err}
}
