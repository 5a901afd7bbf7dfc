//go:build !((linux || darwin || freebsd) && cgo)

package hotload

// PluginsSupported reports whether PluginLoader can open artifacts on this target.
const PluginsSupported = false

// PluginLoader is unavailable on this target; use StaticLoader.
type PluginLoader struct{}

// Open always fails with ErrPluginsUnsupported.
func (l *PluginLoader) Open(path string) (Library, error) {
	return nil, ErrPluginsUnsupported
}
