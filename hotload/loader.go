package hotload

// Loader opens artifacts.
type Loader interface {
	Open(path string) (Library, error)
}

// Library is an opened artifact.
type Library interface {
	// Lookup returns the exported symbol with the exact name.
	Lookup(name string) (any, error)
	// Close releases the library. The loader may keep its code mapped.
	Close() error
}
