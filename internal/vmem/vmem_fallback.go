//go:build !unix && !windows

package vmem

// Without reservation support the whole region is heap memory from the start.

func reserve(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func commit(b []byte) error { return nil }

func decommit(b []byte) error {
	clear(b)
	return nil
}

func release(b []byte) error { return nil }
