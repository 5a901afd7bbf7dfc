// Package osfs holds the few filesystem primitives the reload protocol needs
// from the OS: last write time of an artifact and copying it aside.
package osfs

import (
	"fmt"
	"os"
	"time"

	"github.com/cespare/cp"
)

// LastWriteTime returns the modification time of path.
func LastWriteTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// CopyFile copies src to dst, replacing dst if it exists.
func CopyFile(src, dst string) error {
	if err := cp.CopyFile(dst, src); err != nil {
		return fmt.Errorf("copy %s -> %s: %w", src, dst, err)
	}
	return nil
}
