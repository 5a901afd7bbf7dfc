package hotload

import "time"

// Handle is one load attempt of the artifact.
//
// A handle whose attempt failed is kept so its timestamp suppresses retries,
// but it holds no library and Valid reports false.
type Handle struct {
	lib     Library
	entry   EntryPoints
	modTime time.Time
	gen     int
	valid   bool
	err     error
}

// Valid reports whether every required entry point resolved. Nil-safe.
func (h *Handle) Valid() bool {
	return h != nil && h.valid
}

// Entry returns the resolved entry points. Zero for invalid handles.
func (h *Handle) Entry() EntryPoints {
	if !h.Valid() {
		return EntryPoints{}
	}
	return h.entry
}

// ModTime is the canonical artifact's last-write time when the attempt began.
func (h *Handle) ModTime() time.Time {
	return h.modTime
}

// Generation counts load attempts, starting at 1.
func (h *Handle) Generation() int {
	return h.gen
}

// Err returns the *LoadError of a failed attempt, or nil.
func (h *Handle) Err() error {
	return h.err
}

// unload closes the library and invalidates the handle.
func (h *Handle) unload() error {
	if h == nil || h.lib == nil {
		return nil
	}
	err := h.lib.Close()
	h.lib = nil
	h.valid = false
	h.entry = EntryPoints{}
	return err
}
