package arena

import (
	"unsafe"

	"github.com/joshuapare/hotkit/internal/buf"
)

// Alloc returns a zeroed *T placed inside the arena along with its Ref.
// T must not contain Go pointers (strings, slices, maps, interfaces, pointers):
// arena memory is invisible to the garbage collector.
func Alloc[T any](a *Arena) (*T, Ref, error) {
	var zero T
	size := max(uint64(unsafe.Sizeof(zero)), 1)
	ref, b, err := a.Push(size, uint64(unsafe.Alignof(zero)))
	if err != nil {
		return nil, 0, err
	}
	return (*T)(unsafe.Pointer(&b[0])), ref, nil
}

// AllocSlice returns a zeroed []T of length n placed inside the arena.
// Returns nil and a zero Ref when n <= 0. The same pointer restriction as Alloc applies.
func AllocSlice[T any](a *Arena, n int) ([]T, Ref, error) {
	if n <= 0 {
		return nil, 0, nil
	}
	var zero T
	elem := uint64(unsafe.Sizeof(zero))
	total, ok := buf.MulU64(elem, uint64(n))
	if !ok {
		return nil, 0, ErrExhausted
	}
	ref, b, err := a.Push(max(total, 1), uint64(unsafe.Alignof(zero)))
	if err != nil {
		return nil, 0, err
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n), ref, nil
}

// At reinterprets the allocated bytes at ref as a *T. It reports false when
// the range is not allocated or the address is misaligned for T.
func At[T any](a *Arena, ref Ref) (*T, bool) {
	var zero T
	b, ok := a.Bytes(ref, max(uint64(unsafe.Sizeof(zero)), 1))
	if !ok || uintptr(unsafe.Pointer(&b[0]))%unsafe.Alignof(zero) != 0 {
		return nil, false
	}
	return (*T)(unsafe.Pointer(&b[0])), true
}

// SliceAt reinterprets n elements of T stored at ref.
func SliceAt[T any](a *Arena, ref Ref, n int) ([]T, bool) {
	if n <= 0 {
		return nil, false
	}
	var zero T
	total, ok := buf.MulU64(uint64(unsafe.Sizeof(zero)), uint64(n))
	if !ok {
		return nil, false
	}
	b, ok := a.Bytes(ref, max(total, 1))
	if !ok || uintptr(unsafe.Pointer(&b[0]))%unsafe.Alignof(zero) != 0 {
		return nil, false
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n), true
}
