package buf

import "math"

// AddU64 adds a and b, returning ok = false on wrap-around.
func AddU64(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}

// MulU64 multiplies a and b, returning ok = false on wrap-around.
// Used for count * elementSize calculations in typed allocations.
func MulU64(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxUint64/b {
		return 0, false
	}
	return a * b, true
}

// AlignUpPow2 rounds n up to a multiple of align, which must be a power of two.
// ok is false when rounding wraps around.
func AlignUpPow2(n, align uint64) (uint64, bool) {
	mask := align - 1
	sum, ok := AddU64(n, mask)
	if !ok {
		return 0, false
	}
	return sum &^ mask, true
}

// IsPow2 reports whether n is a non-zero power of two.
func IsPow2(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}
