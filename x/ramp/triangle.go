package ramp

// Step receives the next level and reports whether to continue.
type Step func(level int) bool

// Triangle walks lo..hi-1 upwards and then hi..lo+1 downwards, calling step
// for each level. The peak is visited once, on the way down; lo only on the
// way up. It returns false if step stopped the walk early.
func Triangle(lo, hi int, step Step) bool {
	for l := lo; l < hi; l++ {
		if !step(l) {
			return false
		}
	}
	for l := hi; l > lo; l-- {
		if !step(l) {
			return false
		}
	}
	return true
}

// TriangleLen is the number of levels Triangle visits.
func TriangleLen(lo, hi int) int {
	if hi <= lo {
		return 0
	}
	return 2 * (hi - lo)
}
