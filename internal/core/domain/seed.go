package domain

// SeedForDate derives the deterministic generation seed for a calendar date
// string (YYYY-MM-DD). The fold is a multiplier-31 polynomial rolling hash
// with 32-bit wraparound at every step; int32 arithmetic reproduces the
// overflow semantics exactly, so the same date yields the same seed across
// runs and implementations.
func SeedForDate(date string) int {
	var h int32
	for i := 0; i < len(date); i++ {
		h = (h << 5) - h + int32(date[i])
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return int(v)
}
