package logic

// Elapsed returns the milliseconds between two clock readings.
// The subtraction is unsigned modulo 2^32, so a counter that wrapped
// between the two readings still yields a small non-negative delta.
func Elapsed(now, last uint32) uint32 {
	return now - last
}

// Countdown returns remaining reduced by elapsed, saturating at zero.
// Safe against elapsed exceeding remaining.
func Countdown(remaining, elapsed uint32) uint32 {
	if elapsed < remaining {
		return remaining - elapsed
	}
	return 0
}
