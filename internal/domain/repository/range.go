package repository

import "time"

// LookbackRange converts a trailing number of calendar days into a [from, to]
// query window ending at now.
func LookbackRange(now time.Time, days int) (time.Time, time.Time) {
	if days <= 0 {
		days = 1
	}
	return now.AddDate(0, 0, -days), now
}

// ClampLimit bounds a requested row limit to 1..max.
func ClampLimit(n, max int) int {
	if n <= 0 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}
