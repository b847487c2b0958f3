package forecast

import "time"

// nextBusinessDays returns the n business days strictly after start,
// skipping Saturdays and Sundays. Exchange holidays are not modeled.
func nextBusinessDays(start time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	d := start
	for len(out) < n {
		d = d.AddDate(0, 0, 1)
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		out = append(out, d)
	}
	return out
}
