package deadline

import "time"

// rollForward advances d forward one calendar day at a time while pred holds,
// returning the first date for which pred is false.  Both adjustment loops
// (weekend, then holiday) are this helper applied with different predicates;
// each loop is bounded: at most six iterations for the weekend check, and by
// the size of the configured holiday set for the holiday check.
func rollForward(d time.Time, pred func(time.Time) bool) time.Time {
	for pred(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// isWeekend reports whether d falls on Saturday or Sunday.
func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// civilDate truncates t to midnight UTC.  All engine arithmetic runs on naive
// civil dates; no timezone is ever attached to a result.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
