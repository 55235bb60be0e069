package schedule

import "time"

// Window computes a phase window relative to an anchor date: the start is
// offsetDays from the anchor (negative offsets precede it) and the end is
// durationDays after the start. Calendar arithmetic handles month and year
// rollover; a zero duration yields start == end.
func Window(anchor time.Time, offsetDays, durationDays int) (start, end time.Time) {
	start = anchor.UTC().AddDate(0, 0, offsetDays)
	end = start.AddDate(0, 0, durationDays)
	return start, end
}

// DueDate computes a task due date offsetDays after a phase start.
func DueDate(phaseStart time.Time, offsetDays int) time.Time {
	return phaseStart.UTC().AddDate(0, 0, offsetDays)
}
