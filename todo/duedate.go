package todo

import (
	"fmt"
	"time"
)

// DueLabel describes how far away a due date is from today. It reports false
// for anything more than one day overdue.
//
// Both values are reduced to their calendar date first, so the label does not
// change over the course of a day.
func DueLabel(due, today time.Time) (string, bool) {
	n := DaysUntil(due, today)
	switch {
	case n == 0:
		return "today", true
	case n == 1:
		return "tomorrow", true
	case n == -1:
		return "yesterday", true
	case n < -1:
		return "", false
	default:
		return fmt.Sprintf("%d days remaining", n), true
	}
}

// DaysUntil is the whole number of calendar days from today to due. Due dates
// are calendar dates, so only their year, month and day are read.
func DaysUntil(due, today time.Time) int {
	return int(civil(due).Sub(civil(today)).Hours() / 24)
}

// IsOverdue reports whether the task was due exactly yesterday, the only
// overdue case the list highlights.
func IsOverdue(due, today time.Time) bool {
	return DaysUntil(due, today) == -1
}

// civil maps a time to midnight UTC of its wall-clock date so that
// subtraction is free of DST shifts.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
