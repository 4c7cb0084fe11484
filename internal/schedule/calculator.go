// Package schedule turns a due date and a days-before offset into a
// concrete send time. All calendar arithmetic happens in UTC so the
// engine's notion of "today" cannot drift from the dates stored on
// receipts.
package schedule

import "time"

// Decision classifies what to do with one (due date, lead time) pair.
type Decision int

const (
	// SendOnDate schedules delivery for the lead-time date, which is
	// today or later.
	SendOnDate Decision = iota
	// SendImmediately means the lead-time window has already elapsed but
	// the due date has not passed, so the reminder is sent right away
	// instead of being dropped.
	SendImmediately
	// Skip means the due date itself has passed. Not an error and not an
	// attempt; expired pairs produce no row anywhere.
	Skip
)

func (d Decision) String() string {
	switch d {
	case SendOnDate:
		return "send_on_date"
	case SendImmediately:
		return "send_immediately"
	case Skip:
		return "skip"
	default:
		return "unknown"
	}
}

// Plan is the outcome of the calculator for one pair. SendAt is zero when
// Decision is Skip.
type Plan struct {
	Decision Decision
	SendAt   time.Time
}

// Compute decides when a reminder for dueDate with the given lead time
// should go out, relative to now. A reminder is never scheduled after the
// end of the due date's day.
func Compute(dueDate time.Time, leadTimeDays int, now time.Time) Plan {
	now = now.UTC()
	today := StartOfDay(now)
	due := StartOfDay(dueDate)
	sendDate := due.AddDate(0, 0, -leadTimeDays)

	switch {
	case !sendDate.Before(today):
		return Plan{Decision: SendOnDate, SendAt: sendDate}
	case now.Before(due.AddDate(0, 0, 1)):
		return Plan{Decision: SendImmediately, SendAt: now}
	default:
		return Plan{Decision: Skip}
	}
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}
