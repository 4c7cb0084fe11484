package schedule

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCompute(t *testing.T) {
	now := time.Date(2024, 6, 3, 10, 30, 0, 0, time.UTC)
	today := date(2024, 6, 3)

	tests := []struct {
		name     string
		dueDate  time.Time
		leadDays int
		want     Decision
		wantAt   time.Time
	}{
		{
			name:     "future lead date",
			dueDate:  today.AddDate(0, 0, 10),
			leadDays: 3,
			want:     SendOnDate,
			wantAt:   today.AddDate(0, 0, 7),
		},
		{
			name:     "lead date lands on today",
			dueDate:  today.AddDate(0, 0, 7),
			leadDays: 7,
			want:     SendOnDate,
			wantAt:   today,
		},
		{
			name:     "window elapsed, due today",
			dueDate:  today,
			leadDays: 7,
			want:     SendImmediately,
			wantAt:   now,
		},
		{
			name:     "window elapsed, due tomorrow",
			dueDate:  today.AddDate(0, 0, 1),
			leadDays: 5,
			want:     SendImmediately,
			wantAt:   now,
		},
		{
			name:     "due date passed yesterday",
			dueDate:  today.AddDate(0, 0, -1),
			leadDays: 0,
			want:     Skip,
		},
		{
			name:     "due date long past",
			dueDate:  today.AddDate(0, 0, -30),
			leadDays: 7,
			want:     Skip,
		},
		{
			name:     "zero lead time due today",
			dueDate:  today,
			leadDays: 0,
			want:     SendOnDate,
			wantAt:   today,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.dueDate, tt.leadDays, now)
			if got.Decision != tt.want {
				t.Fatalf("decision = %s, want %s", got.Decision, tt.want)
			}
			if tt.want != Skip && !got.SendAt.Equal(tt.wantAt) {
				t.Errorf("sendAt = %s, want %s", got.SendAt, tt.wantAt)
			}
			if tt.want == Skip && !got.SendAt.IsZero() {
				t.Errorf("sendAt = %s, want zero for skip", got.SendAt)
			}
		})
	}
}

// A reminder must never be silently dropped while its due date has not
// passed, and must never be scheduled after the due date's day ends.
func TestComputeBounds(t *testing.T) {
	now := time.Date(2024, 6, 3, 23, 15, 0, 0, time.UTC)

	for dueOffset := -5; dueOffset <= 30; dueOffset++ {
		due := date(2024, 6, 3).AddDate(0, 0, dueOffset)
		endOfDueDay := due.AddDate(0, 0, 1)

		for lead := 0; lead <= 14; lead++ {
			plan := Compute(due, lead, now)

			if dueOffset >= 0 && plan.Decision == Skip {
				t.Fatalf("due %s lead %d: skipped although due date has not passed", due.Format("2006-01-02"), lead)
			}
			if dueOffset < 0 && plan.Decision != Skip {
				t.Fatalf("due %s lead %d: got %s for a past due date", due.Format("2006-01-02"), lead, plan.Decision)
			}
			if plan.Decision != Skip && !plan.SendAt.Before(endOfDueDay) {
				t.Fatalf("due %s lead %d: sendAt %s is after the due date", due.Format("2006-01-02"), lead, plan.SendAt)
			}
		}
	}
}

func TestStartOfDayNormalizesZone(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	in := time.Date(2024, 6, 4, 3, 0, 0, 0, loc) // 2024-06-03 18:00 UTC

	got := StartOfDay(in)
	if !got.Equal(date(2024, 6, 3)) {
		t.Errorf("StartOfDay = %s, want 2024-06-03T00:00:00Z", got)
	}
	if !SameDay(in, date(2024, 6, 3)) {
		t.Error("SameDay should compare in UTC")
	}
}
