package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sumire/receiptly/internal/domain"
	"github.com/sumire/receiptly/internal/notify"
	"github.com/sumire/receiptly/internal/schedule"
)

type fakePrefs struct {
	prefs []domain.ReminderPreference
	err   error
}

func (f *fakePrefs) ListActive(context.Context) ([]domain.ReminderPreference, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.prefs, nil
}

func (f *fakePrefs) FindByUserID(_ context.Context, userID string) (*domain.ReminderPreference, error) {
	for i := range f.prefs {
		if f.prefs[i].UserID == userID {
			return &f.prefs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakePrefs) Upsert(_ context.Context, pref domain.ReminderPreference) (*domain.ReminderPreference, error) {
	for i := range f.prefs {
		if f.prefs[i].UserID == pref.UserID {
			f.prefs[i] = pref
			return &pref, nil
		}
	}
	f.prefs = append(f.prefs, pref)
	return &pref, nil
}

type fakeReceipts struct {
	receipts []domain.Receipt
	errFor   map[string]error // per-user fetch error
}

func (f *fakeReceipts) FindDueOn(_ context.Context, userID string, target time.Time) ([]domain.Receipt, error) {
	if err := f.errFor[userID]; err != nil {
		return nil, err
	}
	var out []domain.Receipt
	for _, r := range f.receipts {
		if r.UserID != userID || r.DueDate == nil || r.PaymentStatus == domain.PaymentStatusPaid {
			continue
		}
		if schedule.SameDay(*r.DueDate, target) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReceipts) NextUpcoming(_ context.Context, userID string, from time.Time) (*domain.Receipt, error) {
	var best *domain.Receipt
	for i := range f.receipts {
		r := &f.receipts[i]
		if r.UserID != userID || r.DueDate == nil || r.PaymentStatus == domain.PaymentStatusPaid {
			continue
		}
		if r.DueDate.Before(schedule.StartOfDay(from)) {
			continue
		}
		if best == nil || r.DueDate.Before(*best.DueDate) {
			best = r
		}
	}
	if best == nil {
		return nil, domain.ErrNoUpcomingReceipt
	}
	return best, nil
}

type fakeNotifications struct {
	rows []*domain.ScheduledNotification
}

func (f *fakeNotifications) Insert(_ context.Context, n *domain.ScheduledNotification) (bool, error) {
	for _, row := range f.rows {
		if row.Status == domain.NotificationStatusFailed {
			continue
		}
		if sameReceipt(row.ReceiptID, n.ReceiptID) &&
			row.Channel == n.Channel &&
			row.LeadTimeDays == n.LeadTimeDays {
			return false, nil
		}
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	clone := *n
	f.rows = append(f.rows, &clone)
	return true, nil
}

func (f *fakeNotifications) FindDue(_ context.Context, now time.Time) ([]domain.ScheduledNotification, error) {
	var out []domain.ScheduledNotification
	for _, row := range f.rows {
		if row.Status == domain.NotificationStatusScheduled && !row.ScheduledSendAt.After(now) {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeNotifications) ListByUser(_ context.Context, userID string) ([]domain.ScheduledNotification, error) {
	var out []domain.ScheduledNotification
	for _, row := range f.rows {
		if row.UserID == userID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeNotifications) MarkSent(_ context.Context, id string, at time.Time) error {
	for _, row := range f.rows {
		if row.ID == id && row.Status == domain.NotificationStatusScheduled {
			row.Status = domain.NotificationStatusSent
			row.SentAt = &at
		}
	}
	return nil
}

func (f *fakeNotifications) MarkFailed(_ context.Context, id, errMsg string, at time.Time) error {
	for _, row := range f.rows {
		if row.ID == id && row.Status == domain.NotificationStatusScheduled {
			row.Status = domain.NotificationStatusFailed
			row.ErrorMessage = &errMsg
		}
	}
	return nil
}

func (f *fakeNotifications) byStatus(status domain.NotificationStatus) []*domain.ScheduledNotification {
	var out []*domain.ScheduledNotification
	for _, row := range f.rows {
		if row.Status == status {
			out = append(out, row)
		}
	}
	return out
}

func sameReceipt(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type fakeHistory struct {
	records []domain.NotificationRecord
}

func (f *fakeHistory) Append(_ context.Context, rec domain.NotificationRecord) error {
	if rec.Status == domain.NotificationStatusSent {
		// Mirrors the partial unique index on (receipt, channel, day).
		for _, r := range f.records {
			if r.Status == domain.NotificationStatusSent &&
				r.ReceiptID == rec.ReceiptID && r.Channel == rec.Channel &&
				schedule.SameDay(r.SentAt, rec.SentAt) {
				return nil
			}
		}
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.SentOn = schedule.StartOfDay(rec.SentAt)
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeHistory) HasEntry(_ context.Context, receiptID string, ch domain.Channel, windowStart, windowEnd time.Time) (bool, error) {
	for _, r := range f.records {
		if r.ReceiptID == receiptID && r.Channel == ch &&
			r.Status == domain.NotificationStatusSent &&
			!r.SentAt.Before(windowStart) && r.SentAt.Before(windowEnd) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeHistory) byStatus(status domain.NotificationStatus) []domain.NotificationRecord {
	var out []domain.NotificationRecord
	for _, r := range f.records {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

type fakeChannel struct {
	kind domain.Channel
	err  error
	sent []notify.Message
}

func (f *fakeChannel) Kind() domain.Channel { return f.kind }

func (f *fakeChannel) Send(_ context.Context, msg notify.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return fmt.Sprintf("msg-%d", len(f.sent)), nil
}

func strPtr(s string) *string { return &s }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
