package service

import (
	"context"
	"time"

	"github.com/sumire/receiptly/internal/domain"
)

// PreferenceStore defines the preference data access consumed by the engine.
type PreferenceStore interface {
	ListActive(ctx context.Context) ([]domain.ReminderPreference, error)
	FindByUserID(ctx context.Context, userID string) (*domain.ReminderPreference, error)
	Upsert(ctx context.Context, pref domain.ReminderPreference) (*domain.ReminderPreference, error)
}

// ReceiptStore defines read access to the receipt subsystem's data.
type ReceiptStore interface {
	FindDueOn(ctx context.Context, userID string, target time.Time) ([]domain.Receipt, error)
	NextUpcoming(ctx context.Context, userID string, from time.Time) (*domain.Receipt, error)
}

// NotificationStore defines scheduled notification persistence.
type NotificationStore interface {
	Insert(ctx context.Context, n *domain.ScheduledNotification) (bool, error)
	FindDue(ctx context.Context, now time.Time) ([]domain.ScheduledNotification, error)
	ListByUser(ctx context.Context, userID string) ([]domain.ScheduledNotification, error)
	MarkSent(ctx context.Context, id string, at time.Time) error
	MarkFailed(ctx context.Context, id, errMsg string, at time.Time) error
}

// HistoryStore defines the append-only audit ledger.
type HistoryStore interface {
	Append(ctx context.Context, rec domain.NotificationRecord) error
	HasEntry(ctx context.Context, receiptID string, ch domain.Channel, windowStart, windowEnd time.Time) (bool, error)
}
