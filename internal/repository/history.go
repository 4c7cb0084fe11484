package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sumire/receiptly/internal/domain"
)

// HistoryRepository is the append-only audit ledger. The duplicate guard
// reads it; a partial unique index on (receipt_id, notification_type,
// sent_on) for sent rows makes the per-day guarantee authoritative even
// when two runs overlap.
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Append writes one audit entry. A sent entry that loses the per-day
// uniqueness race is dropped silently; the notification went out either
// way.
func (r *HistoryRepository) Append(ctx context.Context, rec domain.NotificationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notification_history
		   (id, user_id, receipt_id, notification_type, status, sent_at, sent_on, content)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT DO NOTHING`,
		rec.ID, rec.UserID, rec.ReceiptID, rec.Channel, rec.Status,
		rec.SentAt.UTC(), rec.SentAt.UTC().Format("2006-01-02"), rec.Content)
	if err != nil {
		return fmt.Errorf("append notification history: %w", err)
	}
	return nil
}

// HasEntry reports whether a successful notification for the receipt and
// channel was already recorded inside [windowStart, windowEnd).
func (r *HistoryRepository) HasEntry(ctx context.Context, receiptID string, ch domain.Channel, windowStart, windowEnd time.Time) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (
		   SELECT 1 FROM notification_history
		   WHERE receipt_id = $1
		     AND notification_type = $2
		     AND status = 'sent'
		     AND sent_at >= $3 AND sent_at < $4
		 )`,
		receiptID, ch, windowStart.UTC(), windowEnd.UTC())
	if err != nil {
		return false, fmt.Errorf("check notification history for receipt %s: %w", receiptID, err)
	}
	return exists, nil
}
