package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sumire/receiptly/internal/domain"
)

// NotificationRepository handles scheduled notification rows. Rows are
// never deleted; after creation the only mutation is the single terminal
// status transition performed by the dispatcher.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Insert stores a draft. A draft for the same (receipt, channel, lead
// time) that has not failed already suppresses the insert; the bool result
// reports whether a row was actually created.
func (r *NotificationRepository) Insert(ctx context.Context, n *domain.ScheduledNotification) (bool, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO scheduled_notifications
		   (id, user_id, receipt_id, notification_type, recipient, due_date,
		    schedule_days_before, scheduled_send_at, status, content)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT DO NOTHING`,
		n.ID, n.UserID, n.ReceiptID, n.Channel, n.Recipient,
		n.DueDate.UTC().Format("2006-01-02"), n.LeadTimeDays,
		n.ScheduledSendAt.UTC(), domain.NotificationStatusScheduled, n.Content)
	if err != nil {
		return false, fmt.Errorf("insert scheduled notification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert scheduled notification: %w", err)
	}
	return affected > 0, nil
}

// FindDue returns scheduled rows whose send time has arrived.
func (r *NotificationRepository) FindDue(ctx context.Context, now time.Time) ([]domain.ScheduledNotification, error) {
	var rows []domain.ScheduledNotification
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, user_id, receipt_id, notification_type, recipient, due_date,
		        schedule_days_before, scheduled_send_at, status, content,
		        sent_at, error_message, created_at, updated_at
		 FROM scheduled_notifications
		 WHERE status = 'scheduled' AND scheduled_send_at <= $1
		 ORDER BY scheduled_send_at ASC`,
		now.UTC())
	if err != nil {
		return nil, fmt.Errorf("find due notifications: %w", err)
	}
	return rows, nil
}

// ListByUser returns a user's notifications, latest send date first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]domain.ScheduledNotification, error) {
	var rows []domain.ScheduledNotification
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, user_id, receipt_id, notification_type, recipient, due_date,
		        schedule_days_before, scheduled_send_at, status, content,
		        sent_at, error_message, created_at, updated_at
		 FROM scheduled_notifications
		 WHERE user_id = $1
		 ORDER BY scheduled_send_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications for user %s: %w", userID, err)
	}
	return rows, nil
}

// MarkSent performs the scheduled -> sent transition.
func (r *NotificationRepository) MarkSent(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE scheduled_notifications
		 SET status = 'sent', sent_at = $2, updated_at = $2
		 WHERE id = $1 AND status = 'scheduled'`,
		id, at.UTC())
	if err != nil {
		return fmt.Errorf("mark notification %s sent: %w", id, err)
	}
	return nil
}

// MarkFailed performs the scheduled -> failed transition, recording the
// provider error. Failed rows are never resubmitted automatically.
func (r *NotificationRepository) MarkFailed(ctx context.Context, id, errMsg string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE scheduled_notifications
		 SET status = 'failed', error_message = $2, updated_at = $3
		 WHERE id = $1 AND status = 'scheduled'`,
		id, errMsg, at.UTC())
	if err != nil {
		return fmt.Errorf("mark notification %s failed: %w", id, err)
	}
	return nil
}
