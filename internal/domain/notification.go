package domain

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// NotificationStatus represents the lifecycle state of a scheduled
// notification. Exactly one terminal transition happens per row:
// scheduled -> sent or scheduled -> failed.
type NotificationStatus string

const (
	NotificationStatusScheduled NotificationStatus = "scheduled"
	NotificationStatusSent      NotificationStatus = "sent"
	NotificationStatusFailed    NotificationStatus = "failed"
)

// MessageContent is the structured payload rendered into the outgoing
// message, stored as jsonb alongside the notification row.
type MessageContent struct {
	ReceiptID  string  `json:"receiptId"`
	Vendor     string  `json:"vendor"`
	Amount     float64 `json:"amount"`
	Category   string  `json:"category,omitempty"`
	DueDate    string  `json:"dueDate"`
	DaysBefore int     `json:"daysBefore"`
}

func (m MessageContent) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *MessageContent) Scan(src any) error {
	return scanJSON(src, m, "content")
}

// ScheduledNotification is one planned delivery of a reminder through a
// single channel. Rows are never deleted; together with the history table
// they form the audit trail.
type ScheduledNotification struct {
	ID              string             `json:"id" db:"id"`
	UserID          string             `json:"user_id" db:"user_id"`
	ReceiptID       *string            `json:"receipt_id,omitempty" db:"receipt_id"`
	Channel         Channel            `json:"notification_type" db:"notification_type"`
	Recipient       string             `json:"recipient" db:"recipient"`
	DueDate         time.Time          `json:"due_date" db:"due_date"`
	LeadTimeDays    int                `json:"schedule_days_before" db:"schedule_days_before"`
	ScheduledSendAt time.Time          `json:"scheduled_send_at" db:"scheduled_send_at"`
	Status          NotificationStatus `json:"status" db:"status"`
	Content         MessageContent     `json:"content" db:"content"`
	SentAt          *time.Time         `json:"sent_at,omitempty" db:"sent_at"`
	ErrorMessage    *string            `json:"error_message,omitempty" db:"error_message"`
	CreatedAt       time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" db:"updated_at"`
}

// NotificationRecord is one append-only audit ledger entry. The duplicate
// guard reads this table; SentOn carries the per-day uniqueness constraint.
type NotificationRecord struct {
	ID        string             `json:"id" db:"id"`
	UserID    string             `json:"user_id" db:"user_id"`
	ReceiptID string             `json:"receipt_id" db:"receipt_id"`
	Channel   Channel            `json:"notification_type" db:"notification_type"`
	Status    NotificationStatus `json:"status" db:"status"`
	SentAt    time.Time          `json:"sent_at" db:"sent_at"`
	SentOn    time.Time          `json:"sent_on" db:"sent_on"`
	Content   MessageContent     `json:"content" db:"content"`
}
