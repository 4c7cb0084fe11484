package domain

import "time"

// PaymentStatus represents the payment state of a receipt.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// Receipt is a payment obligation owned by the receipt subsystem. The
// engine reads receipts but never writes them. DueDate carries a calendar
// date (midnight UTC); receipts without one are never matched.
type Receipt struct {
	ID            string        `json:"id" db:"id"`
	UserID        string        `json:"user_id" db:"user_id"`
	Vendor        string        `json:"vendor" db:"vendor"`
	Amount        float64       `json:"amount" db:"amount"`
	Category      string        `json:"category" db:"category"`
	DueDate       *time.Time    `json:"due_date,omitempty" db:"due_date"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}
