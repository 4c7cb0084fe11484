package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sumire/receiptly/internal/domain"
)

// ReceiptRepository reads receipts owned by the receipt subsystem. The
// engine never writes this table.
type ReceiptRepository struct {
	db *sqlx.DB
}

// NewReceiptRepository creates a new ReceiptRepository.
func NewReceiptRepository(db *sqlx.DB) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

// FindDueOn returns the user's unpaid receipts whose due date is exactly
// the target calendar date. Exact-day matching is the single matching
// policy used anywhere in the engine.
func (r *ReceiptRepository) FindDueOn(ctx context.Context, userID string, target time.Time) ([]domain.Receipt, error) {
	var receipts []domain.Receipt
	err := r.db.SelectContext(ctx, &receipts,
		`SELECT id, user_id, vendor, amount, category, due_date, payment_status, created_at, updated_at
		 FROM receipts
		 WHERE user_id = $1
		   AND due_date = $2
		   AND payment_status <> 'paid'
		 ORDER BY id`,
		userID, target.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("find receipts due %s for user %s: %w", target.Format("2006-01-02"), userID, err)
	}
	return receipts, nil
}

// NextUpcoming returns the user's earliest unpaid receipt due on or after
// the given date, or domain.ErrNoUpcomingReceipt.
func (r *ReceiptRepository) NextUpcoming(ctx context.Context, userID string, from time.Time) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := r.db.GetContext(ctx, &receipt,
		`SELECT id, user_id, vendor, amount, category, due_date, payment_status, created_at, updated_at
		 FROM receipts
		 WHERE user_id = $1
		   AND due_date IS NOT NULL
		   AND due_date >= $2
		   AND payment_status <> 'paid'
		 ORDER BY due_date ASC
		 LIMIT 1`,
		userID, from.UTC().Format("2006-01-02"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoUpcomingReceipt
		}
		return nil, fmt.Errorf("next upcoming receipt for user %s: %w", userID, err)
	}
	return &receipt, nil
}
