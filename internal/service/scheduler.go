package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sumire/receiptly/internal/domain"
	"github.com/sumire/receiptly/internal/schedule"
)

// Scheduler creates scheduled notification drafts ahead of time for a
// user's next upcoming receipt.
type Scheduler struct {
	receipts      ReceiptStore
	notifications NotificationStore
	now           func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(receipts ReceiptStore, notifications NotificationStore) *Scheduler {
	return &Scheduler{
		receipts:      receipts,
		notifications: notifications,
		now:           time.Now,
	}
}

// ScheduleRequest is the user's ad-hoc scheduling request. At least one
// contact address must be present; drafts are created only for channels
// with an address.
type ScheduleRequest struct {
	Email        string `json:"email" validate:"omitempty,email"`
	MobileNumber string `json:"mobileNumber" validate:"omitempty,e164"`
	ScheduleDays []int  `json:"scheduleDays" validate:"required,min=1,dive,gte=0"`
}

// ReceiptDetails identifies the receipt the drafts were created for.
type ReceiptDetails struct {
	ID      string  `json:"id"`
	Vendor  string  `json:"vendor"`
	Amount  float64 `json:"amount"`
	DueDate string  `json:"dueDate"`
}

// ScheduleResult reports how many drafts were created.
type ScheduleResult struct {
	ScheduledCount int            `json:"scheduledCount"`
	Receipt        ReceiptDetails `json:"receiptDetails"`
}

// ScheduleUpcoming finds the user's next unpaid receipt with a due date
// and creates one draft per requested lead time and channel. Lead times
// whose window has elapsed are scheduled for immediate sending as long as
// the due date has not passed; expired ones are skipped without a trace.
func (s *Scheduler) ScheduleUpcoming(ctx context.Context, userID string, req ScheduleRequest) (*ScheduleResult, error) {
	if req.Email == "" && req.MobileNumber == "" {
		return nil, fmt.Errorf("%w: at least one contact address is required", domain.ErrInvalidInput)
	}

	now := s.now().UTC()
	today := schedule.StartOfDay(now)

	receipt, err := s.receipts.NextUpcoming(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	due := schedule.StartOfDay(*receipt.DueDate)

	recipients := map[domain.Channel]string{}
	if req.Email != "" {
		recipients[domain.ChannelEmail] = req.Email
	}
	if req.MobileNumber != "" {
		recipients[domain.ChannelSMS] = req.MobileNumber
	}

	result := &ScheduleResult{
		Receipt: ReceiptDetails{
			ID:      receipt.ID,
			Vendor:  receipt.Vendor,
			Amount:  receipt.Amount,
			DueDate: due.Format("2006-01-02"),
		},
	}

	for _, days := range req.ScheduleDays {
		plan := schedule.Compute(due, days, now)
		if plan.Decision == schedule.Skip {
			slog.Debug("lead time expired, skipping",
				"receipt_id", receipt.ID, "days_before", days)
			continue
		}

		content := domain.MessageContent{
			ReceiptID:  receipt.ID,
			Vendor:     receipt.Vendor,
			Amount:     receipt.Amount,
			Category:   receipt.Category,
			DueDate:    due.Format("2006-01-02"),
			DaysBefore: days,
		}

		for ch, recipient := range recipients {
			receiptID := receipt.ID
			draft := &domain.ScheduledNotification{
				UserID:          userID,
				ReceiptID:       &receiptID,
				Channel:         ch,
				Recipient:       recipient,
				DueDate:         due,
				LeadTimeDays:    days,
				ScheduledSendAt: plan.SendAt,
				Status:          domain.NotificationStatusScheduled,
				Content:         content,
			}
			created, err := s.notifications.Insert(ctx, draft)
			if err != nil {
				return nil, fmt.Errorf("schedule %s notification %d days before: %w", ch, days, err)
			}
			if created {
				result.ScheduledCount++
				slog.Info("notification scheduled",
					"receipt_id", receipt.ID, "channel", ch,
					"days_before", days, "send_at", plan.SendAt,
					"immediate", plan.Decision == schedule.SendImmediately)
			}
		}
	}

	return result, nil
}
