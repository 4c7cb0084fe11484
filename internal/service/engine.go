package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sumire/receiptly/internal/domain"
	"github.com/sumire/receiptly/internal/notify"
	"github.com/sumire/receiptly/internal/schedule"
)

// Engine is the due-date notification engine. One Run is a single logical
// pass over every user: load preferences, match receipts due at each lead
// time, filter out pairs already notified today, dispatch the rest, and
// record every attempt in the audit ledger.
type Engine struct {
	prefs    PreferenceStore
	receipts ReceiptStore
	history  HistoryStore
	channels notify.Channels
	now      func() time.Time
}

// NewEngine creates a new Engine.
func NewEngine(prefs PreferenceStore, receipts ReceiptStore, history HistoryStore, channels notify.Channels) *Engine {
	return &Engine{
		prefs:    prefs,
		receipts: receipts,
		history:  history,
		channels: channels,
		now:      time.Now,
	}
}

// RunSummary is the operator-facing result of one engine run.
type RunSummary struct {
	Success                bool      `json:"success"`
	Message                string    `json:"message"`
	TotalNotificationsSent int       `json:"totalNotificationsSent"`
	TotalUsers             int       `json:"totalUsers"`
	Errors                 []string  `json:"errors,omitempty"`
	Timestamp              time.Time `json:"timestamp"`
}

// Run executes one pass. A preference read failure aborts the whole run;
// every error past that point is isolated to a single user or a single
// notification and collected into the summary.
func (e *Engine) Run(ctx context.Context, manual bool) (*RunSummary, error) {
	now := e.now().UTC()
	today := schedule.StartOfDay(now)

	slog.Info("notification run started", "manual", manual, "today", today.Format("2006-01-02"))

	prefs, err := e.prefs.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}

	summary := &RunSummary{
		Success:    true,
		Message:    "scheduled notification check completed",
		TotalUsers: len(prefs),
		Timestamp:  now,
	}

	for _, pref := range prefs {
		sent, errs := e.processUser(ctx, pref, today, now)
		summary.TotalNotificationsSent += sent
		summary.Errors = append(summary.Errors, errs...)
	}

	slog.Info("notification run completed",
		"users", summary.TotalUsers,
		"sent", summary.TotalNotificationsSent,
		"errors", len(summary.Errors))

	return summary, nil
}

func (e *Engine) processUser(ctx context.Context, pref domain.ReminderPreference, today, now time.Time) (int, []string) {
	var (
		sent int
		errs []string
	)

	for _, lead := range pref.LeadTimes {
		if lead < 0 {
			continue
		}
		target := today.AddDate(0, 0, lead)

		receipts, err := e.receipts.FindDueOn(ctx, pref.UserID, target)
		if err != nil {
			errs = append(errs, fmt.Sprintf("user %s: %v", pref.UserID, err))
			continue
		}

		for _, receipt := range receipts {
			content := domain.MessageContent{
				ReceiptID:  receipt.ID,
				Vendor:     receipt.Vendor,
				Amount:     receipt.Amount,
				Category:   receipt.Category,
				DueDate:    target.Format("2006-01-02"),
				DaysBefore: lead,
			}
			for _, ch := range pref.Channels {
				if ok, errStr := e.dispatch(ctx, pref, receipt, ch, content, today, now); ok {
					sent++
				} else if errStr != "" {
					errs = append(errs, errStr)
				}
			}
		}
	}

	return sent, errs
}

// dispatch sends one notification through one channel. The returned bool
// reports a successful send; the string is empty unless the attempt is
// worth surfacing in the run summary.
func (e *Engine) dispatch(ctx context.Context, pref domain.ReminderPreference, receipt domain.Receipt, ch domain.Channel, content domain.MessageContent, today, now time.Time) (bool, string) {
	already, err := e.history.HasEntry(ctx, receipt.ID, ch, today, today.AddDate(0, 0, 1))
	if err != nil {
		return false, fmt.Sprintf("receipt %s (%s): duplicate check: %v", receipt.ID, ch, err)
	}
	if already {
		slog.Debug("already notified today", "receipt_id", receipt.ID, "channel", ch)
		return false, ""
	}

	recipient, err := pref.Recipient(ch)
	if err != nil {
		e.record(ctx, pref.UserID, receipt.ID, ch, domain.NotificationStatusFailed, now, content)
		return false, fmt.Sprintf("receipt %s (%s): %v", receipt.ID, ch, err)
	}

	sender, ok := e.channels[ch]
	if !ok {
		e.record(ctx, pref.UserID, receipt.ID, ch, domain.NotificationStatusFailed, now, content)
		return false, fmt.Sprintf("receipt %s (%s): channel not configured", receipt.ID, ch)
	}

	msg := notify.Render(ch, recipient, content)
	providerID, err := sender.Send(ctx, msg)
	if err != nil {
		e.record(ctx, pref.UserID, receipt.ID, ch, domain.NotificationStatusFailed, now, content)
		return false, fmt.Sprintf("receipt %s (%s): %v", receipt.ID, ch, err)
	}

	slog.Info("notification sent",
		"receipt_id", receipt.ID, "channel", ch, "provider_id", providerID)
	e.record(ctx, pref.UserID, receipt.ID, ch, domain.NotificationStatusSent, now, content)
	return true, ""
}

func (e *Engine) record(ctx context.Context, userID, receiptID string, ch domain.Channel, status domain.NotificationStatus, now time.Time, content domain.MessageContent) {
	err := e.history.Append(ctx, domain.NotificationRecord{
		UserID:    userID,
		ReceiptID: receiptID,
		Channel:   ch,
		Status:    status,
		SentAt:    now,
		Content:   content,
	})
	if err != nil {
		slog.Error("failed to write notification history",
			"receipt_id", receiptID, "channel", ch, "error", err)
	}
}
