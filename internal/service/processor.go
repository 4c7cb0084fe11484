package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sumire/receiptly/internal/notify"
)

// Processor dispatches scheduled notification drafts whose send time has
// arrived. Each row gets exactly one terminal transition; a channel error
// marks that row failed and never stops the remaining rows.
type Processor struct {
	notifications NotificationStore
	channels      notify.Channels
	now           func() time.Time
}

// NewProcessor creates a new Processor.
func NewProcessor(notifications NotificationStore, channels notify.Channels) *Processor {
	return &Processor{
		notifications: notifications,
		channels:      channels,
		now:           time.Now,
	}
}

// ProcessResult reports one processing pass.
type ProcessResult struct {
	Success        bool `json:"success"`
	ProcessedCount int  `json:"processedCount"`
	TotalFound     int  `json:"totalFound"`
}

// ProcessDue sends every due draft.
func (p *Processor) ProcessDue(ctx context.Context) (*ProcessResult, error) {
	now := p.now().UTC()

	due, err := p.notifications.FindDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("find due notifications: %w", err)
	}

	result := &ProcessResult{Success: true, TotalFound: len(due)}

	for _, n := range due {
		sender, ok := p.channels[n.Channel]
		if !ok {
			p.fail(ctx, n.ID, fmt.Sprintf("%s channel not configured", n.Channel), now)
			continue
		}

		msg := notify.Render(n.Channel, n.Recipient, n.Content)
		providerID, err := sender.Send(ctx, msg)
		if err != nil {
			slog.Error("notification dispatch failed",
				"notification_id", n.ID, "channel", n.Channel, "error", err)
			p.fail(ctx, n.ID, err.Error(), now)
			continue
		}

		if err := p.notifications.MarkSent(ctx, n.ID, now); err != nil {
			slog.Error("failed to mark notification sent",
				"notification_id", n.ID, "error", err)
			continue
		}

		result.ProcessedCount++
		slog.Info("notification dispatched",
			"notification_id", n.ID, "channel", n.Channel,
			"recipient", n.Recipient, "provider_id", providerID)
	}

	return result, nil
}

func (p *Processor) fail(ctx context.Context, id, errMsg string, now time.Time) {
	if err := p.notifications.MarkFailed(ctx, id, errMsg, now); err != nil {
		slog.Error("failed to mark notification failed",
			"notification_id", id, "error", err)
	}
}
