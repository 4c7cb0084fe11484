package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/sumire/receiptly/internal/domain"
)

// EmailChannel delivers notifications through the Resend API.
type EmailChannel struct {
	client *resend.Client
	from   string
}

// NewEmailChannel returns a Resend-backed email sender, or nil when no API
// key is configured.
func NewEmailChannel(apiKey, from string) *EmailChannel {
	if apiKey == "" {
		return nil
	}
	return &EmailChannel{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (c *EmailChannel) Kind() domain.Channel { return domain.ChannelEmail }

func (c *EmailChannel) Send(ctx context.Context, msg Message) (string, error) {
	sent, err := c.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{msg.Recipient},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("resend: %w", err)
	}
	return sent.Id, nil
}
