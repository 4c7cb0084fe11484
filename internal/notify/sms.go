package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/sumire/receiptly/internal/domain"
)

// SMSChannel delivers notifications through the Twilio Messages API.
type SMSChannel struct {
	client *twilio.RestClient
	from   string
}

// NewSMSChannel returns a Twilio-backed SMS sender, or nil when the
// account credentials are incomplete.
func NewSMSChannel(accountSID, authToken, from string) *SMSChannel {
	if accountSID == "" || authToken == "" || from == "" {
		return nil
	}
	return &SMSChannel{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

func (c *SMSChannel) Kind() domain.Channel { return domain.ChannelSMS }

// Send submits the message. The twilio client does not take a context; the
// ctx parameter exists to satisfy the Channel contract.
func (c *SMSChannel) Send(_ context.Context, msg Message) (string, error) {
	params := &twilioapi.CreateMessageParams{}
	params.SetFrom(c.from)
	params.SetTo(msg.Recipient)
	params.SetBody(msg.Body)

	resp, err := c.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio: %w", err)
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}
