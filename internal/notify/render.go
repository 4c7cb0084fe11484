package notify

import (
	"fmt"
	"time"

	"github.com/sumire/receiptly/internal/domain"
)

// Render builds the channel-specific message for a notification payload.
func Render(ch domain.Channel, recipient string, content domain.MessageContent) Message {
	msg := Message{Recipient: recipient}
	switch ch {
	case domain.ChannelEmail:
		msg.Subject = fmt.Sprintf("Payment Reminder - %s", content.Vendor)
		msg.HTML = renderEmailHTML(content)
	case domain.ChannelSMS:
		msg.Body = renderSMSBody(content)
	}
	return msg
}

func renderEmailHTML(c domain.MessageContent) string {
	return fmt.Sprintf(`<h2>Payment Due Reminder</h2>
<p>This is a reminder that your payment is due soon:</p>
<ul>
  <li><strong>Vendor:</strong> %s</li>
  <li><strong>Amount:</strong> $%.2f</li>
  <li><strong>Category:</strong> %s</li>
  <li><strong>Due Date:</strong> %s</li>
  <li><strong>Receipt ID:</strong> %s</li>
</ul>
<p>Please ensure your payment is made before the due date.</p>`,
		c.Vendor, c.Amount, c.Category, formatDueDate(c.DueDate), c.ReceiptID)
}

func renderSMSBody(c domain.MessageContent) string {
	return fmt.Sprintf("Receipt Reminder: Your %s receipt ($%.2f) is due on %s. Please take action if needed.",
		c.Vendor, c.Amount, formatDueDate(c.DueDate))
}

func formatDueDate(s string) string {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("Jan 2, 2006")
	}
	return s
}
