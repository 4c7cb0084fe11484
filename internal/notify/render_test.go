package notify

import (
	"strings"
	"testing"

	"github.com/sumire/receiptly/internal/domain"
)

func TestRenderEmail(t *testing.T) {
	msg := Render(domain.ChannelEmail, "u1@example.com", domain.MessageContent{
		ReceiptID:  "rcpt-1",
		Vendor:     "Acme Utilities",
		Amount:     142.5,
		Category:   "utilities",
		DueDate:    "2024-06-10",
		DaysBefore: 3,
	})

	if msg.Recipient != "u1@example.com" {
		t.Errorf("recipient = %s", msg.Recipient)
	}
	if msg.Subject != "Payment Reminder - Acme Utilities" {
		t.Errorf("subject = %q", msg.Subject)
	}
	for _, want := range []string{"Acme Utilities", "$142.50", "utilities", "Jun 10, 2024", "rcpt-1"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("html missing %q", want)
		}
	}
	if msg.Body != "" {
		t.Errorf("email message should have no sms body, got %q", msg.Body)
	}
}

func TestRenderSMS(t *testing.T) {
	msg := Render(domain.ChannelSMS, "+15550001111", domain.MessageContent{
		Vendor:  "Acme",
		Amount:  19.99,
		DueDate: "2024-06-10",
	})

	want := "Receipt Reminder: Your Acme receipt ($19.99) is due on Jun 10, 2024. Please take action if needed."
	if msg.Body != want {
		t.Errorf("body = %q, want %q", msg.Body, want)
	}
	if msg.HTML != "" || msg.Subject != "" {
		t.Error("sms message should have no email fields")
	}
}

func TestRenderKeepsUnparseableDueDate(t *testing.T) {
	msg := Render(domain.ChannelSMS, "+15550001111", domain.MessageContent{
		Vendor:  "Acme",
		DueDate: "soon",
	})
	if !strings.Contains(msg.Body, "soon") {
		t.Errorf("body = %q", msg.Body)
	}
}
