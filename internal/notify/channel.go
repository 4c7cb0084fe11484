// Package notify holds the delivery channel capabilities. Each provider is
// wrapped in a small client constructed once with its credentials and
// injected into the services; nothing here reads the environment.
package notify

import (
	"context"

	"github.com/sumire/receiptly/internal/domain"
)

// Message is a rendered notification ready for one channel. Subject and
// HTML are set for email, Body for SMS.
type Message struct {
	Recipient string
	Subject   string
	HTML      string
	Body      string
}

// Channel sends a rendered message and returns the provider's message id.
type Channel interface {
	Kind() domain.Channel
	Send(ctx context.Context, msg Message) (string, error)
}

// Channels indexes the configured senders by kind. Kinds that were not
// configured are simply absent.
type Channels map[domain.Channel]Channel

// Add registers a sender under its kind.
func (c Channels) Add(ch Channel) {
	c[ch.Kind()] = ch
}
