package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Channel represents a delivery mechanism for a notification.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// LeadTimes is a set of days-before-due-date offsets, stored as jsonb.
type LeadTimes []int

func (l LeadTimes) Value() (driver.Value, error) {
	if l == nil {
		l = LeadTimes{}
	}
	return json.Marshal(l)
}

func (l *LeadTimes) Scan(src any) error {
	return scanJSON(src, l, "lead_times")
}

// Channels is a set of enabled delivery channels, stored as jsonb.
type Channels []Channel

func (c Channels) Value() (driver.Value, error) {
	if c == nil {
		c = Channels{}
	}
	return json.Marshal(c)
}

func (c *Channels) Scan(src any) error {
	return scanJSON(src, c, "channels")
}

// Contains reports whether the given channel is enabled.
func (c Channels) Contains(ch Channel) bool {
	for _, v := range c {
		if v == ch {
			return true
		}
	}
	return false
}

// ReminderPreference holds one user's reminder configuration. Created and
// updated by the user; the engine only reads it.
type ReminderPreference struct {
	UserID       string    `json:"user_id" db:"user_id"`
	LeadTimes    LeadTimes `json:"lead_times" db:"lead_times"`
	Channels     Channels  `json:"channels" db:"channels"`
	EmailAddress *string   `json:"email_address,omitempty" db:"email_address"`
	PhoneNumber  *string   `json:"phone_number,omitempty" db:"phone_number"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Recipient returns the contact address for the given channel, or
// ErrMissingRecipient if the preference has no address for it.
func (p ReminderPreference) Recipient(ch Channel) (string, error) {
	switch ch {
	case ChannelEmail:
		if p.EmailAddress == nil || *p.EmailAddress == "" {
			return "", fmt.Errorf("%w: email", ErrMissingRecipient)
		}
		return *p.EmailAddress, nil
	case ChannelSMS:
		if p.PhoneNumber == nil || *p.PhoneNumber == "" {
			return "", fmt.Errorf("%w: sms", ErrMissingRecipient)
		}
		return *p.PhoneNumber, nil
	default:
		return "", fmt.Errorf("unknown channel %q", ch)
	}
}

func scanJSON(src, dst any, col string) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("scan %s: unsupported type %T", col, src)
	}
}
