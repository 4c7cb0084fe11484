package service

import (
	"context"
	"fmt"

	"github.com/sumire/receiptly/internal/domain"
)

// Preferences manages reminder preference reads and updates. The engine
// never writes preferences; this service backs the user-facing API only.
type Preferences struct {
	store PreferenceStore
}

// NewPreferences creates a new Preferences service.
func NewPreferences(store PreferenceStore) *Preferences {
	return &Preferences{store: store}
}

// UpdatePreferencesRequest is the user-facing preference payload.
type UpdatePreferencesRequest struct {
	LeadTimes    []int    `json:"lead_times" validate:"required,min=1,dive,gte=0"`
	Channels     []string `json:"channels" validate:"required,min=1,dive,oneof=email sms"`
	EmailAddress *string  `json:"email_address" validate:"omitempty,email"`
	PhoneNumber  *string  `json:"phone_number" validate:"omitempty,e164"`
}

// Get returns the caller's preference.
func (s *Preferences) Get(ctx context.Context, userID string) (*domain.ReminderPreference, error) {
	return s.store.FindByUserID(ctx, userID)
}

// Update validates and stores the caller's preference. Enabling a channel
// without its contact address is rejected here so the engine only ever
// fails on addresses that disappeared after being set.
func (s *Preferences) Update(ctx context.Context, userID string, req UpdatePreferencesRequest) (*domain.ReminderPreference, error) {
	channels := make(domain.Channels, 0, len(req.Channels))
	for _, c := range req.Channels {
		channels = append(channels, domain.Channel(c))
	}

	if channels.Contains(domain.ChannelEmail) && (req.EmailAddress == nil || *req.EmailAddress == "") {
		return nil, &domain.ValidationError{Field: "email_address", Message: "required when the email channel is enabled"}
	}
	if channels.Contains(domain.ChannelSMS) && (req.PhoneNumber == nil || *req.PhoneNumber == "") {
		return nil, &domain.ValidationError{Field: "phone_number", Message: "required when the sms channel is enabled"}
	}

	pref, err := s.store.Upsert(ctx, domain.ReminderPreference{
		UserID:       userID,
		LeadTimes:    domain.LeadTimes(req.LeadTimes),
		Channels:     channels,
		EmailAddress: req.EmailAddress,
		PhoneNumber:  req.PhoneNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("update preferences for user %s: %w", userID, err)
	}
	return pref, nil
}
