package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sumire/receiptly/internal/domain"
)

// PreferenceRepository handles reminder preference data access.
type PreferenceRepository struct {
	db *sqlx.DB
}

// NewPreferenceRepository creates a new PreferenceRepository.
func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// ListActive returns every stored preference. All preferences are
// considered active; the engine does no filtering here.
func (r *PreferenceRepository) ListActive(ctx context.Context) ([]domain.ReminderPreference, error) {
	var prefs []domain.ReminderPreference
	err := r.db.SelectContext(ctx, &prefs,
		`SELECT user_id, lead_times, channels, email_address, phone_number, created_at, updated_at
		 FROM user_preferences
		 ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	return prefs, nil
}

// FindByUserID retrieves one user's preference.
func (r *PreferenceRepository) FindByUserID(ctx context.Context, userID string) (*domain.ReminderPreference, error) {
	var pref domain.ReminderPreference
	err := r.db.GetContext(ctx, &pref,
		`SELECT user_id, lead_times, channels, email_address, phone_number, created_at, updated_at
		 FROM user_preferences WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find preference for user %s: %w", userID, err)
	}
	return &pref, nil
}

// Upsert creates or replaces a user's preference and returns the stored row.
func (r *PreferenceRepository) Upsert(ctx context.Context, pref domain.ReminderPreference) (*domain.ReminderPreference, error) {
	var result domain.ReminderPreference
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO user_preferences (user_id, lead_times, channels, email_address, phone_number)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id)
		 DO UPDATE SET lead_times = EXCLUDED.lead_times,
		               channels = EXCLUDED.channels,
		               email_address = EXCLUDED.email_address,
		               phone_number = EXCLUDED.phone_number,
		               updated_at = NOW()
		 RETURNING user_id, lead_times, channels, email_address, phone_number, created_at, updated_at`,
		pref.UserID, pref.LeadTimes, pref.Channels, pref.EmailAddress, pref.PhoneNumber,
	).StructScan(&result)
	if err != nil {
		return nil, fmt.Errorf("upsert preference: %w", err)
	}
	return &result, nil
}
