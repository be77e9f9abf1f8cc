package repository

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrKeyNotConfigured means the user has no completion API key in their
// profile. This is a user-facing configuration problem, not a fault.
var ErrKeyNotConfigured = errors.New("completion API key not configured; set it in your profile")

// ProfileRepository reads per-user settings from the users collection.
type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// APIKey returns the user's completion-service API key.
func (r *ProfileRepository) APIKey(ownerID string) (string, error) {
	var key sql.NullString
	err := r.db.QueryRow(`
		SELECT gemini_api_key FROM users WHERE user_id = $1
	`, ownerID).Scan(&key)

	if err == sql.ErrNoRows {
		return "", ErrKeyNotConfigured
	}
	if err != nil {
		return "", fmt.Errorf("profile api key: %w", err)
	}
	if !key.Valid || key.String == "" {
		return "", ErrKeyNotConfigured
	}
	return key.String, nil
}
