// internal/store/profile_store.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"los-bridge/internal/models"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileStore looks up borrower identity records. Two tables exist because
// the portal migrated account storage at some point: new-style profiles and
// the legacy users table both remain in use.
type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// GetProfile fetches a new-style profile by id.
func (s *ProfileStore) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	return s.lookup(ctx, `
		SELECT id, full_name, email, phone
		FROM profiles
		WHERE id = $1`, id)
}

// GetLegacyProfile fetches identity fields from the legacy users table.
func (s *ProfileStore) GetLegacyProfile(ctx context.Context, id string) (*models.Profile, error) {
	return s.lookup(ctx, `
		SELECT id, full_name, email, phone
		FROM users
		WHERE id = $1`, id)
}

func (s *ProfileStore) lookup(ctx context.Context, query, id string) (*models.Profile, error) {
	var (
		p     models.Profile
		email sql.NullString
		phone sql.NullString
	)

	err := s.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.FullName, &email, &phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query profile %s: %w", id, err)
	}

	p.Email = email.String
	p.Phone = phone.String
	return &p, nil
}
