package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// PostgresProfiles backs the profiles table.
type PostgresProfiles struct {
	db *sql.DB
}

func NewPostgresProfiles(db *sql.DB) *PostgresProfiles {
	return &PostgresProfiles{db: db}
}

func (s *PostgresProfiles) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, full_name, first_name, last_name, email, phone, avatar_url,
		       provider, provider_id, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`, id)

	var p Profile
	var fullName, firstName, lastName, email, phone, avatarURL, provider, providerID sql.NullString
	err := row.Scan(&p.ID, &fullName, &firstName, &lastName, &email, &phone, &avatarURL,
		&provider, &providerID, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.FullName = fullName.String
	p.FirstName = firstName.String
	p.LastName = lastName.String
	p.Email = email.String
	p.Phone = phone.String
	p.AvatarURL = avatarURL.String
	p.Provider = provider.String
	p.ProviderID = providerID.String
	return &p, nil
}

func (s *PostgresProfiles) InsertProfile(ctx context.Context, p Profile) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, full_name, first_name, last_name, email, phone,
			avatar_url, provider, provider_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, p.ID, nullable(p.FullName), nullable(p.FirstName), nullable(p.LastName), nullable(p.Email),
		nullable(p.Phone), nullable(p.AvatarURL), nullable(p.Provider), nullable(p.ProviderID),
		p.CreatedAt, p.UpdatedAt)
	return err
}

func (s *PostgresProfiles) UpdateProfile(ctx context.Context, p Profile) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE profiles
		SET full_name = $2, first_name = $3, last_name = $4, email = $5, phone = $6,
		    avatar_url = $7, provider = $8, provider_id = $9, updated_at = $10
		WHERE id = $1
	`, p.ID, nullable(p.FullName), nullable(p.FirstName), nullable(p.LastName), nullable(p.Email),
		nullable(p.Phone), nullable(p.AvatarURL), nullable(p.Provider), nullable(p.ProviderID), p.UpdatedAt)
	return err
}
