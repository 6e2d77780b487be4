package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresSubmissions persists submissions to the flat PostgreSQL tables.
type PostgresSubmissions struct {
	db *sql.DB
}

func NewPostgresSubmissions(db *sql.DB) *PostgresSubmissions {
	return &PostgresSubmissions{db: db}
}

func (s *PostgresSubmissions) InsertContact(ctx context.Context, c ContactSubmission) (ContactSubmission, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contact_submissions (id, created_at, name, email, phone, child_age, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.CreatedAt, c.Name, c.Email, nullable(c.Phone), nullable(c.ChildAge), c.Message)
	if err != nil {
		return ContactSubmission{}, classifySchemaError(err)
	}
	return c, nil
}

func (s *PostgresSubmissions) InsertReferral(ctx context.Context, ref ReferralSubmission) (ReferralSubmission, error) {
	if ref.ID == uuid.Nil {
		ref.ID = uuid.New()
	}
	if ref.CreatedAt.IsZero() {
		ref.CreatedAt = time.Now()
	}
	if ref.Status == "" {
		ref.Status = "new"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO referrals (
			id, created_at, referring_provider, provider_email, provider_phone,
			clinic_name, clinic_address, client_name, client_age, client_email,
			client_phone, primary_concerns, current_services, insurance_info,
			urgency_level, additional_notes, preferred_contact_method, referral_date, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`, ref.ID, ref.CreatedAt, ref.ReferringProvider, ref.ProviderEmail, nullable(ref.ProviderPhone),
		ref.ClinicName, nullable(ref.ClinicAddress), ref.ClientName, nullable(ref.ClientAge), nullable(ref.ClientEmail),
		nullable(ref.ClientPhone), ref.PrimaryConcerns, nullable(ref.CurrentServices), nullable(ref.InsuranceInfo),
		nullable(ref.UrgencyLevel), nullable(ref.AdditionalNotes), nullable(ref.PreferredContactMethod), nullable(ref.ReferralDate), ref.Status)
	if err != nil {
		return ReferralSubmission{}, classifySchemaError(err)
	}
	return ref, nil
}

func (s *PostgresSubmissions) InsertProgramInterest(ctx context.Context, p ProgramInterest) (ProgramInterest, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO program_interest (id, created_at, email, program, note)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.CreatedAt, p.Email, p.Program, nullable(p.Note))
	if err != nil {
		return ProgramInterest{}, classifySchemaError(err)
	}
	return p, nil
}

func (s *PostgresSubmissions) InsertFeedback(ctx context.Context, f FeedbackEntry) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (id, created_at, emoji, feedback, page)
		VALUES ($1, $2, $3, $4, $5)
	`, f.ID, f.CreatedAt, f.Emoji, nullable(f.Feedback), f.Page)
	if err != nil {
		return classifySchemaError(err)
	}
	return nil
}

// classifySchemaError maps Postgres undefined_table (42P01) onto
// ErrRelationMissing so callers can branch on it without probing the
// schema with a throwaway select first.
func classifySchemaError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "42P01" {
		return ErrRelationMissing
	}
	return err
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
