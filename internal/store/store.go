package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrRelationMissing marks an insert that failed because the target table
// does not exist in this environment (Postgres 42P01). The referral handler
// treats it as an expected condition and falls back to contact_submissions.
var ErrRelationMissing = errors.New("relation does not exist")

// ContactSubmission is a contact form entry. Immutable once created.
type ContactSubmission struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	ChildAge  string    `json:"child_age,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ReferralSubmission is a healthcare provider referral. Status starts "new".
type ReferralSubmission struct {
	ID                     uuid.UUID `json:"id"`
	ReferringProvider      string    `json:"referring_provider"`
	ProviderEmail          string    `json:"provider_email"`
	ProviderPhone          string    `json:"provider_phone,omitempty"`
	ClinicName             string    `json:"clinic_name"`
	ClinicAddress          string    `json:"clinic_address,omitempty"`
	ClientName             string    `json:"client_name"`
	ClientAge              string    `json:"client_age,omitempty"`
	ClientEmail            string    `json:"client_email,omitempty"`
	ClientPhone            string    `json:"client_phone,omitempty"`
	PrimaryConcerns        string    `json:"primary_concerns"`
	CurrentServices        string    `json:"current_services,omitempty"`
	InsuranceInfo          string    `json:"insurance_info,omitempty"`
	UrgencyLevel           string    `json:"urgency_level,omitempty"` // routine|moderate|urgent
	AdditionalNotes        string    `json:"additional_notes,omitempty"`
	PreferredContactMethod string    `json:"preferred_contact_method,omitempty"` // email|phone|either
	ReferralDate           string    `json:"referral_date,omitempty"`
	Status                 string    `json:"status"`
	CreatedAt              time.Time `json:"created_at"`
}

// ProgramInterest records interest in the group sessions or family retreat.
type ProgramInterest struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Program   string    `json:"program"` // group|retreat
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackEntry is one submission from the floating feedback bubble.
type FeedbackEntry struct {
	ID        uuid.UUID `json:"id"`
	Emoji     string    `json:"emoji"`
	Feedback  string    `json:"feedback,omitempty"`
	Page      string    `json:"page"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile mirrors the auth principal; synced on every OAuth login.
type Profile struct {
	ID         uuid.UUID `json:"id"`
	FullName   string    `json:"full_name,omitempty"`
	FirstName  string    `json:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	AvatarURL  string    `json:"avatar_url,omitempty"`
	Provider   string    `json:"provider,omitempty"`
	ProviderID string    `json:"provider_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// User is an authenticated account. PasswordHash is empty for accounts
// created via magic link or OAuth.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"` // parent|kid
	CreatedAt    time.Time `json:"created_at"`
	IsActive     bool      `json:"is_active"`
}

// Submissions persists the four marketing-form entities. Each insert is a
// single attempt; callers decide what a failure means.
type Submissions interface {
	InsertContact(ctx context.Context, c ContactSubmission) (ContactSubmission, error)
	InsertReferral(ctx context.Context, ref ReferralSubmission) (ReferralSubmission, error)
	InsertProgramInterest(ctx context.Context, p ProgramInterest) (ProgramInterest, error)
	InsertFeedback(ctx context.Context, f FeedbackEntry) error
}

// Users looks up and creates authenticated accounts.
type Users interface {
	CreateUser(ctx context.Context, email, passwordHash, role string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// Profiles reads and writes profile rows. GetProfile returns (nil, nil)
// when no row exists, which is what the upsert-on-login sync keys off.
type Profiles interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)
	InsertProfile(ctx context.Context, p Profile) error
	UpdateProfile(ctx context.Context, p Profile) error
}
