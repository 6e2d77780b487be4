package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jesterfour4/higher-ground-care/internal/store"
)

// OAuthUser is the identity handed back by the OAuth provider after a
// successful code exchange.
type OAuthUser struct {
	Subject    string
	Email      string
	FullName   string
	Name       string
	GivenName  string
	FirstName  string
	FamilyName string
	LastName   string
	Phone      string
	AvatarURL  string
	Picture    string
	Provider   string
}

// DisplayName resolves the profile full name with the same fallback chain
// the OAuth metadata uses: full_name ?? name ?? email.
func (u OAuthUser) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func (u OAuthUser) First() string {
	if u.GivenName != "" {
		return u.GivenName
	}
	return u.FirstName
}

func (u OAuthUser) Last() string {
	if u.FamilyName != "" {
		return u.FamilyName
	}
	return u.LastName
}

func (u OAuthUser) Avatar() string {
	if u.AvatarURL != "" {
		return u.AvatarURL
	}
	return u.Picture
}

// SyncProfile performs the upsert-on-login: insert a profile row if none
// exists for the user, otherwise overwrite its fields and bump updated_at.
// Existence is checked first; this is not a literal UPSERT.
func SyncProfile(ctx context.Context, profiles store.Profiles, userID uuid.UUID, ou OAuthUser) error {
	p := store.Profile{
		ID:         userID,
		FullName:   ou.DisplayName(),
		FirstName:  ou.First(),
		LastName:   ou.Last(),
		Email:      ou.Email,
		Phone:      ou.Phone,
		AvatarURL:  ou.Avatar(),
		Provider:   ou.Provider,
		ProviderID: ou.Subject,
	}
	if p.Provider == "" {
		p.Provider = "google"
	}
	if p.ProviderID == "" {
		p.ProviderID = userID.String()
	}

	existing, err := profiles.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if existing == nil {
		return profiles.InsertProfile(ctx, p)
	}

	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	return profiles.UpdateProfile(ctx, p)
}
