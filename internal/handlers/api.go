package handlers

import (
	"github.com/google/uuid"

	"github.com/jesterfour4/higher-ground-care/internal/config"
	"github.com/jesterfour4/higher-ground-care/internal/devicelocal"
	"github.com/jesterfour4/higher-ground-care/internal/portal"
	"github.com/jesterfour4/higher-ground-care/internal/services"
	"github.com/jesterfour4/higher-ground-care/internal/store"
	"github.com/jesterfour4/higher-ground-care/internal/uistate"
)

// API bundles the stores and services the handlers need. Production wiring
// happens in main; tests swap in memory stores and stub functions.
type API struct {
	Config      *config.Config
	Submissions store.Submissions
	Users       store.Users
	Profiles    store.Profiles
	Portal      portal.Repository
	Identities  devicelocal.IdentityStore
	Modals      *uistate.Registry
	OAuth       services.CodeExchanger
	Mailer      *services.Mailer
	Cloudinary  *services.CloudinaryService

	// Session and magic-link primitives are function fields so handler
	// tests don't need Redis.
	CreateSession     func(userID uuid.UUID) (string, error)
	ValidateSession   func(token string) (uuid.UUID, bool, error)
	InvalidateSession func(token string) error
	CreateMagicLink   func(email string) (string, error)
	ConsumeMagicLink  func(token string) (string, bool)
}

// NewAPI wires the Redis-backed session and magic-link defaults.
func NewAPI(cfg *config.Config) *API {
	return &API{
		Config:            cfg,
		Modals:            uistate.NewRegistry(),
		CreateSession:     services.CreateSession,
		ValidateSession:   services.ValidateSession,
		InvalidateSession: services.InvalidateSession,
		CreateMagicLink:   services.CreateMagicLinkToken,
		ConsumeMagicLink:  services.ConsumeMagicLinkToken,
	}
}
