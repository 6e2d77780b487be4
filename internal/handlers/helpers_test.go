package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jesterfour4/higher-ground-care/internal/config"
	"github.com/jesterfour4/higher-ground-care/internal/devicelocal"
	"github.com/jesterfour4/higher-ground-care/internal/portal"
	"github.com/jesterfour4/higher-ground-care/internal/store"
	"github.com/jesterfour4/higher-ground-care/internal/uistate"
)

// testAPI wires an API onto memory stores and stubbed session primitives
// so handler tests never touch Postgres or Redis.
type testAPI struct {
	*API
	submissions *store.MemorySubmissions
	users       *store.MemoryUsers
	profiles    *store.MemoryProfiles
	sessions    map[string]uuid.UUID
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	submissions := store.NewMemorySubmissions()
	users := store.NewMemoryUsers()
	profiles := store.NewMemoryProfiles()
	sessions := make(map[string]uuid.UUID)
	magicLinks := make(map[string]string)

	api := &API{
		Config:      &config.Config{Environment: "test", Host: "http://localhost:8080", FrontendURL: "http://localhost:3000"},
		Submissions: submissions,
		Users:       users,
		Profiles:    profiles,
		Portal:      portal.NewMemoryRepository(),
		Identities:  devicelocal.NewMemoryIdentityStore(),
		Modals:      uistate.NewRegistry(),
		CreateSession: func(userID uuid.UUID) (string, error) {
			token := uuid.NewString()
			sessions[token] = userID
			return token, nil
		},
		ValidateSession: func(token string) (uuid.UUID, bool, error) {
			id, ok := sessions[token]
			return id, ok, nil
		},
		InvalidateSession: func(token string) error {
			delete(sessions, token)
			return nil
		},
		CreateMagicLink: func(email string) (string, error) {
			token := uuid.NewString()
			magicLinks[token] = email
			return token, nil
		},
		ConsumeMagicLink: func(token string) (string, bool) {
			email, ok := magicLinks[token]
			delete(magicLinks, token)
			return email, ok
		},
	}
	t.Cleanup(api.Modals.Stop)

	return &testAPI{API: api, submissions: submissions, users: users, profiles: profiles, sessions: sessions}
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
}

func bytesReader(s string) *bytes.Reader {
	return bytes.NewReader([]byte(s))
}
