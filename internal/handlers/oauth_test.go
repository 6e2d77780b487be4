package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesterfour4/higher-ground-care/internal/services"
)

type stubExchanger struct {
	user *services.OAuthUser
	err  error
	code string
}

func (s *stubExchanger) Exchange(ctx context.Context, code string) (*services.OAuthUser, error) {
	s.code = code
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func googleUser() *services.OAuthUser {
	return &services.OAuthUser{
		Subject:    "sub-123",
		Email:      "parent@example.com",
		Name:       "Sam Parent",
		GivenName:  "Sam",
		FamilyName: "Parent",
		Picture:    "https://lh3.example.com/photo.jpg",
		Provider:   "google",
	}
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == services.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestOAuthCallback_CreatesUserAndProfile(t *testing.T) {
	api := newTestAPI(t)
	api.Config.Environment = "development"
	api.OAuth = &stubExchanger{user: googleUser()}

	req := httptest.NewRequest(http.MethodGet, "http://localhost:8080/api/auth/callback?code=abc&next=/parent-portal", nil)
	rec := httptest.NewRecorder()
	api.OAuthCallback(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://localhost:8080/parent-portal", rec.Header().Get("Location"))

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie, "login must set the session cookie")
	userID, ok := api.sessions[cookie.Value]
	require.True(t, ok)

	user, err := api.users.GetUserByID(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "parent@example.com", user.Email)
	assert.Equal(t, "parent", user.Role)

	profile, err := api.profiles.GetProfile(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Sam Parent", profile.FullName)
	assert.Equal(t, "Sam", profile.FirstName)
	assert.Equal(t, "google", profile.Provider)
	assert.Equal(t, "sub-123", profile.ProviderID)
	assert.Equal(t, "https://lh3.example.com/photo.jpg", profile.AvatarURL)
}

func TestOAuthCallback_SecondLoginUpdatesProfile(t *testing.T) {
	api := newTestAPI(t)
	api.Config.Environment = "development"
	stub := &stubExchanger{user: googleUser()}
	api.OAuth = stub

	first := httptest.NewRequest(http.MethodGet, "http://localhost:8080/api/auth/callback?code=abc", nil)
	api.OAuthCallback(httptest.NewRecorder(), first)

	// Provider data changed between logins
	updated := googleUser()
	updated.Name = "Samantha Parent"
	updated.Picture = "https://lh3.example.com/new.jpg"
	stub.user = updated

	second := httptest.NewRequest(http.MethodGet, "http://localhost:8080/api/auth/callback?code=def", nil)
	rec := httptest.NewRecorder()
	api.OAuthCallback(rec, second)
	assert.Equal(t, http.StatusFound, rec.Code)

	user, err := api.users.GetUserByEmail(context.Background(), "parent@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)

	profile, err := api.profiles.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Samantha Parent", profile.FullName)
	assert.Equal(t, "https://lh3.example.com/new.jpg", profile.AvatarURL)
	assert.False(t, profile.UpdatedAt.IsZero())
}

func TestOAuthCallback_MissingCode(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "http://localhost:8080/api/auth/callback", nil)
	rec := httptest.NewRecorder()
	api.OAuthCallback(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://localhost:8080/auth/auth-code-error", rec.Header().Get("Location"))
}

func TestOAuthCallback_ExchangeFailure(t *testing.T) {
	api := newTestAPI(t)
	api.OAuth = &stubExchanger{err: errors.New("invalid_grant")}

	req := httptest.NewRequest(http.MethodGet, "http://localhost:8080/api/auth/callback?code=expired", nil)
	rec := httptest.NewRecorder()
	api.OAuthCallback(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://localhost:8080/auth/auth-code-error", rec.Header().Get("Location"))
	assert.Nil(t, sessionCookie(rec), "failed exchange must not create a session")
}

func TestOAuthCallback_ForwardedHostInProduction(t *testing.T) {
	api := newTestAPI(t)
	api.Config.Environment = "production"
	api.OAuth = &stubExchanger{user: googleUser()}

	req := httptest.NewRequest(http.MethodGet, "http://internal-lb:8080/api/auth/callback?code=abc&next=/dashboard", nil)
	req.Header.Set("X-Forwarded-Host", "www.highergroundcare.com")
	rec := httptest.NewRecorder()
	api.OAuthCallback(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://www.highergroundcare.com/dashboard", rec.Header().Get("Location"))
}

func TestOAuthCallback_RejectsAbsoluteNext(t *testing.T) {
	api := newTestAPI(t)
	api.Config.Environment = "development"
	api.OAuth = &stubExchanger{user: googleUser()}

	req := httptest.NewRequest(http.MethodGet, "http://localhost:8080/api/auth/callback?code=abc&next=https://evil.example.com/", nil)
	rec := httptest.NewRecorder()
	api.OAuthCallback(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://localhost:8080/", rec.Header().Get("Location"))
}
