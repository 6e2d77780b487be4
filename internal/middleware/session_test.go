package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesterfour4/higher-ground-care/internal/services"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

func rejectAll(token string) (uuid.UUID, bool, error) {
	return uuid.Nil, false, nil
}

func TestSessionGuard_RedirectsToLoginWithReturnPath(t *testing.T) {
	guard := SessionGuard(rejectAll)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	guard(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?redirect=%2Fdashboard", rec.Header().Get("Location"))
}

func TestSessionGuard_PreservesQueryInReturnPath(t *testing.T) {
	guard := SessionGuard(rejectAll)

	req := httptest.NewRequest(http.MethodGet, "/parent-portal?tab=progress", nil)
	rec := httptest.NewRecorder()
	guard(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?redirect=%2Fparent-portal%3Ftab%3Dprogress", rec.Header().Get("Location"))
}

func TestSessionGuard_NonGetGets401(t *testing.T) {
	guard := SessionGuard(rejectAll)

	req := httptest.NewRequest(http.MethodPost, "/dashboard", nil)
	rec := httptest.NewRecorder()
	guard(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Authentication required"}`, rec.Body.String())
}

func TestSessionGuard_ValidSessionPassesThrough(t *testing.T) {
	userID := uuid.New()
	guard := SessionGuard(func(token string) (uuid.UUID, bool, error) {
		if token == "valid-token" {
			return userID, true, nil
		}
		return uuid.Nil, false, nil
	})

	var seen uuid.UUID
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		require.True(t, ok)
		seen = id
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: services.SessionCookieName, Value: "valid-token"})
	rec := httptest.NewRecorder()
	guard(inner).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, seen)
}

func TestSessionGuard_MissingCookieTreatedAsSignedOut(t *testing.T) {
	called := false
	guard := SessionGuard(func(token string) (uuid.UUID, bool, error) {
		called = true
		assert.Empty(t, token)
		return uuid.Nil, false, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/kid-portal", nil)
	rec := httptest.NewRecorder()
	guard(okHandler()).ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusFound, rec.Code)
}
