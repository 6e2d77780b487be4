package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesterfour4/higher-ground-care/internal/store"
)

func TestGetProfile(t *testing.T) {
	api := newTestAPI(t)
	userID := createUser(t, api, "parent@example.com", "parent")
	require.NoError(t, api.profiles.InsertProfile(context.Background(), store.Profile{
		ID:       userID,
		FullName: "Sam Parent",
		Email:    "parent@example.com",
	}))

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/profile", nil), userID)
	rec := httptest.NewRecorder()
	api.GetProfile(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp ProfileResponse
	decodeBody(t, rec, &resp)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, "Sam Parent", resp.Profile.FullName)
}

func TestGetProfile_NotFound(t *testing.T) {
	api := newTestAPI(t)
	userID := createUser(t, api, "parent@example.com", "parent")

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/profile", nil), userID)
	rec := httptest.NewRecorder()
	api.GetProfile(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProfile_CreatesRowForPasswordAccounts(t *testing.T) {
	// Email/password accounts never go through the OAuth sync, so the
	// first profile edit creates the row.
	api := newTestAPI(t)
	userID := createUser(t, api, "parent@example.com", "parent")

	req := withUser(httptest.NewRequest(http.MethodPut, "/api/profile", jsonBody(t, UpdateProfileRequest{
		FullName:  "Sam Parent",
		FirstName: "Sam",
		Phone:     "555-0100",
	})), userID)
	rec := httptest.NewRecorder()
	api.UpdateProfile(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	p, err := api.profiles.GetProfile(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Sam Parent", p.FullName)
	assert.Equal(t, "parent@example.com", p.Email)
	assert.Equal(t, "555-0100", p.Phone)
}

func TestUpdateProfile_EditsExistingRow(t *testing.T) {
	api := newTestAPI(t)
	userID := createUser(t, api, "parent@example.com", "parent")
	require.NoError(t, api.profiles.InsertProfile(context.Background(), store.Profile{
		ID:        userID,
		FullName:  "Sam Parent",
		Email:     "parent@example.com",
		AvatarURL: "https://img.example.com/a.jpg",
	}))

	req := withUser(httptest.NewRequest(http.MethodPut, "/api/profile", jsonBody(t, UpdateProfileRequest{
		FullName: "Samantha Parent",
	})), userID)
	rec := httptest.NewRecorder()
	api.UpdateProfile(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	p, err := api.profiles.GetProfile(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "Samantha Parent", p.FullName)
	assert.Equal(t, "https://img.example.com/a.jpg", p.AvatarURL, "avatar survives field edits")
}

func TestUploadAvatar_UnconfiguredUploads(t *testing.T) {
	api := newTestAPI(t)
	userID := createUser(t, api, "parent@example.com", "parent")

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/profile/avatar", nil), userID)
	rec := httptest.NewRecorder()
	api.UploadAvatar(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
