package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesterfour4/higher-ground-care/internal/devicelocal"
	"github.com/jesterfour4/higher-ground-care/internal/middleware"
	"github.com/jesterfour4/higher-ground-care/internal/services"
)

func withUser(req *http.Request, userID uuid.UUID) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
}

// portalSessionCookie registers a session directly and returns its cookie.
func portalSessionCookie(t *testing.T, api *testAPI) *http.Cookie {
	t.Helper()
	token := uuid.NewString()
	api.sessions[token] = uuid.New()
	return &http.Cookie{Name: services.SessionCookieName, Value: token}
}

func createUser(t *testing.T, api *testAPI, email, role string) uuid.UUID {
	t.Helper()
	user, err := api.users.CreateUser(context.Background(), email, "", role)
	require.NoError(t, err)
	return user.ID
}

func TestGetChildren_ParentSeesRoster(t *testing.T) {
	api := newTestAPI(t)
	parentID := createUser(t, api, "parent@example.com", "parent")

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/portal/children", nil), parentID)
	rec := httptest.NewRecorder()
	api.GetChildren(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ChildrenResponse
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Children, 2)

	emma := resp.Children[0]
	assert.Equal(t, "Emma", emma.Name)
	assert.Equal(t, 5, emma.Age)
	assert.Equal(t, []string{"🐱", "🐶", "🐦", "🐠"}, emma.PictureSequence)
	assert.Equal(t, 8, emma.Progress.LessonsCompleted)
	assert.Equal(t, []string{"Speech sounds", "Social interaction"}, emma.Goals)

	liam := resp.Children[1]
	assert.Equal(t, "Liam", liam.Name)
	assert.Equal(t, 67, liam.Progress.TotalMinutes)
}

func TestGetChildren_KidAccountForbidden(t *testing.T) {
	api := newTestAPI(t)
	kidID := createUser(t, api, "kid@example.com", "kid")

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/portal/children", nil), kidID)
	rec := httptest.NewRecorder()
	api.GetChildren(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetChildren_NoSession(t *testing.T) {
	api := newTestAPI(t)

	rec := httptest.NewRecorder()
	api.GetChildren(rec, httptest.NewRequest(http.MethodGet, "/api/portal/children", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetLessons(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/portal/lessons", nil)
	req.AddCookie(portalSessionCookie(t, api))
	rec := httptest.NewRecorder()
	api.GetLessons(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp LessonsResponse
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Lessons, 3)
	assert.Equal(t, "Fun with Letter Sounds", resp.Lessons[0].Title)
	assert.Equal(t, "Story Time Adventures", resp.Lessons[1].Title)
	assert.True(t, resp.Lessons[1].Completed)
	assert.Equal(t, "Breathing and Relaxation", resp.Lessons[2].Title)
}

func TestGetVideos(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/portal/videos?childId=child-1", nil)
	req.AddCookie(portalSessionCookie(t, api))
	rec := httptest.NewRecorder()
	api.GetVideos(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp VideosResponse
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Videos, 3)
	assert.Equal(t, "Your First Session with Laura!", resp.Videos[0].Title)
	assert.Equal(t, "Fun with Sounds - Letter A", resp.Videos[1].Title)
	assert.Equal(t, "Celebration - You Did It!", resp.Videos[2].Title)
}

func TestGetLessons_AnonymousRejected(t *testing.T) {
	api := newTestAPI(t)

	// No cookies at all
	rec := httptest.NewRecorder()
	api.GetLessons(rec, httptest.NewRequest(http.MethodGet, "/api/portal/lessons", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A device cookie alone is not enough either; the device has to have
	// completed a picture login
	req := httptest.NewRequest(http.MethodGet, "/api/portal/lessons", nil)
	req.AddCookie(&http.Cookie{Name: devicelocal.DeviceCookieName, Value: uuid.NewString()})
	rec = httptest.NewRecorder()
	api.GetLessons(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp portalErrorResponse
	decodeBody(t, rec, &resp)
	assert.False(t, resp.Success)
}

func TestGetVideos_AnonymousRejected(t *testing.T) {
	api := newTestAPI(t)

	rec := httptest.NewRecorder()
	api.GetVideos(rec, httptest.NewRequest(http.MethodGet, "/api/portal/videos?childId=child-1", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetLessons_PictureLoginDeviceAllowed(t *testing.T) {
	api := newTestAPI(t)

	login := httptest.NewRequest(http.MethodPost, "/api/portal/picture-login", jsonBody(t, PictureLoginRequest{
		Sequence: []string{"🐱", "🐶", "🐦", "🐠"},
	}))
	loginRec := httptest.NewRecorder()
	api.PictureLogin(loginRec, login)
	device := deviceCookie(loginRec)
	require.NotNil(t, device)

	req := httptest.NewRequest(http.MethodGet, "/api/portal/lessons", nil)
	req.AddCookie(device)
	rec := httptest.NewRecorder()
	api.GetLessons(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp LessonsResponse
	decodeBody(t, rec, &resp)
	assert.Len(t, resp.Lessons, 3)
}

func TestGetVideos_PictureLoginDeviceAllowed(t *testing.T) {
	api := newTestAPI(t)

	login := httptest.NewRequest(http.MethodPost, "/api/portal/picture-login", jsonBody(t, PictureLoginRequest{
		Sequence: []string{"🍎", "🍌", "🍪", "🎂"},
	}))
	loginRec := httptest.NewRecorder()
	api.PictureLogin(loginRec, login)
	device := deviceCookie(loginRec)
	require.NotNil(t, device)

	req := httptest.NewRequest(http.MethodGet, "/api/portal/videos?childId=child-2", nil)
	req.AddCookie(device)
	rec := httptest.NewRecorder()
	api.GetVideos(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// failingIdentityStore simulates the identity store losing its backend.
type failingIdentityStore struct {
	saves int
}

func (s *failingIdentityStore) Resolve(ctx context.Context, deviceID string, sequence []string) (devicelocal.Identity, bool, error) {
	return devicelocal.Identity{}, false, errors.New("connection refused")
}

func (s *failingIdentityStore) Save(ctx context.Context, deviceID string, id devicelocal.Identity) error {
	s.saves++
	return nil
}

func (s *failingIdentityStore) HasIdentity(ctx context.Context, deviceID string) (bool, error) {
	return false, errors.New("connection refused")
}

func TestPictureLogin_StoreFailureNeverMintsIdentity(t *testing.T) {
	api := newTestAPI(t)
	store := &failingIdentityStore{}
	api.Identities = store

	req := httptest.NewRequest(http.MethodPost, "/api/portal/picture-login", jsonBody(t, PictureLoginRequest{
		Sequence: []string{"🐱", "🐶", "🐦", "🐠"},
	}))
	rec := httptest.NewRecorder()
	api.PictureLogin(rec, req)

	// A lookup failure must not be treated as "unknown sequence", or a
	// fresh identity would overwrite the stored one
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, store.saves)
}

func deviceCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == devicelocal.DeviceCookieName {
			return c
		}
	}
	return nil
}

func TestPictureLogin_SameSequenceSameIdentity(t *testing.T) {
	api := newTestAPI(t)
	seq := []string{"🐱", "🐶", "🐦", "🐠"}

	first := httptest.NewRequest(http.MethodPost, "/api/portal/picture-login", jsonBody(t, PictureLoginRequest{Sequence: seq}))
	firstRec := httptest.NewRecorder()
	api.PictureLogin(firstRec, first)

	assert.Equal(t, http.StatusOK, firstRec.Code)
	var firstResp PictureLoginResponse
	decodeBody(t, firstRec, &firstResp)
	assert.True(t, firstResp.Success)
	assert.True(t, firstResp.NewLogin)
	assert.Regexp(t, `^picture-user-\d+$`, firstResp.UserID)

	device := deviceCookie(firstRec)
	require.NotNil(t, device, "first visit mints a device token")

	// Same sequence from the same device resolves to the same identity
	second := httptest.NewRequest(http.MethodPost, "/api/portal/picture-login", jsonBody(t, PictureLoginRequest{Sequence: seq}))
	second.AddCookie(device)
	secondRec := httptest.NewRecorder()
	api.PictureLogin(secondRec, second)

	var secondResp PictureLoginResponse
	decodeBody(t, secondRec, &secondResp)
	assert.Equal(t, firstResp.UserID, secondResp.UserID)
	assert.False(t, secondResp.NewLogin)
}

func TestPictureLogin_NewSequenceNewIdentity(t *testing.T) {
	api := newTestAPI(t)

	first := httptest.NewRequest(http.MethodPost, "/api/portal/picture-login", jsonBody(t, PictureLoginRequest{
		Sequence: []string{"🐱", "🐶", "🐦", "🐠"},
	}))
	firstRec := httptest.NewRecorder()
	api.PictureLogin(firstRec, first)
	var firstResp PictureLoginResponse
	decodeBody(t, firstRec, &firstResp)

	device := deviceCookie(firstRec)
	require.NotNil(t, device)

	second := httptest.NewRequest(http.MethodPost, "/api/portal/picture-login", jsonBody(t, PictureLoginRequest{
		Sequence: []string{"🍎", "🍌", "🍪", "🎂"},
	}))
	second.AddCookie(device)
	secondRec := httptest.NewRecorder()
	api.PictureLogin(secondRec, second)
	var secondResp PictureLoginResponse
	decodeBody(t, secondRec, &secondResp)

	assert.True(t, secondResp.NewLogin)
	assert.NotEqual(t, firstResp.UserID, secondResp.UserID)
}

func TestPictureLogin_RequiresFourPictures(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/portal/picture-login", jsonBody(t, PictureLoginRequest{
		Sequence: []string{"🐱", "🐶"},
	}))
	rec := httptest.NewRecorder()
	api.PictureLogin(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPictureLogin_SetsKidModeCookie(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/portal/picture-login", jsonBody(t, PictureLoginRequest{
		Sequence: []string{"🔴", "🔵", "🟡", "🟢"},
	}))
	rec := httptest.NewRecorder()
	api.PictureLogin(rec, req)

	var kidMode *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == KidModeCookieName {
			kidMode = c
		}
	}
	require.NotNil(t, kidMode)
	assert.Equal(t, "1", kidMode.Value)
}

func TestExitKidMode_ClearsCookie(t *testing.T) {
	api := newTestAPI(t)

	rec := httptest.NewRecorder()
	api.ExitKidMode(rec, httptest.NewRequest(http.MethodPost, "/api/portal/exit-kid-mode", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var kidMode *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == KidModeCookieName {
			kidMode = c
		}
	}
	require.NotNil(t, kidMode)
	assert.Empty(t, kidMode.Value)
	assert.Negative(t, kidMode.MaxAge)
}

func TestGetPictureSets(t *testing.T) {
	api := newTestAPI(t)

	rec := httptest.NewRecorder()
	api.GetPictureSets(rec, httptest.NewRequest(http.MethodGet, "/api/portal/picture-sets", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp PictureSetsResponse
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Sets, 4)
	assert.Equal(t, "Animal Friends", resp.Sets[0].Name)
}
