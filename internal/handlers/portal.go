package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jesterfour4/higher-ground-care/internal/devicelocal"
	"github.com/jesterfour4/higher-ground-care/internal/middleware"
	"github.com/jesterfour4/higher-ground-care/internal/portal"
	"github.com/jesterfour4/higher-ground-care/internal/services"
)

// KidModeCookieName flags the portal shell into the kid-friendly layout.
// Not HttpOnly: the frontend reads it to pick the theme before hydration.
const KidModeCookieName = "portal_kid_mode"

type portalErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ChildrenResponse lists a parent's children
type ChildrenResponse struct {
	Success  bool           `json:"success"`
	Children []portal.Child `json:"children"`
}

// LessonsResponse lists the kid portal mini-lessons
type LessonsResponse struct {
	Success bool            `json:"success"`
	Lessons []portal.Lesson `json:"lessons"`
}

// VideosResponse lists the video gallery for a child
type VideosResponse struct {
	Success bool           `json:"success"`
	Videos  []portal.Video `json:"videos"`
}

// requireParent resolves the session user and checks the parent role.
// Kid accounts get 403; the parent portal never renders for them.
func (a *API) requireParent(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(portalErrorResponse{Success: false, Message: "Authentication required"})
		return uuid.Nil, false
	}

	user, err := a.Users.GetUserByID(r.Context(), userID)
	if err != nil || user == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(portalErrorResponse{Success: false, Message: "Authentication required"})
		return uuid.Nil, false
	}
	if user.Role != "parent" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(portalErrorResponse{Success: false, Message: "Parent account required"})
		return uuid.Nil, false
	}

	return userID, true
}

// requirePortalViewer admits either a valid session or a device that has
// already completed a picture login. Lessons and videos are portal content,
// not public marketing pages; anonymous callers get 401. A picture identity
// still grants no account access, only content visibility on that device.
func (a *API) requirePortalViewer(w http.ResponseWriter, r *http.Request) bool {
	if cookie, err := r.Cookie(services.SessionCookieName); err == nil && cookie.Value != "" {
		if _, valid, err := a.ValidateSession(cookie.Value); err == nil && valid {
			return true
		}
	}

	if cookie, err := r.Cookie(devicelocal.DeviceCookieName); err == nil && cookie.Value != "" {
		ok, err := a.Identities.HasIdentity(r.Context(), cookie.Value)
		if err != nil {
			log.Printf("Failed to check device identities: %v", err)
		} else if ok {
			return true
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(portalErrorResponse{Success: false, Message: "Please sign in or pick your pictures first."})
	return false
}

// GetChildren lists the signed-in parent's children with their progress.
func (a *API) GetChildren(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireParent(w, r)
	if !ok {
		return
	}

	children, err := a.Portal.Children(r.Context(), userID.String())
	if err != nil {
		log.Printf("Failed to load children: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(portalErrorResponse{Success: false, Message: "Failed to load children"})
		return
	}
	if children == nil {
		children = []portal.Child{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ChildrenResponse{Success: true, Children: children})
}

// GetLessons lists the mini-lessons for signed-in users and picture-login
// devices.
func (a *API) GetLessons(w http.ResponseWriter, r *http.Request) {
	if !a.requirePortalViewer(w, r) {
		return
	}

	lessons, err := a.Portal.Lessons(r.Context())
	if err != nil {
		log.Printf("Failed to load lessons: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(portalErrorResponse{Success: false, Message: "Failed to load lessons"})
		return
	}
	if lessons == nil {
		lessons = []portal.Lesson{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LessonsResponse{Success: true, Lessons: lessons})
}

// GetVideos lists the gallery for a child. Shared videos always show up.
func (a *API) GetVideos(w http.ResponseWriter, r *http.Request) {
	if !a.requirePortalViewer(w, r) {
		return
	}

	childID := r.URL.Query().Get("childId")

	videos, err := a.Portal.Videos(r.Context(), childID)
	if err != nil {
		log.Printf("Failed to load videos: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(portalErrorResponse{Success: false, Message: "Failed to load videos"})
		return
	}
	if videos == nil {
		videos = []portal.Video{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(VideosResponse{Success: true, Videos: videos})
}

// PictureLoginRequest is a kid's picture sequence
type PictureLoginRequest struct {
	Sequence []string `json:"sequence"`
	Name     string   `json:"name"`
}

// PictureLoginResponse returns the device-local identity for a sequence
type PictureLoginResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	UserID   string `json:"userId,omitempty"`
	Name     string `json:"name,omitempty"`
	NewLogin bool   `json:"newLogin"`
}

// PictureLogin resolves a picture sequence to a device-local identity for
// the kid portal. This is not authentication: the identity only
// personalizes the portal on this device and grants no account access.
// The same sequence on the same device always resolves to the same
// identity; a new sequence mints a new one.
func (a *API) PictureLogin(w http.ResponseWriter, r *http.Request) {
	var req PictureLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(PictureLoginResponse{Success: false, Message: "Invalid request body"})
		return
	}

	if len(req.Sequence) != 4 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(PictureLoginResponse{Success: false, Message: "Please pick 4 pictures."})
		return
	}

	deviceID := a.deviceID(w, r)

	identity, found, err := a.Identities.Resolve(r.Context(), deviceID, req.Sequence)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(PictureLoginResponse{Success: false, Message: "Something went wrong. Please try again."})
		return
	}

	if !found {
		identity = devicelocal.NewIdentity(req.Sequence)
		identity.Name = req.Name
		if err := a.Identities.Save(r.Context(), deviceID, identity); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(PictureLoginResponse{Success: false, Message: "Something went wrong. Please try again."})
			return
		}
	}

	// Flip the portal shell into kid mode for this device
	http.SetCookie(w, &http.Cookie{
		Name:     KidModeCookieName,
		Value:    "1",
		Path:     "/",
		Secure:   a.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(PictureLoginResponse{
		Success:  true,
		UserID:   identity.UserID,
		Name:     identity.Name,
		NewLogin: !found,
	})
}

// PictureSetsResponse lists the themed picture grids
type PictureSetsResponse struct {
	Success bool                     `json:"success"`
	Sets    []devicelocal.PictureSet `json:"sets"`
}

// GetPictureSets returns the themed grids for the kid login screen.
func (a *API) GetPictureSets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(PictureSetsResponse{Success: true, Sets: devicelocal.PictureSets()})
}

// ExitKidMode clears the kid-mode cookie, returning the shell to the
// grown-up layout.
func (a *API) ExitKidMode(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     KidModeCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   a.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(portalErrorResponse{Success: true, Message: "Kid mode off"})
}

// deviceID returns the device token from the cookie, minting one the first
// time a device talks to us. The token scopes picture-login identities.
func (a *API) deviceID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(devicelocal.DeviceCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	deviceID := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     devicelocal.DeviceCookieName,
		Value:    deviceID,
		Path:     "/",
		MaxAge:   10 * 365 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   a.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return deviceID
}
