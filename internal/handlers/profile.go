package handlers

import (
	"encoding/json"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/jesterfour4/higher-ground-care/internal/middleware"
	"github.com/jesterfour4/higher-ground-care/internal/store"
)

// ProfileResponse wraps a profile row
type ProfileResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Profile *store.Profile `json:"profile,omitempty"`
}

// UpdateProfileRequest carries the editable profile fields
type UpdateProfileRequest struct {
	FullName  string `json:"full_name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// GetProfile returns the signed-in user's profile.
func (a *API) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ProfileResponse{Success: false, Message: "Authentication required"})
		return
	}

	profile, err := a.Profiles.GetProfile(r.Context(), userID)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ProfileResponse{Success: false, Message: "Failed to load profile"})
		return
	}
	if profile == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ProfileResponse{Success: false, Message: "Profile not found"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ProfileResponse{Success: true, Profile: profile})
}

// UpdateProfile edits the signed-in user's profile fields. Creates the row
// if an email/password account never went through the OAuth sync.
func (a *API) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ProfileResponse{Success: false, Message: "Authentication required"})
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ProfileResponse{Success: false, Message: "Invalid request body"})
		return
	}

	profile, err := a.Profiles.GetProfile(r.Context(), userID)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ProfileResponse{Success: false, Message: "Failed to update profile"})
		return
	}

	if profile == nil {
		user, err := a.Users.GetUserByID(r.Context(), userID)
		if err != nil || user == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ProfileResponse{Success: false, Message: "Failed to update profile"})
			return
		}
		created := store.Profile{
			ID:        userID,
			FullName:  req.FullName,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     user.Email,
			Phone:     req.Phone,
		}
		if err := a.Profiles.InsertProfile(r.Context(), created); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ProfileResponse{Success: false, Message: "Failed to update profile"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ProfileResponse{Success: true, Message: "Profile updated", Profile: &created})
		return
	}

	profile.FullName = req.FullName
	profile.FirstName = req.FirstName
	profile.LastName = req.LastName
	profile.Phone = req.Phone
	profile.UpdatedAt = time.Now()

	if err := a.Profiles.UpdateProfile(r.Context(), *profile); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ProfileResponse{Success: false, Message: "Failed to update profile"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ProfileResponse{Success: true, Message: "Profile updated", Profile: profile})
}

// UploadAvatar stores a new avatar image in Cloudinary and saves the URL
// on the profile.
func (a *API) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ProfileResponse{Success: false, Message: "Authentication required"})
		return
	}

	if a.Cloudinary == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(ProfileResponse{Success: false, Message: "Uploads are not configured"})
		return
	}

	// 5 MB cap
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ProfileResponse{Success: false, Message: "Invalid upload"})
		return
	}

	fileHeader := firstFile(r, "avatar")
	if fileHeader == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ProfileResponse{Success: false, Message: "No file provided"})
		return
	}

	url, err := a.Cloudinary.UploadFileFromHeader(r.Context(), fileHeader, "avatars")
	if err != nil {
		log.Printf("Avatar upload failed: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ProfileResponse{Success: false, Message: "Failed to upload avatar"})
		return
	}

	profile, err := a.Profiles.GetProfile(r.Context(), userID)
	if err != nil || profile == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ProfileResponse{Success: false, Message: "Failed to save avatar"})
		return
	}

	profile.AvatarURL = url
	profile.UpdatedAt = time.Now()
	if err := a.Profiles.UpdateProfile(r.Context(), *profile); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ProfileResponse{Success: false, Message: "Failed to save avatar"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ProfileResponse{Success: true, Message: "Avatar updated", Profile: profile})
}

func firstFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}
