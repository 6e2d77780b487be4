package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/jesterfour4/higher-ground-care/internal/store"
	"github.com/jesterfour4/higher-ground-care/internal/uistate"
)

// SubmitContactRequest represents the request to submit the contact form
type SubmitContactRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	ChildAge string `json:"childAge"`
	Message  string `json:"message"`
}

// SubmitContactResponse represents the response after submitting the contact form
type SubmitContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SubmitContact handles submitting the contact form. Validation failures
// never reach the store; the insert is attempted exactly once.
func (a *API) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req SubmitContactRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SubmitContactResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	if req.Name == "" || req.Email == "" || req.Message == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SubmitContactResponse{
			Success: false,
			Message: "Please fill in all required fields.",
		})
		return
	}

	if !emailPattern.MatchString(req.Email) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SubmitContactResponse{
			Success: false,
			Message: "Please enter a valid email address.",
		})
		return
	}

	_, err := a.Submissions.InsertContact(r.Context(), store.ContactSubmission{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		ChildAge: req.ChildAge,
		Message:  req.Message,
	})
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(SubmitContactResponse{
			Success: false,
			Message: "Failed to submit form. Please try again.",
		})
		return
	}

	// Submit success also dismisses the contact modal
	a.closeModalFor(r, uistate.ModalContact)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SubmitContactResponse{
		Success: true,
		Message: "Thank you for your message! We'll get back to you soon.",
	})
}
