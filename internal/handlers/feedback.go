package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jesterfour4/higher-ground-care/internal/store"
)

// SubmitFeedbackRequest is one entry from the floating feedback bubble
type SubmitFeedbackRequest struct {
	Emoji    string `json:"emoji"`
	Feedback string `json:"feedback"`
	Page     string `json:"page"`
}

// SubmitFeedbackResponse represents the response after submitting feedback
type SubmitFeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

var allowedFeedbackEmojis = map[string]bool{
	"😢": true,
	"😐": true,
	"😊": true,
}

// SubmitFeedback handles the emoji feedback widget. The emoji is the only
// required field; free-text comments are optional.
func (a *API) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req SubmitFeedbackRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SubmitFeedbackResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	if !allowedFeedbackEmojis[req.Emoji] {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SubmitFeedbackResponse{
			Success: false,
			Message: "Please select an emoji.",
		})
		return
	}

	if req.Page == "" {
		req.Page = r.Header.Get("Referer")
	}
	if req.Page == "" {
		req.Page = "/"
	}

	err := a.Submissions.InsertFeedback(r.Context(), store.FeedbackEntry{
		Emoji:    req.Emoji,
		Feedback: req.Feedback,
		Page:     req.Page,
	})
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(SubmitFeedbackResponse{
			Success: false,
			Message: "Failed to submit feedback. Please try again.",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SubmitFeedbackResponse{
		Success: true,
		Message: "Thank you for your feedback!",
	})
}
