package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jesterfour4/higher-ground-care/internal/store"
)

// SubmitProgramInterestRequest records interest in a program
type SubmitProgramInterestRequest struct {
	Email   string `json:"email"`
	Program string `json:"program"`
	Note    string `json:"note"`
}

// SubmitProgramInterestResponse represents the response after recording interest
type SubmitProgramInterestResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type programInterestError struct {
	Error string `json:"error"`
}

// SubmitProgramInterest records interest in the group sessions or family
// retreat. The store is checked before the body so a misconfigured
// deployment answers 503 instead of validating into a dead end.
func (a *API) SubmitProgramInterest(w http.ResponseWriter, r *http.Request) {
	if a.Submissions == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(programInterestError{
			Error: "Database not available. Please try again later.",
		})
		return
	}

	var req SubmitProgramInterestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(programInterestError{Error: "Invalid request body"})
		return
	}

	if req.Email == "" || req.Program == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(programInterestError{
			Error: "Email and program are required",
		})
		return
	}

	if req.Program != "group" && req.Program != "retreat" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(programInterestError{
			Error: `Program must be either "group" or "retreat"`,
		})
		return
	}

	_, err := a.Submissions.InsertProgramInterest(r.Context(), store.ProgramInterest{
		Email:   req.Email,
		Program: req.Program,
		Note:    req.Note,
	})
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(programInterestError{Error: "Failed to submit interest"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SubmitProgramInterestResponse{
		Success: true,
		Message: "Interest submitted successfully",
	})
}
