package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jesterfour4/higher-ground-care/internal/devicelocal"
	"github.com/jesterfour4/higher-ground-care/internal/services"
	"github.com/jesterfour4/higher-ground-care/internal/uistate"
)

// ModalStateRequest names a modal to open or close
type ModalStateRequest struct {
	Modal string `json:"modal"`
	Open  bool   `json:"open"`
}

// ModalStateResponse returns the full modal state for this visitor
type ModalStateResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Modals  map[string]bool `json:"modals,omitempty"`
}

// modalSessionKey identifies the visitor for modal-state purposes. Signed
// in or not, everyone gets modal state; anonymous visitors are keyed off
// their device cookie.
func (a *API) modalSessionKey(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(services.SessionCookieName); err == nil && cookie.Value != "" {
		return "sess:" + cookie.Value
	}
	return "anon:" + a.deviceID(w, r)
}

// closeModalFor closes a modal for the caller after a successful submit, so
// the frontend doesn't have to race a second request to dismiss it. Unlike
// modalSessionKey this never mints a device cookie: a visitor with no key
// has no modal state to close.
func (a *API) closeModalFor(r *http.Request, modal string) {
	if cookie, err := r.Cookie(services.SessionCookieName); err == nil && cookie.Value != "" {
		a.Modals.Close("sess:"+cookie.Value, modal)
		return
	}
	if cookie, err := r.Cookie(devicelocal.DeviceCookieName); err == nil && cookie.Value != "" {
		a.Modals.Close("anon:"+cookie.Value, modal)
	}
}

// SetModalState opens or closes one modal. Modals are independent; this
// never touches the other one. Repeated calls are idempotent.
func (a *API) SetModalState(w http.ResponseWriter, r *http.Request) {
	var req ModalStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ModalStateResponse{Success: false, Message: "Invalid request body"})
		return
	}

	if !uistate.IsKnown(req.Modal) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ModalStateResponse{Success: false, Message: "Unknown modal"})
		return
	}

	key := a.modalSessionKey(w, r)
	if req.Open {
		a.Modals.Open(key, req.Modal)
	} else {
		a.Modals.Close(key, req.Modal)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ModalStateResponse{Success: true, Modals: a.Modals.Snapshot(key)})
}

// GetModalState returns the visitor's modal flags so a navigation-triggered
// open survives the page transition.
func (a *API) GetModalState(w http.ResponseWriter, r *http.Request) {
	key := a.modalSessionKey(w, r)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ModalStateResponse{Success: true, Modals: a.Modals.Snapshot(key)})
}
