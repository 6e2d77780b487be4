package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/jesterfour4/higher-ground-care/internal/services"
	"github.com/jesterfour4/higher-ground-care/internal/store"
	"github.com/jesterfour4/higher-ground-care/pkg/utils"
)

// SignUpRequest represents the request to create an account
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SignInRequest represents the request to sign in with a password
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MagicLinkRequest asks for a one-time sign-in link by email
type MagicLinkRequest struct {
	Email string `json:"email"`
}

// AuthResponse represents the response for auth operations
type AuthResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	User    *store.User `json:"user,omitempty"`
}

func (a *API) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     services.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(services.SessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   a.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *API) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     services.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

// SignUp creates a password account. Role defaults to parent; kid accounts
// are only provisioned by a parent, never self-registered.
func (a *API) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Invalid request body"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Email and password are required"})
		return
	}
	if len(req.Password) < 8 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Password must be at least 8 characters long"})
		return
	}

	if req.Role != "kid" {
		req.Role = "parent"
	}

	existing, err := a.Users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Failed to create account"})
		return
	}
	if existing != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "An account with this email already exists"})
		return
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Failed to create account"})
		return
	}

	user, err := a.Users.CreateUser(r.Context(), req.Email, passwordHash, req.Role)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Failed to create account"})
		return
	}

	token, err := a.CreateSession(user.ID)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Account created but sign-in failed. Please sign in."})
		return
	}
	a.setSessionCookie(w, token)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(AuthResponse{Success: true, Message: "Account created successfully", User: &user})
}

// SignIn authenticates with email and password.
func (a *API) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Invalid request body"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Email and password are required"})
		return
	}

	user, err := a.Users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Failed to sign in"})
		return
	}
	// Same message for unknown email and wrong password
	if user == nil || user.PasswordHash == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Invalid email or password"})
		return
	}

	ok, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Invalid email or password"})
		return
	}

	token, err := a.CreateSession(user.ID)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Failed to sign in"})
		return
	}
	a.setSessionCookie(w, token)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AuthResponse{Success: true, Message: "Signed in successfully", User: user})
}

// SignOut invalidates the session and clears the cookie. Always succeeds.
func (a *API) SignOut(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(services.SessionCookieName); err == nil {
		if err := a.InvalidateSession(cookie.Value); err != nil {
			log.Printf("Failed to invalidate session: %v", err)
		}
	}
	a.clearSessionCookie(w)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AuthResponse{Success: true, Message: "Signed out successfully"})
}

// Me returns the signed-in user for the session cookie.
func (a *API) Me(w http.ResponseWriter, r *http.Request) {
	var token string
	if cookie, err := r.Cookie(services.SessionCookieName); err == nil {
		token = cookie.Value
	}

	userID, valid, err := a.ValidateSession(token)
	if err != nil || !valid {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Not signed in"})
		return
	}

	user, err := a.Users.GetUserByID(r.Context(), userID)
	if err != nil || user == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Not signed in"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AuthResponse{Success: true, Message: "OK", User: user})
}

// RequestMagicLink emails a one-time sign-in link. The response never
// reveals whether an account exists for the address.
func (a *API) RequestMagicLink(w http.ResponseWriter, r *http.Request) {
	var req MagicLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Invalid request body"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !emailPattern.MatchString(req.Email) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(AuthResponse{Success: false, Message: "Please enter a valid email address."})
		return
	}

	token, err := a.CreateMagicLink(req.Email)
	if err != nil {
		log.Printf("Failed to create magic link token: %v", err)
	} else {
		link := fmt.Sprintf("%s/api/auth/magic-link/verify?token=%s", a.Config.Host, url.QueryEscape(token))
		if err := a.Mailer.SendMagicLink(r.Context(), req.Email, link); err != nil {
			log.Printf("Failed to send magic link: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AuthResponse{
		Success: true,
		Message: "If an account exists for this address, a sign-in link is on its way.",
	})
}

// VerifyMagicLink consumes a one-time token, creating the account on first
// use, and redirects to the frontend with a session cookie set.
func (a *API) VerifyMagicLink(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	next := r.URL.Query().Get("next")
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = "/parent-portal"
	}

	email, ok := a.ConsumeMagicLink(token)
	if !ok {
		http.Redirect(w, r, a.Config.FrontendURL+"/login?error=link-expired", http.StatusFound)
		return
	}

	user, err := a.Users.GetUserByEmail(r.Context(), email)
	if err != nil {
		http.Redirect(w, r, a.Config.FrontendURL+"/login?error=server-error", http.StatusFound)
		return
	}
	if user == nil {
		created, err := a.Users.CreateUser(r.Context(), email, "", "parent")
		if err != nil {
			http.Redirect(w, r, a.Config.FrontendURL+"/login?error=server-error", http.StatusFound)
			return
		}
		user = &created
	}

	session, err := a.CreateSession(user.ID)
	if err != nil {
		http.Redirect(w, r, a.Config.FrontendURL+"/login?error=server-error", http.StatusFound)
		return
	}
	a.setSessionCookie(w, session)

	http.Redirect(w, r, a.Config.FrontendURL+next, http.StatusFound)
}
