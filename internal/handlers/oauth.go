package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/jesterfour4/higher-ground-care/internal/services"
)

// requestOrigin reconstructs the scheme://host origin of the request.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// safeNext keeps the post-login redirect on our own site. Anything that
// isn't a relative path falls back to the root.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

// OAuthCallback handles the provider redirect after consent. It exchanges
// the code, syncs the profile row from the provider identity, starts a
// session and sends the user on to the `next` path. Profile sync failures
// are logged but never block the login.
func (a *API) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	origin := requestOrigin(r)
	code := r.URL.Query().Get("code")
	next := safeNext(r.URL.Query().Get("next"))

	if code == "" {
		http.Redirect(w, r, origin+"/auth/auth-code-error", http.StatusFound)
		return
	}

	ou, err := a.OAuth.Exchange(r.Context(), code)
	if err != nil {
		log.Printf("OAuth code exchange failed: %v", err)
		http.Redirect(w, r, origin+"/auth/auth-code-error", http.StatusFound)
		return
	}

	email := strings.ToLower(strings.TrimSpace(ou.Email))
	user, err := a.Users.GetUserByEmail(r.Context(), email)
	if err != nil {
		log.Printf("User lookup failed: %v", err)
		http.Redirect(w, r, origin+"/auth/auth-code-error", http.StatusFound)
		return
	}
	if user == nil {
		created, err := a.Users.CreateUser(r.Context(), email, "", "parent")
		if err != nil {
			log.Printf("User creation failed: %v", err)
			http.Redirect(w, r, origin+"/auth/auth-code-error", http.StatusFound)
			return
		}
		user = &created
	}

	if err := services.SyncProfile(r.Context(), a.Profiles, user.ID, *ou); err != nil {
		// Continue with redirect even if profile handling fails
		log.Printf("Error syncing profile: %v", err)
	}

	token, err := a.CreateSession(user.ID)
	if err != nil {
		log.Printf("Session creation failed: %v", err)
		http.Redirect(w, r, origin+"/auth/auth-code-error", http.StatusFound)
		return
	}
	a.setSessionCookie(w, token)

	// Behind the load balancer the original host arrives in
	// X-Forwarded-Host; locally there is no proxy so the request origin
	// is already right.
	forwardedHost := r.Header.Get("X-Forwarded-Host")
	if a.Config.IsDevelopment() {
		http.Redirect(w, r, origin+next, http.StatusFound)
	} else if forwardedHost != "" {
		http.Redirect(w, r, "https://"+forwardedHost+next, http.StatusFound)
	} else {
		http.Redirect(w, r, origin+next, http.StatusFound)
	}
}
