// Package uistate coordinates modal visibility server-side so any page can
// open the contact or referral modal and navigation-triggered opens survive
// the page transition.
package uistate

import (
	"sync"
	"time"
)

// Modal names. Unknown names are rejected so typos don't silently create
// per-session garbage keys.
const (
	ModalContact  = "contact"
	ModalReferral = "referral"
)

const (
	// stateTTL bounds how long an idle session's modal flags are kept
	stateTTL = 30 * time.Minute
	// sweepInterval is how often expired entries are cleared
	sweepInterval = 5 * time.Minute
)

type entry struct {
	open     map[string]bool
	lastSeen time.Time
}

// Registry tracks modal open/closed flags per session key. Flags are
// independent: changing one never touches the other. Repeated opens and
// closes are idempotent; the last call wins.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	done    chan struct{}
}

func NewRegistry() *Registry {
	r := &Registry{
		entries: make(map[string]*entry),
		done:    make(chan struct{}),
	}
	go r.sweep()
	return r
}

// IsKnown reports whether name is a modal this registry tracks.
func IsKnown(name string) bool {
	return name == ModalContact || name == ModalReferral
}

// Open marks a modal open for a session.
func (r *Registry) Open(sessionKey, name string) {
	r.set(sessionKey, name, true)
}

// Close marks a modal closed for a session.
func (r *Registry) Close(sessionKey, name string) {
	r.set(sessionKey, name, false)
}

func (r *Registry) set(sessionKey, name string, open bool) {
	if !IsKnown(name) {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[sessionKey]
	if !ok {
		e = &entry{open: make(map[string]bool)}
		r.entries[sessionKey] = e
	}
	e.open[name] = open
	e.lastSeen = time.Now()
}

// IsOpen reports whether a modal is open for a session. Sessions with no
// recorded state report everything closed.
func (r *Registry) IsOpen(sessionKey, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[sessionKey]
	if !ok {
		return false
	}
	e.lastSeen = time.Now()
	return e.open[name]
}

// Snapshot returns the full modal state for a session, with every known
// modal present so the frontend never has to null-check.
func (r *Registry) Snapshot(sessionKey string) map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := map[string]bool{ModalContact: false, ModalReferral: false}
	if e, ok := r.entries[sessionKey]; ok {
		e.lastSeen = time.Now()
		for name, open := range e.open {
			out[name] = open
		}
	}
	return out
}

// Stop ends the background sweeper.
func (r *Registry) Stop() {
	close(r.done)
}

func (r *Registry) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-stateTTL)
			r.mu.Lock()
			for key, e := range r.entries {
				if e.lastSeen.Before(cutoff) {
					delete(r.entries, key)
				}
			}
			r.mu.Unlock()
		}
	}
}
