package uistate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_OpenClose(t *testing.T) {
	r := NewRegistry()
	defer r.Stop()

	assert.False(t, r.IsOpen("sess-1", ModalContact))

	r.Open("sess-1", ModalContact)
	assert.True(t, r.IsOpen("sess-1", ModalContact))

	r.Close("sess-1", ModalContact)
	assert.False(t, r.IsOpen("sess-1", ModalContact))
}

func TestRegistry_ModalsAreIndependent(t *testing.T) {
	r := NewRegistry()
	defer r.Stop()

	r.Open("sess-1", ModalContact)
	r.Open("sess-1", ModalReferral)
	r.Close("sess-1", ModalContact)

	assert.False(t, r.IsOpen("sess-1", ModalContact))
	assert.True(t, r.IsOpen("sess-1", ModalReferral), "closing one modal must not close the other")
}

func TestRegistry_LastCallWins(t *testing.T) {
	r := NewRegistry()
	defer r.Stop()

	r.Open("sess-1", ModalReferral)
	r.Open("sess-1", ModalReferral)
	assert.True(t, r.IsOpen("sess-1", ModalReferral))

	r.Close("sess-1", ModalReferral)
	r.Close("sess-1", ModalReferral)
	assert.False(t, r.IsOpen("sess-1", ModalReferral))
}

func TestRegistry_SessionsAreIsolated(t *testing.T) {
	r := NewRegistry()
	defer r.Stop()

	r.Open("sess-1", ModalContact)
	assert.False(t, r.IsOpen("sess-2", ModalContact))
}

func TestRegistry_UnknownModalIgnored(t *testing.T) {
	r := NewRegistry()
	defer r.Stop()

	r.Open("sess-1", "newsletter")
	assert.False(t, r.IsOpen("sess-1", "newsletter"))

	snap := r.Snapshot("sess-1")
	assert.NotContains(t, snap, "newsletter")
}

func TestRegistry_Snapshot(t *testing.T) {
	r := NewRegistry()
	defer r.Stop()

	snap := r.Snapshot("fresh-session")
	assert.Equal(t, map[string]bool{ModalContact: false, ModalReferral: false}, snap)

	r.Open("fresh-session", ModalReferral)
	snap = r.Snapshot("fresh-session")
	assert.False(t, snap[ModalContact])
	assert.True(t, snap[ModalReferral])
}
