package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemorySubmissions keeps submissions in process memory. Used by tests and
// by local development without a database.
type MemorySubmissions struct {
	mu        sync.RWMutex
	Contacts  []ContactSubmission
	Referrals []ReferralSubmission
	Interest  []ProgramInterest
	Feedback  []FeedbackEntry
}

func NewMemorySubmissions() *MemorySubmissions {
	return &MemorySubmissions{}
}

func (s *MemorySubmissions) InsertContact(_ context.Context, c ContactSubmission) (ContactSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	s.Contacts = append(s.Contacts, c)
	return c, nil
}

func (s *MemorySubmissions) InsertReferral(_ context.Context, ref ReferralSubmission) (ReferralSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ref.ID == uuid.Nil {
		ref.ID = uuid.New()
	}
	if ref.CreatedAt.IsZero() {
		ref.CreatedAt = time.Now()
	}
	if ref.Status == "" {
		ref.Status = "new"
	}
	s.Referrals = append(s.Referrals, ref)
	return ref, nil
}

func (s *MemorySubmissions) InsertProgramInterest(_ context.Context, p ProgramInterest) (ProgramInterest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	s.Interest = append(s.Interest, p)
	return p, nil
}

func (s *MemorySubmissions) InsertFeedback(_ context.Context, f FeedbackEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	s.Feedback = append(s.Feedback, f)
	return nil
}

// MemoryUsers keeps accounts in process memory.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[uuid.UUID]User
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: map[uuid.UUID]User{}}
}

func (s *MemoryUsers) CreateUser(_ context.Context, email, passwordHash, role string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if role == "" {
		role = "parent"
	}
	u := User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
		IsActive:     true,
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *MemoryUsers) GetUserByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryUsers) GetUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		cp := u
		return &cp, nil
	}
	return nil, nil
}

// MemoryProfiles keeps profile rows in process memory.
type MemoryProfiles struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]Profile
}

func NewMemoryProfiles() *MemoryProfiles {
	return &MemoryProfiles{profiles: map[uuid.UUID]Profile{}}
}

func (s *MemoryProfiles) GetProfile(_ context.Context, id uuid.UUID) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.profiles[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryProfiles) InsertProfile(_ context.Context, p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	s.profiles[p.ID] = p
	return nil
}

func (s *MemoryProfiles) UpdateProfile(_ context.Context, p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.profiles[p.ID]
	if ok {
		p.CreatedAt = existing.CreatedAt
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	s.profiles[p.ID] = p
	return nil
}
