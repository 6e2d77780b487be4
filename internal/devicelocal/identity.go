// Package devicelocal implements picture-sequence login for the kid portal.
//
// A picture sequence is NOT authentication. It resolves to a device-local
// identity used only to personalize the kid portal on that device; it never
// grants access to parent data or any account. The identity is scoped to a
// device token so the same sequence on two devices yields two identities.
package devicelocal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jesterfour4/higher-ground-care/internal/database"
)

const (
	// DeviceCookieName carries the random per-device token.
	DeviceCookieName = "hg_device"
	// identityKeyPrefix is the Redis key prefix for sequence -> identity mappings
	identityKeyPrefix = "picture_sequence:"
)

// Identity is what a picture sequence resolves to on one device.
type Identity struct {
	UserID    string    `json:"user_id"`
	Sequence  []string  `json:"sequence"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IdentityStore persists device-local identities. First submission of a
// sequence on a device creates the identity; every later submission of the
// same sequence on the same device returns the same one.
type IdentityStore interface {
	Resolve(ctx context.Context, deviceID string, sequence []string) (Identity, bool, error)
	Save(ctx context.Context, deviceID string, id Identity) error
	// HasIdentity reports whether the device has completed at least one
	// picture login. Gates kid-portal content without naming a sequence.
	HasIdentity(ctx context.Context, deviceID string) (bool, error)
}

// NewIdentity mints a fresh identity for a sequence. The user ID format is
// stable and greppable in logs without looking like an account ID.
func NewIdentity(sequence []string) Identity {
	now := time.Now()
	return Identity{
		UserID:    fmt.Sprintf("picture-user-%d", now.UnixMilli()),
		Sequence:  append([]string(nil), sequence...),
		CreatedAt: now,
	}
}

// SequenceKey joins a picture sequence into the storage key segment.
func SequenceKey(sequence []string) string {
	return strings.Join(sequence, "_")
}

// PictureSet is one themed grid of pictures the kid picks from.
type PictureSet struct {
	Name     string   `json:"name"`
	Pictures []string `json:"pictures"`
}

// PictureSets are the themed grids shown on the kid login screen. Order
// matters; the frontend renders them as tabs.
func PictureSets() []PictureSet {
	return []PictureSet{
		{Name: "Animal Friends", Pictures: []string{"🐱", "🐶", "🐦", "🐠", "🐰", "🐸", "🦋", "🐢"}},
		{Name: "Colorful Shapes", Pictures: []string{"🔴", "🔵", "🟡", "🟢", "🟣", "🟠", "⭐", "❤️"}},
		{Name: "Fun Foods", Pictures: []string{"🍎", "🍌", "🍪", "🎂", "🍕", "🍦", "🥕", "🍇"}},
		{Name: "Playful Toys", Pictures: []string{"⚽", "🧸", "🚗", "🎈", "🪀", "🎨", "🧩", "🥁"}},
	}
}

// RedisIdentityStore keeps identities in Redis with no expiry; a kid's
// picture login should survive restarts indefinitely.
type RedisIdentityStore struct{}

func (s *RedisIdentityStore) key(deviceID string, sequence []string) string {
	return identityKeyPrefix + deviceID + ":" + SequenceKey(sequence)
}

func (s *RedisIdentityStore) Resolve(ctx context.Context, deviceID string, sequence []string) (Identity, bool, error) {
	val, err := database.RedisClient.HGetAll(ctx, s.key(deviceID, sequence)).Result()
	if err != nil {
		// A transient Redis failure must not look like "unknown sequence":
		// the caller would mint a fresh identity and clobber the stored one.
		return Identity{}, false, err
	}
	if len(val) == 0 {
		return Identity{}, false, nil
	}

	created, _ := time.Parse(time.RFC3339, val["created_at"])
	return Identity{
		UserID:    val["user_id"],
		Sequence:  append([]string(nil), sequence...),
		Name:      val["name"],
		CreatedAt: created,
	}, true, nil
}

func (s *RedisIdentityStore) Save(ctx context.Context, deviceID string, id Identity) error {
	key := s.key(deviceID, id.Sequence)
	return database.RedisClient.HSet(ctx, key, map[string]interface{}{
		"user_id":    id.UserID,
		"name":       id.Name,
		"created_at": id.CreatedAt.Format(time.RFC3339),
	}).Err()
}

func (s *RedisIdentityStore) HasIdentity(ctx context.Context, deviceID string) (bool, error) {
	pattern := identityKeyPrefix + deviceID + ":*"
	var cursor uint64
	for {
		keys, next, err := database.RedisClient.Scan(ctx, cursor, pattern, 16).Result()
		if err != nil {
			return false, err
		}
		if len(keys) > 0 {
			return true, nil
		}
		if next == 0 {
			return false, nil
		}
		cursor = next
	}
}

// MemoryIdentityStore is the in-memory fallback used in tests and when
// running without Redis.
type MemoryIdentityStore struct {
	mu         sync.RWMutex
	identities map[string]Identity
}

func NewMemoryIdentityStore() *MemoryIdentityStore {
	return &MemoryIdentityStore{identities: make(map[string]Identity)}
}

func (s *MemoryIdentityStore) key(deviceID string, sequence []string) string {
	return deviceID + ":" + SequenceKey(sequence)
}

func (s *MemoryIdentityStore) Resolve(ctx context.Context, deviceID string, sequence []string) (Identity, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.identities[s.key(deviceID, sequence)]
	return id, ok, nil
}

func (s *MemoryIdentityStore) Save(ctx context.Context, deviceID string, id Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identities[s.key(deviceID, id.Sequence)] = id
	return nil
}

func (s *MemoryIdentityStore) HasIdentity(ctx context.Context, deviceID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := deviceID + ":"
	for k := range s.identities {
		if strings.HasPrefix(k, prefix) {
			return true, nil
		}
	}
	return false, nil
}
