package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type guestKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	GuestCartKey(guestToken string) string
}

type guestPayload struct {
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GuestStore keeps guest carts as JSON snapshots in Redis with a sliding TTL.
type GuestStore struct {
	kv  guestKV
	ttl time.Duration
	now func() time.Time
}

// NewGuestStore binds the store to a redis client.
func NewGuestStore(kv guestKV, ttl time.Duration) (*GuestStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("guest cart ttl must be positive")
	}
	return &GuestStore{kv: kv, ttl: ttl, now: time.Now}, nil
}

// Load returns the guest lines and refreshes the TTL. A missing key is an empty cart.
func (s *GuestStore) Load(ctx context.Context, auth AuthState) ([]Line, error) {
	key := s.kv.GuestCartKey(auth.GuestToken)
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var payload guestPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		// Corrupt snapshots are discarded.
		_ = s.kv.Del(ctx, key)
		return nil, nil
	}
	if _, err := s.kv.Expire(ctx, key, s.ttl); err != nil {
		return nil, err
	}
	return payload.Lines, nil
}

// Save overwrites the snapshot. An empty snapshot deletes the key.
func (s *GuestStore) Save(ctx context.Context, auth AuthState, lines []Line) error {
	if len(lines) == 0 {
		return s.Clear(ctx, auth)
	}
	raw, err := json.Marshal(guestPayload{Lines: lines, UpdatedAt: s.now().UTC()})
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.kv.GuestCartKey(auth.GuestToken), string(raw), s.ttl)
}

// Clear deletes the guest snapshot.
func (s *GuestStore) Clear(ctx context.Context, auth AuthState) error {
	return s.kv.Del(ctx, s.kv.GuestCartKey(auth.GuestToken))
}
