package presence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const lastSeenKey = "presence:last_seen"

// Store records when each owner was last active. Owners are touched on
// realtime connect and on every mutation; the admin aggregator reads the
// full map to derive active/inactive counts.
type Store struct {
	client *redis.Client
}

// NewStore returns redis-backed store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Touch records activity for the owner at the given instant.
func (s *Store) Touch(ctx context.Context, ownerID string, at time.Time) error {
	return s.client.HSet(ctx, lastSeenKey, ownerID, at.UTC().Format(time.RFC3339Nano)).Err()
}

// LastSeen returns the owner's last activity, reporting false when the owner
// has never been seen.
func (s *Store) LastSeen(ctx context.Context, ownerID string) (time.Time, bool, error) {
	raw, err := s.client.HGet(ctx, lastSeenKey, ownerID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// All returns last-seen instants for every owner ever touched.
func (s *Store) All(ctx context.Context) (map[string]time.Time, error) {
	raw, err := s.client.HGetAll(ctx, lastSeenKey).Result()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]time.Time, len(raw))
	for owner, value := range raw {
		t, err := time.Parse(time.RFC3339Nano, value)
		if err != nil {
			continue
		}
		seen[owner] = t
	}
	return seen, nil
}
