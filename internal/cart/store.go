package cart

import (
	"context"
	"time"

	"github.com/spectra-eyewear/spectra-backend/pkg/config"
	"github.com/spectra-eyewear/spectra-backend/pkg/redis"
	"github.com/spectra-eyewear/spectra-backend/pkg/types"
)

// StalenessWindow is how long a persisted cart stays loadable.
const StalenessWindow = 7 * 24 * time.Hour

// Record is the persisted cart blob. Timestamp is epoch milliseconds so the
// format stays portable across storage backends.
type Record struct {
	Items     []types.LineItem `json:"items"`
	Timestamp int64            `json:"timestamp"`
	Version   string           `json:"version"`
}

// SlotStore is the durable key-value slot holding one cart blob per token.
type SlotStore interface {
	Read(ctx context.Context, token string) (string, bool, error)
	Write(ctx context.Context, token, blob string) error
	Delete(ctx context.Context, token string) error
}

type redisSlotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSlotStore binds the slot store to the shared redis client. The TTL
// is storage hygiene only; staleness is enforced by the service against the
// recorded timestamp.
func NewRedisSlotStore(client *redis.Client, cfg config.CartConfig) SlotStore {
	ttl := cfg.SlotTTL
	if ttl <= 0 {
		ttl = 2 * StalenessWindow
	}
	return &redisSlotStore{client: client, ttl: ttl}
}

func (s *redisSlotStore) Read(ctx context.Context, token string) (string, bool, error) {
	blob, err := s.client.Get(ctx, s.client.CartSlotKey(token))
	if err != nil {
		if redis.IsMissing(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return blob, true, nil
}

func (s *redisSlotStore) Write(ctx context.Context, token, blob string) error {
	return s.client.Set(ctx, s.client.CartSlotKey(token), blob, s.ttl)
}

func (s *redisSlotStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.client.CartSlotKey(token))
}
