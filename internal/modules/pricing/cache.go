// README: Redis read-through cache in front of a RuleStore.
package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	cacheKeyPrefix = "logit:rules:"
	// missingMarker caches the absence of a client document.
	missingMarker = "-"
)

// CachedStore serves documents from Redis for up to ttl before asking the
// wrapped store again. Redis failures degrade to uncached reads.
type CachedStore struct {
	inner  RuleStore
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedStore(inner RuleStore, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedStore{inner: inner, redis: rdb, ttl: ttl, logger: logger}
}

func (s *CachedStore) Get(ctx context.Context, clientID string) (map[string]any, error) {
	key := cacheKeyPrefix + clientID

	raw, err := s.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(raw) == missingMarker {
			return nil, ErrRulesNotFound
		}
		if doc, perr := ParseDocumentBytes(clientID, raw); perr == nil {
			return doc, nil
		}
		s.logger.Warn("dropping unreadable cached rules", zap.String("client_id", clientID))
	case !errors.Is(err, redis.Nil):
		s.logger.Warn("rules cache read failed", zap.String("client_id", clientID), zap.Error(err))
	}

	doc, err := s.inner.Get(ctx, clientID)
	if errors.Is(err, ErrRulesNotFound) {
		s.set(ctx, key, []byte(missingMarker))
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if encoded, merr := json.Marshal(doc); merr == nil {
		s.set(ctx, key, encoded)
	}
	return doc, nil
}

// Invalidate drops the cached document for a client.
func (s *CachedStore) Invalidate(ctx context.Context, clientID string) error {
	return s.redis.Del(ctx, cacheKeyPrefix+clientID).Err()
}

func (s *CachedStore) set(ctx context.Context, key string, value []byte) {
	if err := s.redis.Set(ctx, key, value, s.ttl).Err(); err != nil {
		s.logger.Warn("rules cache write failed", zap.String("key", key), zap.Error(err))
	}
}
