// internal/session/store.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"francis-backend/internal/common/database"
	commonerrors "francis-backend/internal/common/errors"
)

const keyPrefix = "francis:session:"

// Store persists sessions in Redis with a sliding TTL: every save renews the
// expiry, so a session dies only after the user goes quiet.
type Store struct {
	redis *database.RedisClient
	ttl   time.Duration
}

func NewStore(redis *database.RedisClient, ttl time.Duration) *Store {
	return &Store{redis: redis, ttl: ttl}
}

func (s *Store) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, keyPrefix+sess.ID, data, s.ttl); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, id string) (*Session, error) {
	data, err := s.redis.Get(ctx, keyPrefix+id)
	if err == redis.Nil {
		return nil, commonerrors.NewSessionNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.redis.Del(ctx, keyPrefix+id)
}
