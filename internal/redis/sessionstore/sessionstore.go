// Package sessionstore maps opaque session tokens to user ids in Redis.
package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrNoSession = errors.New("session not found or expired")

const keyPrefix = "sess:"

func key(token string) string { return keyPrefix + token }

type Store struct {
	rdb      redis.Cmdable
	ttl      time.Duration
	newToken func() string
}

func New(rdb redis.Cmdable, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl, newToken: uuid.NewString}
}

// Create issues a fresh token for userID.
func (s *Store) Create(ctx context.Context, userID int64) (string, error) {
	token := s.newToken()
	if err := s.rdb.Set(ctx, key(token), strconv.FormatInt(userID, 10), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	zap.L().Debug("session.created", zap.Int64("user_id", userID))
	return token, nil
}

// Lookup returns the user id behind token and slides its expiry.
func (s *Store) Lookup(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, ErrNoSession
	}
	val, err := s.rdb.GetEx(ctx, key(token), s.ttl).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNoSession
		}
		return 0, fmt.Errorf("load session: %w", err)
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		zap.L().Warn("session.corrupt", zap.String("value", val))
		return 0, ErrNoSession
	}
	return id, nil
}

// Delete is a no-op for unknown tokens.
func (s *Store) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.rdb.Del(ctx, key(token)).Err(); err != nil {
		return fmt.Errorf("drop session: %w", err)
	}
	return nil
}
