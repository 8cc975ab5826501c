package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-shop-api.git/internal/redisx"
)

var ErrTokenInvalid = errors.New("invalid or expired token")

// TokenStore issues and resolves opaque bearer tokens plus one-shot
// password reset tokens.
type TokenStore interface {
	Issue(ctx context.Context, userID string) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error

	IssueReset(ctx context.Context, userID string) (string, error)
	// ResolveReset consumes the token: a second resolve fails.
	ResolveReset(ctx context.Context, token string) (string, error)
}

type RedisTokenStore struct {
	RDB *redis.Client
}

func (s *RedisTokenStore) Issue(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	key := fmt.Sprintf(redisx.KeyAuthToken, token)
	if err := s.RDB.Set(ctx, key, userID, redisx.TTLAuthToken).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisTokenStore) Resolve(ctx context.Context, token string) (string, error) {
	key := fmt.Sprintf(redisx.KeyAuthToken, token)
	userID, err := s.RDB.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenInvalid
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *RedisTokenStore) Revoke(ctx context.Context, token string) error {
	return s.RDB.Del(ctx, fmt.Sprintf(redisx.KeyAuthToken, token)).Err()
}

func (s *RedisTokenStore) IssueReset(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	key := fmt.Sprintf(redisx.KeyPasswordReset, token)
	if err := s.RDB.Set(ctx, key, userID, redisx.TTLPasswordReset).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisTokenStore) ResolveReset(ctx context.Context, token string) (string, error) {
	key := fmt.Sprintf(redisx.KeyPasswordReset, token)
	userID, err := s.RDB.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenInvalid
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}
