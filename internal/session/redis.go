package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pribylovaa/go-comments-widget/internal/models"
)

// RedisStore - токен в Redis под ключом <prefix>session:<scope> с TTL в год.
type RedisStore struct {
	rdb *redis.Client
	key string
}

// NewRedisStore создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// scope разделяет сессии разных виджетов (обычно host страницы).
// Если prefix пустой - используется "comentario:".
func NewRedisStore(ctx context.Context, redisURL, prefix, scope string) (*RedisStore, error) {
	const op = "session/redis/NewRedisStore"

	if prefix == "" {
		prefix = "comentario:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RedisStore{rdb: rdb, key: prefix + "session:" + scope}, nil
}

func (s *RedisStore) Token(ctx context.Context) (string, error) {
	const op = "session/redis/Token"

	tok, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) || (err == nil && tok == "") {
		return models.AnonymousToken, nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return tok, nil
}

func (s *RedisStore) SetToken(ctx context.Context, token string) error {
	const op = "session/redis/SetToken"

	if err := s.rdb.Set(ctx, s.key, token, TTL).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	const op = "session/redis/Clear"

	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }
