package session

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pribylovaa/go-comments-widget/internal/models"
)

// Интеграционные тесты RedisStore поднимают redis:7-alpine через testcontainers-go.
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/session -v -race -count=1

// startRedis - поднимает Redis и возвращает его URL.
// Если переменная окружения GO_TEST_INTEGRATION не установлена - тест пропускается.
func startRedis(t *testing.T) string {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

func TestRedisStore_Lifecycle(t *testing.T) {
	url := startRedis(t)
	ctx := context.Background()

	s, err := NewRedisStore(ctx, url, "test:", "blog.example.com")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, models.AnonymousToken, tok)

	require.NoError(t, s.SetToken(ctx, "sess-1"))
	tok, err = s.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, "sess-1", tok)

	// Ключ живёт год.
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	raw := redis.NewClient(opt)
	t.Cleanup(func() { _ = raw.Close() })

	ttl, err := raw.TTL(ctx, "test:session:blog.example.com").Result()
	require.NoError(t, err)
	require.InDelta(t, TTL.Seconds(), ttl.Seconds(), 5)

	require.NoError(t, s.Clear(ctx))
	tok, err = s.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, models.AnonymousToken, tok)
}

func TestRedisStore_ScopesAreIsolated(t *testing.T) {
	url := startRedis(t)
	ctx := context.Background()

	a, err := NewRedisStore(ctx, url, "", "a.test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	b, err := NewRedisStore(ctx, url, "", "b.test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	require.NoError(t, a.SetToken(ctx, "only-a"))

	tok, err := b.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, models.AnonymousToken, tok)
}

func TestNewRedisStore_BadURL(t *testing.T) {
	t.Parallel()

	_, err := NewRedisStore(context.Background(), "://nope", "", "x")
	require.Error(t, err)
}
