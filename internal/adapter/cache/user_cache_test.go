package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-auth-service/internal/domain/user"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

func TestRedisUserCache_SetGet(t *testing.T) {
	client, _ := setupTestRedis(t)
	c := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))
	ctx := context.Background()

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, c.Set(ctx, &domain.User{ID: 1, Name: "Bob", Email: "bob@x.com", CreatedAt: created, UpdatedAt: created}))

	got, err := c.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Bob", got.Name)
	assert.Equal(t, "bob@x.com", got.Email)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestRedisUserCache_NeverStoresPasswordHash(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))

	require.NoError(t, c.Set(context.Background(), &domain.User{ID: 2, Name: "Bob", PasswordHash: "$2a$10$secret"}))

	raw, err := mr.Get(Key(2))
	require.NoError(t, err)
	assert.NotContains(t, raw, "secret")
	assert.NotContains(t, raw, "password")
}

func TestRedisUserCache_Miss(t *testing.T) {
	client, _ := setupTestRedis(t)
	c := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))

	got, err := c.Get(context.Background(), 404)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisUserCache_TTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, &domain.User{ID: 3, Name: "Bob"}))
	assert.Equal(t, time.Minute, mr.TTL(Key(3)))

	mr.FastForward(2 * time.Minute)
	got, err := c.Get(ctx, 3)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisUserCache_Delete(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, &domain.User{ID: 4}))
	require.NoError(t, c.Delete(ctx, 4))
	assert.False(t, mr.Exists(Key(4)))
}

func TestRedisUserCache_SetNil(t *testing.T) {
	client, _ := setupTestRedis(t)
	c := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))

	err := c.Set(context.Background(), nil)
	assert.ErrorContains(t, err, "cannot cache nil user")
}

func TestRedisUserCache_CorruptEntry(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))
	require.NoError(t, mr.Set(Key(5), "{not json"))

	_, err := c.Get(context.Background(), 5)
	assert.Error(t, err)
}

func TestRedisUserCache_ServerDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))
	mr.Close()

	_, err := c.Get(context.Background(), 1)
	assert.Error(t, err)
}
