package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-auth-service/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return &config.Config{
		DB: config.DatabaseConfig{
			Driver:       config.DriverSQLite,
			Name:         filepath.Join(t.TempDir(), "users.db"),
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			AutoMigrate:  true,
		},
		App:    config.AppConfig{HTTPPort: "0", ShutdownTimeoutSeconds: 1},
		Logger: config.LoggerConfig{Level: "warn", SlowQuerySeconds: 1},
		Auth:   config.AuthConfig{JWTSecret: "container-secret-0123", TokenLifetime: time.Hour, BcryptCost: 4},
	}
}

func register(t *testing.T, c *Container) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"name":"Bob","email":"bob@x.com","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c.Router.ServeHTTP(w, req)
	return w.Code
}

func TestNewContainer_Minimal(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, c.Close()) })

	assert.Nil(t, c.RedisClient)
	assert.Equal(t, http.StatusOK, register(t, c))
}

func TestNewContainer_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, _ := strings.Cut(mr.Addr(), ":")

	cfg := testConfig(t)
	cfg.Redis = config.RedisConfig{Host: host, Port: port, PoolSize: 2, CacheEnabled: true, CacheTTL: 60}
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 100, WindowSeconds: 1}

	c, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, c.Close()) })

	require.NotNil(t, c.RedisClient)
	assert.Equal(t, http.StatusOK, register(t, c))

	w := httptest.NewRecorder()
	c.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mr.Exists("user-auth:user:1"))
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.JWTSecret = "short"

	_, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "config validation failed")
}

func TestNewContainer_RedisDown(t *testing.T) {
	cfg := testConfig(t)
	cfg.Redis = config.RedisConfig{Host: "127.0.0.1", Port: "1", CacheEnabled: true, CacheTTL: 60}

	_, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "failed to initialize Redis")
}
