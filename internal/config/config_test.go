package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef"

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DriverMySQL, cfg.DB.Driver)
	assert.Equal(t, 5, cfg.DB.MaxOpenConns)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.Equal(t, time.Hour, cfg.Auth.TokenLifetime)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.False(t, cfg.Redis.CacheEnabled)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.False(t, cfg.Events.Enabled)
	assert.False(t, cfg.RedisRequired())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("TOKEN_LIFETIME", "15m")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("EVENTS_ENABLED", "true")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenLifetime)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.True(t, cfg.RedisRequired())
	assert.True(t, cfg.Events.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_ReadsAppEnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "JWT_SECRET=file-secret-0123456789\nDB_DRIVER=sqlite\nDB_NAME=users.db\nHTTP_PORT=9090\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "users.db", cfg.DB.DSN())
	assert.Equal(t, "9090", cfg.App.HTTPPort)
	assert.Equal(t, "file-secret-0123456789", cfg.Auth.JWTSecret)
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "unknown driver", mutate: func(c *Config) { c.DB.Driver = "oracle" }, wantErr: "DB_DRIVER"},
		{name: "short secret", mutate: func(c *Config) { c.Auth.JWTSecret = "short" }, wantErr: "JWT_SECRET"},
		{name: "missing secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: "JWT_SECRET"},
		{name: "zero lifetime", mutate: func(c *Config) { c.Auth.TokenLifetime = 0 }, wantErr: "TOKEN_LIFETIME"},
		{name: "bcrypt cost too low", mutate: func(c *Config) { c.Auth.BcryptCost = 2 }, wantErr: "BCRYPT_COST"},
		{name: "idle above open", mutate: func(c *Config) { c.DB.MaxIdleConns = 50 }, wantErr: "DB_MAX_IDLE_CONNS"},
		{name: "no pool", mutate: func(c *Config) { c.DB.MaxOpenConns = 0 }, wantErr: "DB_MAX_OPEN_CONNS"},
		{name: "cache without ttl", mutate: func(c *Config) {
			c.Redis.CacheEnabled = true
			c.Redis.CacheTTL = 0
		}, wantErr: "REDIS_CACHE_TTL"},
		{name: "rate limit without rps", mutate: func(c *Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.RequestsPerSecond = 0
		}, wantErr: "RATE_LIMIT_RPS"},
		{name: "events without queue", mutate: func(c *Config) {
			c.Events.Enabled = true
			c.Events.Queue = ""
		}, wantErr: "EVENTS_QUEUE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := validConfig(t)
	cfg.DB.Driver = "oracle"
	cfg.Auth.JWTSecret = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestDSN(t *testing.T) {
	pg := DatabaseConfig{Driver: DriverPostgres, Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable", pg.DSN())

	my := DatabaseConfig{Driver: DriverMySQL, Host: "db", Port: "3306", User: "u", Password: "p", Name: "n"}
	assert.Equal(t, "u:p@tcp(db:3306)/n?charset=utf8mb4&parseTime=True&loc=UTC", my.DSN())
}
