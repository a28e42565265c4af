package di

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-auth-service/cmd/api/infrastructure"
	"user-auth-service/internal/adapter/cache"
	"user-auth-service/internal/adapter/db/gormdb"
	"user-auth-service/internal/adapter/events"
	"user-auth-service/internal/adapter/gin/handler"
	"user-auth-service/internal/adapter/gin/middleware"
	"user-auth-service/internal/adapter/gin/pipeline"
	"user-auth-service/internal/adapter/gin/response"
	"user-auth-service/internal/adapter/gin/router"
	"user-auth-service/internal/adapter/repository/cached"
	"user-auth-service/internal/config"
	"user-auth-service/internal/usecase/user"
	redisclient "user-auth-service/pkg/redis"
	"user-auth-service/pkg/security"
	"user-auth-service/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client // nil unless the cache or rate limiter is enabled
	Events      events.Publisher
	UserUC      user.Usecase
	Router      *gin.Engine
}

// NewContainer creates and initializes all application dependencies.
// Resources opened before a failure are closed again.
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (c *Container, err error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c = &Container{Config: cfg, Logger: l}
	defer func() {
		if err != nil {
			_ = c.Close()
			c = nil
		}
	}()

	c.DB, err = infrastructure.NewDatabase(ctx, cfg, l)
	if err != nil {
		return c, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.RedisRequired() {
		c.RedisClient, err = infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			return c, fmt.Errorf("failed to initialize Redis: %w", err)
		}
	}

	c.Events, err = infrastructure.NewEventPublisher(cfg, l)
	if err != nil {
		return c, fmt.Errorf("failed to initialize events: %w", err)
	}

	dbRepo := gormdb.NewUserRepo(c.DB, l)
	var repo user.Repository = dbRepo
	if cfg.Redis.CacheEnabled {
		userCache := cache.NewRedisUserCache(
			c.RedisClient.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		repo = cached.NewUserRepository(dbRepo, userCache, l)
	}

	tokens := security.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifetime)
	c.UserUC = user.New(repo, security.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, c.Events, l)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(
			c.RedisClient.Client,
			middleware.RateLimiterConfig{
				RequestsPerSecond: float64(cfg.RateLimit.RequestsPerSecond),
				WindowSeconds:     cfg.RateLimit.WindowSeconds,
				Enabled:           true,
			},
			l,
		)
	}

	p := pipeline.New(
		validation.New(),
		middleware.NewAuthenticator(tokens, l),
		response.NewResponder(l),
		l,
	)

	c.Router = router.SetupRouter(
		p,
		handler.NewAuthHandler(c.UserUC, l),
		handler.NewUserHandler(c.UserUC, l),
		rateLimiter,
		dbRepo,
		l,
	)

	return c, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.Events != nil {
		if err := c.Events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event publisher: %w", err))
		}
	}

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
