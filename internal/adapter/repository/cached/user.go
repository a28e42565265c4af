// Package cached decorates a user repository with a Redis read-through
// cache on FindByID.
package cached

import (
	"context"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-auth-service/internal/adapter/cache"
	domain "user-auth-service/internal/domain/user"
	"user-auth-service/internal/usecase/user"
)

// UserRepository implements user.Repository with caching support.
// Writes go to the wrapped repository first and then invalidate the entry.
type UserRepository struct {
	next  user.Repository
	cache cache.UserCache
	log   *zap.Logger
	group singleflight.Group
}

// NewUserRepository wraps next with c.
func NewUserRepository(next user.Repository, c cache.UserCache, log *zap.Logger) *UserRepository {
	return &UserRepository{next: next, cache: c, log: log}
}

// Create delegates to the wrapped repository.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	return r.next.Create(ctx, u)
}

// FindByID serves from cache when possible. Concurrent misses for the same
// id share one storage read.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	if u := r.fromCache(ctx, id); u != nil {
		return u, nil
	}

	result, err, shared := r.group.Do(strconv.FormatInt(id, 10), func() (any, error) {
		// the read is shared, so one caller going away must not fail the rest
		readCtx := context.WithoutCancel(ctx)

		// another caller may have filled the entry while we queued
		if u := r.fromCache(readCtx, id); u != nil {
			return u, nil
		}

		u, err := r.next.FindByID(readCtx, id)
		if err != nil {
			return nil, err
		}

		if err := r.cache.Set(readCtx, u); err != nil {
			r.log.Warn("failed to cache user", zap.Int64("id", id), zap.Error(err))
		}
		return u, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		r.log.Debug("storage read shared", zap.Int64("id", id))
	}

	// callers must not alias one another's result
	u := *result.(*domain.User)
	return &u, nil
}

// FindByEmail delegates to the wrapped repository. Credential reads are
// never cached.
func (r *UserRepository) FindByEmail(ctx context.Context, email string, projection domain.Projection) (*domain.User, error) {
	return r.next.FindByEmail(ctx, email, projection)
}

// Update writes through and invalidates the entry.
func (r *UserRepository) Update(ctx context.Context, id int64, fields domain.UpdateFields) (*domain.User, error) {
	u, err := r.next.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, id)
	return u, nil
}

// Delete removes the row and invalidates the entry.
func (r *UserRepository) Delete(ctx context.Context, id int64) (*domain.User, error) {
	u, err := r.next.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, id)
	return u, nil
}

// List delegates to the wrapped repository.
func (r *UserRepository) List(ctx context.Context, req domain.PageRequest) (*domain.Page, error) {
	return r.next.List(ctx, req)
}

func (r *UserRepository) fromCache(ctx context.Context, id int64) *domain.User {
	u, err := r.cache.Get(ctx, id)
	if err != nil {
		r.log.Warn("cache get error, falling back to database", zap.Int64("id", id), zap.Error(err))
		return nil
	}
	return u
}

func (r *UserRepository) invalidate(ctx context.Context, id int64) {
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("failed to invalidate cache", zap.Int64("id", id), zap.Error(err))
	}
}
