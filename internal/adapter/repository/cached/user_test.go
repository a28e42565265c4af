package cached

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-auth-service/internal/adapter/cache"
	domain "user-auth-service/internal/domain/user"
	apperrors "user-auth-service/pkg/errors"
)

// memRepo is a minimal in-memory repository that counts FindByID calls.
type memRepo struct {
	mu    sync.Mutex
	users map[int64]domain.User
	reads atomic.Int64
	delay time.Duration
}

func newMemRepo(users ...domain.User) *memRepo {
	r := &memRepo{users: make(map[int64]domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = int64(len(r.users) + 1)
	r.users[u.ID] = *u
	return u, nil
}

func (r *memRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	r.reads.Add(1)
	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user", "")
	}
	return &u, nil
}

func (r *memRepo) FindByEmail(context.Context, string, domain.Projection) (*domain.User, error) {
	return nil, nil
}

func (r *memRepo) Update(_ context.Context, id int64, f domain.UpdateFields) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user", "")
	}
	if f.Name != nil {
		u.Name = *f.Name
	}
	r.users[id] = u
	return &u, nil
}

func (r *memRepo) Delete(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user", "")
	}
	delete(r.users, id)
	return &u, nil
}

func (r *memRepo) List(context.Context, domain.PageRequest) (*domain.Page, error) {
	return &domain.Page{}, nil
}

func setup(t *testing.T, users ...domain.User) (*UserRepository, *memRepo, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := zaptest.NewLogger(t)
	inner := newMemRepo(users...)
	return NewUserRepository(inner, cache.NewRedisUserCache(client, time.Minute, log), log), inner, mr
}

func TestFindByID_ReadThrough(t *testing.T) {
	repo, inner, mr := setup(t, domain.User{ID: 1, Name: "Bob"})
	ctx := context.Background()

	first, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Bob", first.Name)
	assert.True(t, mr.Exists(cache.Key(1)))

	second, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Bob", second.Name)
	assert.Equal(t, int64(1), inner.reads.Load())
}

func TestFindByID_NotFoundIsNotCached(t *testing.T) {
	repo, _, mr := setup(t)

	_, err := repo.FindByID(context.Background(), 9)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.False(t, mr.Exists(cache.Key(9)))
}

func TestFindByID_SingleFlight(t *testing.T) {
	repo, inner, _ := setup(t, domain.User{ID: 1, Name: "Bob"})
	inner.delay = 50 * time.Millisecond

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := repo.FindByID(context.Background(), 1)
			assert.NoError(t, err)
			assert.Equal(t, "Bob", u.Name)
		}()
	}
	wg.Wait()

	assert.Less(t, inner.reads.Load(), int64(10))
}

func TestFindByID_CanceledCallerDoesNotFailSharedRead(t *testing.T) {
	repo, inner, _ := setup(t, domain.User{ID: 1, Name: "Bob"})
	inner.delay = 100 * time.Millisecond

	firstCtx, cancel := context.WithCancel(context.Background())
	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_, _ = repo.FindByID(firstCtx, 1)
	}()
	require.Eventually(t, func() bool { return inner.reads.Load() == 1 }, time.Second, time.Millisecond)

	secondErr := make(chan error, 1)
	go func() {
		_, err := repo.FindByID(context.Background(), 1)
		secondErr <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	assert.NoError(t, <-secondErr)
	<-firstDone
	assert.Equal(t, int64(1), inner.reads.Load())
}

func TestFindByID_CacheDownFallsBack(t *testing.T) {
	repo, inner, mr := setup(t, domain.User{ID: 1, Name: "Bob"})
	mr.Close()

	u, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Bob", u.Name)
	assert.Equal(t, int64(1), inner.reads.Load())
}

func TestUpdate_Invalidates(t *testing.T) {
	repo, _, mr := setup(t, domain.User{ID: 1, Name: "Bob"})
	ctx := context.Background()

	_, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)

	name := "Robert"
	_, err = repo.Update(ctx, 1, domain.UpdateFields{Name: &name})
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.Key(1)))

	u, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Robert", u.Name)
}

func TestDelete_Invalidates(t *testing.T) {
	repo, _, mr := setup(t, domain.User{ID: 1, Name: "Bob"})
	ctx := context.Background()

	_, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)

	_, err = repo.Delete(ctx, 1)
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.Key(1)))

	_, err = repo.FindByID(ctx, 1)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
