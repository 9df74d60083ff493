package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-goals/internal/core/domain"
)

var _ domain.GoalRepository = (*CachedGoalRepository)(nil)

const (
	cacheKeyActive  = "goals:list:active"
	cacheKeyAll     = "goals:list:all"
	cacheKeyVersion = "goals:list:version"
)

// CachedGoalRepository caches List results in redis and drops them on every
// write. Cache faults are logged and fall through to the wrapped store.
//
// Every write bumps cacheKeyVersion. A List that misses fills the cache
// inside a WATCH on that key, so a write landing between the store read and
// the fill aborts the fill instead of caching the pre-write list.
type CachedGoalRepository struct {
	next   domain.GoalRepository
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedGoalRepository(next domain.GoalRepository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedGoalRepository {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedGoalRepository{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *CachedGoalRepository) cacheKey(filter domain.GoalFilter) string {
	if filter.ExcludeDeleted {
		return cacheKeyActive
	}
	return cacheKeyAll
}

func (r *CachedGoalRepository) invalidate(ctx context.Context) {
	_, err := r.cache.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, cacheKeyVersion)
		pipe.Del(ctx, cacheKeyActive, cacheKeyAll)
		return nil
	})
	if err != nil {
		r.logger.Warn("cache invalidation failed", zap.Error(err))
	}
}

func (r *CachedGoalRepository) List(ctx context.Context, filter domain.GoalFilter) ([]*domain.Goal, error) {
	key := r.cacheKey(filter)

	var (
		goals    []*domain.Goal
		storeErr error
		loaded   bool
	)

	err := r.cache.Watch(ctx, func(tx *redis.Tx) error {
		if cached, ok := r.readCached(ctx, tx, key); ok {
			goals, loaded = cached, true
			return nil
		}

		goals, storeErr = r.next.List(ctx, filter)
		loaded = true
		if storeErr != nil {
			return nil
		}

		data, err := json.Marshal(goals)
		if err != nil {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		return err
	}, cacheKeyVersion)

	switch {
	case errors.Is(err, redis.TxFailedErr):
		r.logger.Debug("goals changed during list, cache not filled", zap.String("key", key))
	case err != nil:
		r.logger.Warn("cache unavailable", zap.String("key", key), zap.Error(err))
	}

	if storeErr != nil {
		return nil, storeErr
	}
	if !loaded {
		return r.next.List(ctx, filter)
	}
	return goals, nil
}

func (r *CachedGoalRepository) readCached(ctx context.Context, tx *redis.Tx, key string) ([]*domain.Goal, bool) {
	val, err := tx.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var goals []*domain.Goal
	if err := json.Unmarshal([]byte(val), &goals); err == nil {
		return goals, true
	}

	r.logger.Warn("corrupted cache entry, cleaning up", zap.String("key", key))
	if err := tx.Del(ctx, key).Err(); err != nil {
		r.logger.Warn("corrupted cache entry cleanup failed", zap.String("key", key), zap.Error(err))
	}
	return nil, false
}

func (r *CachedGoalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedGoalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	if err := r.next.Create(ctx, goal); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedGoalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	if err := r.next.Update(ctx, goal); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedGoalRepository) SetDeleted(ctx context.Context, id string, at *time.Time) (*domain.Goal, error) {
	goal, err := r.next.SetDeleted(ctx, id, at)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return goal, nil
}

func (r *CachedGoalRepository) SetCompleted(ctx context.Context, id string, at *time.Time) (*domain.Goal, error) {
	goal, err := r.next.SetCompleted(ctx, id, at)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return goal, nil
}
