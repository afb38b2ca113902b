package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/nainix/marketplace-backend/internal/models"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached data
	CacheKeyPrefix = "cache:"
	// DefaultCacheTTL bounds how stale a listing can get if an invalidation is lost.
	DefaultCacheTTL = 30 * time.Second
	MinCacheTTL     = time.Second
	MaxCacheTTL     = 10 * time.Minute

	jobsListKey = "jobs:all"
)

// JobCache holds the raw, un-normalized job list. Featured expiry is applied
// after every read, so a cached list never shows an expired boost.
type JobCache interface {
	GetJobs(ctx context.Context) ([]models.Job, bool)
	SetJobs(ctx context.Context, jobs []models.Job)
	Invalidate(ctx context.Context)
}

func clampTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultCacheTTL
	}
	if ttl < MinCacheTTL {
		return MinCacheTTL
	}
	if ttl > MaxCacheTTL {
		return MaxCacheTTL
	}
	return ttl
}

// RedisCache shares the job list between instances. Redis failures are
// logged and treated as misses.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: clampTTL(ttl)}
}

func (c *RedisCache) GetJobs(ctx context.Context) ([]models.Job, bool) {
	val, err := c.client.Get(ctx, CacheKeyPrefix+jobsListKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.WarnContext(ctx, "job cache read failed", "error", err)
		}
		return nil, false
	}

	var jobs []models.Job
	if err := json.Unmarshal(val, &jobs); err != nil {
		slog.WarnContext(ctx, "job cache entry corrupt", "error", err)
		return nil, false
	}
	return jobs, true
}

func (c *RedisCache) SetJobs(ctx context.Context, jobs []models.Job) {
	data, err := json.Marshal(jobs)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, CacheKeyPrefix+jobsListKey, data, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "job cache write failed", "error", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, CacheKeyPrefix+jobsListKey).Err(); err != nil {
		slog.WarnContext(ctx, "job cache invalidate failed", "error", err)
	}
}

// LocalCache keeps the job list in process memory for single-instance
// deployments without Redis.
type LocalCache struct {
	c *gocache.Cache
}

func NewLocalCache(ttl time.Duration) *LocalCache {
	ttl = clampTTL(ttl)
	return &LocalCache{c: gocache.New(ttl, 2*ttl)}
}

func (c *LocalCache) GetJobs(_ context.Context) ([]models.Job, bool) {
	v, ok := c.c.Get(jobsListKey)
	if !ok {
		return nil, false
	}
	jobs := v.([]models.Job)
	out := make([]models.Job, len(jobs))
	copy(out, jobs)
	return out, true
}

func (c *LocalCache) SetJobs(_ context.Context, jobs []models.Job) {
	stored := make([]models.Job, len(jobs))
	copy(stored, jobs)
	c.c.SetDefault(jobsListKey, stored)
}

func (c *LocalCache) Invalidate(_ context.Context) {
	c.c.Delete(jobsListKey)
}
