package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"brandscope/internal/config"
	"brandscope/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	analysisKeyPrefix = "brand:analysis:"
	metaKeyPrefix     = "brand:meta:"
	hitsKey           = "brand:hits"
	eventsKey         = "analytics:events"
)

type redisEntry struct {
	Report   models.BrandReport `json:"report"`
	CachedAt time.Time          `json:"cachedAt"`
}

// RedisRepository keeps cached reports as expiring keys, hit counts in a
// sorted set and analytics events in a capped list.
type RedisRepository struct {
	client    *redis.Client
	ttl       time.Duration
	maxEvents int64
}

// NewRedisRepository connects to Redis and checks the connection
func NewRedisRepository(ctx context.Context, cfg config.RedisConfig, ttl time.Duration) (*RedisRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisRepositoryWithClient(client, ttl), nil
}

// NewRedisRepositoryWithClient wraps an existing client
func NewRedisRepositoryWithClient(client *redis.Client, ttl time.Duration) *RedisRepository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisRepository{client: client, ttl: ttl, maxEvents: maxEvents}
}

// GetCachedAnalysis returns the cached report or nil once its key expired
func (r *RedisRepository) GetCachedAnalysis(ctx context.Context, key string) (*models.BrandReport, error) {
	raw, err := r.client.Get(ctx, analysisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var entry redisEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode cached analysis: %w", err)
	}
	if time.Since(entry.CachedAt) >= r.ttl {
		return nil, nil
	}
	return cachedCopy(entry.Report, entry.CachedAt), nil
}

// CacheAnalysis stores the report with the cache TTL and counts a hit
func (r *RedisRepository) CacheAnalysis(ctx context.Context, key string, report *models.BrandReport) error {
	now := time.Now()
	raw, err := json.Marshal(redisEntry{Report: *report, CachedAt: now})
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, analysisKeyPrefix+key, raw, r.ttl)
	pipe.ZIncrBy(ctx, hitsKey, 1, key)
	pipe.HSet(ctx, metaKeyPrefix+key, "brandName", report.BrandName, "lastAccessed", now.Format(time.RFC3339Nano))
	_, err = pipe.Exec(ctx)
	return err
}

// IncrementHitCount bumps the hit counter of key
func (r *RedisRepository) IncrementHitCount(ctx context.Context, key string) error {
	pipe := r.client.TxPipeline()
	pipe.ZIncrBy(ctx, hitsKey, 1, key)
	pipe.HSet(ctx, metaKeyPrefix+key, "lastAccessed", time.Now().Format(time.RFC3339Nano))
	_, err := pipe.Exec(ctx)
	return err
}

// PopularBrands returns the highest scored members of the hit set
func (r *RedisRepository) PopularBrands(ctx context.Context, limit int) ([]models.PopularBrand, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	members, err := r.client.ZRevRangeWithScores(ctx, hitsKey, 0, stop).Result()
	if err != nil {
		return nil, err
	}

	brands := make([]models.PopularBrand, 0, len(members))
	for _, m := range members {
		key, _ := m.Member.(string)
		meta, err := r.client.HGetAll(ctx, metaKeyPrefix+key).Result()
		if err != nil {
			return nil, err
		}
		name := meta["brandName"]
		if name == "" {
			name = key
		}
		lastAccessed, _ := time.Parse(time.RFC3339Nano, meta["lastAccessed"])
		brands = append(brands, models.PopularBrand{
			BrandName:    name,
			HitCount:     int64(m.Score),
			LastAccessed: lastAccessed,
		})
	}
	sortPopular(brands)
	return brands, nil
}

// Record pushes an analytics event onto the capped list
func (r *RedisRepository) Record(ctx context.Context, action, brandName string, fields map[string]any) error {
	raw, err := json.Marshal(models.AnalyticsEvent{
		Action:    action,
		BrandName: brandName,
		Timestamp: time.Now(),
		Fields:    fields,
	})
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, eventsKey, raw)
	pipe.LTrim(ctx, eventsKey, 0, r.maxEvents-1)
	_, err = pipe.Exec(ctx)
	return err
}

// UsageStats summarises the retained events since the given time
func (r *RedisRepository) UsageStats(ctx context.Context, since time.Time) (*models.UsageStats, error) {
	raws, err := r.client.LRange(ctx, eventsKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	events := make([]models.AnalyticsEvent, 0, len(raws))
	for _, raw := range raws {
		var e models.AnalyticsEvent
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			continue
		}
		events = append(events, e)
	}
	return usageFromEvents(events, since), nil
}

// Close closes the Redis client
func (r *RedisRepository) Close(ctx context.Context) error {
	return r.client.Close()
}
