package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"brandscope/internal/models"
)

// DefaultCacheTTL is how long a cached brand report stays valid
const DefaultCacheTTL = 7 * 24 * time.Hour

// maxEvents caps the analytics events a list-backed log retains
const maxEvents = 10000

// Cache stores brand reports keyed by normalized brand name
type Cache interface {
	// GetCachedAnalysis returns the cached report with Cached and CacheTime
	// set, or nil if there is no entry or it is older than the TTL.
	GetCachedAnalysis(ctx context.Context, key string) (*models.BrandReport, error)
	CacheAnalysis(ctx context.Context, key string, report *models.BrandReport) error
	IncrementHitCount(ctx context.Context, key string) error
	PopularBrands(ctx context.Context, limit int) ([]models.PopularBrand, error)
}

// Analytics is an append-only usage event log
type Analytics interface {
	Record(ctx context.Context, action, brandName string, fields map[string]any) error
	UsageStats(ctx context.Context, since time.Time) (*models.UsageStats, error)
}

// Repository combines the cache and the analytics log of one backend
type Repository interface {
	Cache
	Analytics
	Close(ctx context.Context) error
}

// CacheKey normalizes a brand name into its cache key
func CacheKey(brandName string) string {
	return strings.ToLower(strings.TrimSpace(brandName))
}

// usageFromEvents folds analytics events into usage stats. Only events at or
// after since are counted.
func usageFromEvents(events []models.AnalyticsEvent, since time.Time) *models.UsageStats {
	stats := &models.UsageStats{}
	brands := make(map[string]struct{})
	for _, e := range events {
		if e.Timestamp.Before(since) {
			continue
		}
		switch e.Action {
		case models.ActionCacheHit:
			stats.CacheHits++
		case models.ActionAnalysisCached:
			stats.NewAnalyses++
		}
		if e.BrandName != "" {
			brands[e.BrandName] = struct{}{}
		}
	}
	stats.TotalAnalyses = stats.CacheHits + stats.NewAnalyses
	stats.UniqueBrands = len(brands)
	return stats
}

func sortPopular(brands []models.PopularBrand) {
	sort.SliceStable(brands, func(i, j int) bool {
		if brands[i].HitCount != brands[j].HitCount {
			return brands[i].HitCount > brands[j].HitCount
		}
		return brands[i].BrandName < brands[j].BrandName
	})
}

func cachedCopy(report models.BrandReport, cachedAt time.Time) *models.BrandReport {
	report.Cached = true
	report.CacheTime = &cachedAt
	return &report
}
