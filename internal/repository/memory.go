package repository

import (
	"context"
	"maps"
	"sync"
	"time"

	"brandscope/internal/models"
)

type memoryEntry struct {
	brandName    string
	report       models.BrandReport
	cachedAt     time.Time
	hitCount     int64
	lastAccessed time.Time
}

// MemoryRepository keeps the cache and the analytics log in process memory
type MemoryRepository struct {
	mu        sync.RWMutex
	ttl       time.Duration
	now       func() time.Time
	entries   map[string]*memoryEntry
	events    []models.AnalyticsEvent
	maxEvents int
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MemoryRepository{
		ttl:       ttl,
		now:       time.Now,
		entries:   make(map[string]*memoryEntry),
		maxEvents: maxEvents,
	}
}

// SetClock replaces the time source
func (r *MemoryRepository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// GetCachedAnalysis returns a valid cached report or nil
func (r *MemoryRepository) GetCachedAnalysis(ctx context.Context, key string) (*models.BrandReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[key]
	if !ok || r.now().Sub(entry.cachedAt) >= r.ttl {
		return nil, nil
	}
	return cachedCopy(entry.report, entry.cachedAt), nil
}

// CacheAnalysis stores report under key, replacing any previous report
func (r *MemoryRepository) CacheAnalysis(ctx context.Context, key string, report *models.BrandReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	entry, ok := r.entries[key]
	if !ok {
		entry = &memoryEntry{}
		r.entries[key] = entry
	}
	entry.brandName = report.BrandName
	entry.report = *report
	entry.cachedAt = now
	entry.lastAccessed = now
	entry.hitCount++
	return nil
}

// IncrementHitCount bumps the hit counter of an existing entry
func (r *MemoryRepository) IncrementHitCount(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.entries[key]; ok {
		entry.hitCount++
		entry.lastAccessed = r.now()
	}
	return nil
}

// PopularBrands returns cached brands ordered by hit count
func (r *MemoryRepository) PopularBrands(ctx context.Context, limit int) ([]models.PopularBrand, error) {
	r.mu.RLock()
	brands := make([]models.PopularBrand, 0, len(r.entries))
	for _, e := range r.entries {
		brands = append(brands, models.PopularBrand{
			BrandName:    e.brandName,
			HitCount:     e.hitCount,
			LastAccessed: e.lastAccessed,
		})
	}
	r.mu.RUnlock()

	sortPopular(brands)
	if limit > 0 && len(brands) > limit {
		brands = brands[:limit]
	}
	return brands, nil
}

// Record appends an analytics event, dropping the oldest once the log is full
func (r *MemoryRepository) Record(ctx context.Context, action, brandName string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, models.AnalyticsEvent{
		Action:    action,
		BrandName: brandName,
		Timestamp: r.now(),
		Fields:    maps.Clone(fields),
	})
	if over := len(r.events) - r.maxEvents; over > 0 {
		r.events = r.events[over:]
	}
	return nil
}

// Events returns a copy of the recorded analytics events
func (r *MemoryRepository) Events() []models.AnalyticsEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.AnalyticsEvent(nil), r.events...)
}

// UsageStats summarises events recorded at or after since
func (r *MemoryRepository) UsageStats(ctx context.Context, since time.Time) (*models.UsageStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return usageFromEvents(r.events, since), nil
}

// Close is a no-op
func (r *MemoryRepository) Close(ctx context.Context) error {
	return nil
}
