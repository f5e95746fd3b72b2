package brand

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandscope/internal/analyzer"
	"brandscope/internal/models"
	"brandscope/internal/monitoring"
	"brandscope/internal/repository"
	"brandscope/internal/scoring"
	"brandscope/internal/signals"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeDomains struct {
	available map[string]bool
	failAll   bool
	panics    bool
	calls     atomic.Int32
}

func (f *fakeDomains) CheckDomains(ctx context.Context, domains []string) []models.DomainCheckResult {
	f.calls.Add(1)
	if f.panics {
		panic("registrar exploded")
	}
	out := make([]models.DomainCheckResult, len(domains))
	for i, d := range domains {
		out[i] = models.DomainCheckResult{Domain: d, Available: f.available[d], Error: f.failAll}
	}
	return out
}

type fakeSearch struct {
	results []models.SearchResult
	queries []string
	calls   atomic.Int32
}

func (f *fakeSearch) Search(ctx context.Context, query string) []models.SearchResult {
	f.calls.Add(1)
	f.queries = append(f.queries, query)
	return f.results
}

type fakeSocial struct {
	available bool
	failAll   bool
	calls     atomic.Int32
}

func (f *fakeSocial) CheckHandles(ctx context.Context, brand string) []models.SocialHandleResult {
	f.calls.Add(1)
	var out []models.SocialHandleResult
	for _, p := range []string{"Instagram", "Twitter", "TikTok", "LinkedIn", "YouTube"} {
		out = append(out, models.SocialHandleResult{
			Platform:  p,
			Handle:    "@" + brand,
			Available: f.available && !f.failAll,
			Error:     f.failAll,
		})
	}
	return out
}

type fakeScanner struct {
	report *models.DeepScanReport
	err    error
	urls   []string
}

func (f *fakeScanner) Scan(ctx context.Context, brandName string, urls []string) (*models.DeepScanReport, error) {
	f.urls = urls
	if f.err != nil {
		return nil, f.err
	}
	f.report.BrandName = brandName
	return f.report, nil
}

type brokenCache struct {
	*repository.MemoryRepository
}

func (b brokenCache) GetCachedAnalysis(ctx context.Context, key string) (*models.BrandReport, error) {
	return nil, errors.New("connection refused")
}

func (b brokenCache) CacheAnalysis(ctx context.Context, key string, report *models.BrandReport) error {
	return errors.New("connection refused")
}

type fixture struct {
	domains *fakeDomains
	search  *fakeSearch
	social  *fakeSocial
	scanner *fakeScanner
	repo    *repository.MemoryRepository
	metrics *monitoring.Metrics
	service *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		domains: &fakeDomains{available: map[string]bool{"acme.com": true}},
		search:  &fakeSearch{},
		social:  &fakeSocial{available: true},
		scanner: &fakeScanner{},
		repo:    repository.NewMemoryRepository(time.Hour),
		metrics: monitoring.NewMetrics(prometheus.NewRegistry()),
	}
	f.service = f.build(f.repo)
	return f
}

func (f *fixture) build(cache repository.Cache) *Service {
	return NewService(Dependencies{
		Domains:   f.domains,
		Search:    f.search,
		Social:    f.social,
		Scanner:   f.scanner,
		Cache:     cache,
		Analytics: f.repo,
		Metrics:   f.metrics,
	}, testLogger())
}

func actions(repo *repository.MemoryRepository) []string {
	var out []string
	for _, e := range repo.Events() {
		out = append(out, e.Action)
	}
	return out
}

func TestNormalizeBrandName(t *testing.T) {
	name, err := NormalizeBrandName("  AcMe ")
	require.NoError(t, err)
	assert.Equal(t, "acme", name)

	_, err = NormalizeBrandName("   ")
	assert.ErrorIs(t, err, ErrInvalidBrandName)
}

func TestAnalyzeBrandFreshThenCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.AnalyzeBrand(ctx, "  ACME ")
	require.NoError(t, err)

	assert.Equal(t, "acme", first.BrandName)
	assert.False(t, first.Cached)
	assert.Nil(t, first.CacheTime)
	assert.Equal(t, 100, first.Scores.DomainStrength)
	assert.Equal(t, 100, first.Scores.CompetitionIntensity)
	assert.Equal(t, 100, first.Scores.SEODifficulty)
	assert.GreaterOrEqual(t, first.OverallScore, 90)
	assert.Equal(t, scoring.RecommendationExcellent, first.Recommendation)
	assert.Len(t, first.DetailedAnalysis.DomainAvailability, len(CandidateTLDs))
	assert.Equal(t, "acme.com", first.DetailedAnalysis.DomainAvailability[0].Domain)
	assert.True(t, first.DetailedAnalysis.DomainAvailability[0].IsAvailable)
	assert.NotNil(t, first.DetailedAnalysis.GoogleCompetition.TopResults)
	assert.NotEmpty(t, first.KeyInsights)
	assert.Equal(t, []string{"acme"}, f.search.queries)

	second, err := f.service.AnalyzeBrand(ctx, "acme")
	require.NoError(t, err)

	assert.True(t, second.Cached)
	require.NotNil(t, second.CacheTime)
	assert.Equal(t, first.Scores, second.Scores)
	assert.Equal(t, first.OverallScore, second.OverallScore)

	assert.Equal(t, int32(1), f.domains.calls.Load())
	assert.Equal(t, int32(1), f.search.calls.Load())
	assert.Equal(t, int32(1), f.social.calls.Load())

	assert.Equal(t, []string{
		models.ActionAnalysisStarted,
		models.ActionAnalysisCached,
		models.ActionAnalysisCompleted,
		models.ActionCacheHit,
	}, actions(f.repo))

	completed := f.repo.Events()[2]
	assert.Equal(t, first.OverallScore, completed.Fields["overallScore"])
	assert.Equal(t, false, completed.Fields["hasErrors"])

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AnalysesTotal.WithLabelValues("fresh")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AnalysesTotal.WithLabelValues("cache_hit")))
}

func TestAnalyzeBrandInvalidName(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.AnalyzeBrand(context.Background(), " ")
	assert.ErrorIs(t, err, ErrInvalidBrandName)
	assert.Equal(t, int32(0), f.domains.calls.Load())
	assert.Empty(t, f.repo.Events())
}

func TestAnalyzeBrandDegradedSignals(t *testing.T) {
	f := newFixture(t)
	f.domains.failAll = true
	f.social.failAll = true

	report, err := f.service.AnalyzeBrand(context.Background(), "acme")
	require.NoError(t, err)

	assert.Equal(t, 10, report.Scores.DomainStrength)
	assert.Equal(t, 0, report.Scores.SocialMediaAvailability)
	for _, d := range report.DetailedAnalysis.DomainAvailability {
		assert.False(t, d.IsAvailable)
		assert.True(t, d.Error)
	}
	assert.GreaterOrEqual(t, report.OverallScore, 0)
	assert.LessOrEqual(t, report.OverallScore, 100)

	events := f.repo.Events()
	require.Len(t, events, 3)
	assert.Equal(t, true, events[2].Fields["hasErrors"])
}

func TestAnalyzeBrandPanicFailsRequest(t *testing.T) {
	f := newFixture(t)
	f.domains.panics = true

	report, err := f.service.AnalyzeBrand(context.Background(), "acme")
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrAnalysisFailed)

	assert.Equal(t, []string{models.ActionAnalysisStarted, models.ActionAnalysisError}, actions(f.repo))
	assert.Contains(t, f.repo.Events()[1].Fields["error"], "registrar")

	cached, err := f.repo.GetCachedAnalysis(context.Background(), "acme")
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestAnalyzeBrandCacheUnavailable(t *testing.T) {
	f := newFixture(t)
	service := f.build(brokenCache{f.repo})

	for i := 0; i < 2; i++ {
		report, err := service.AnalyzeBrand(context.Background(), "acme")
		require.NoError(t, err)
		assert.False(t, report.Cached)
	}
	assert.Equal(t, int32(2), f.domains.calls.Load())
	assert.NotContains(t, actions(f.repo), models.ActionAnalysisCached)
}

func TestAnalyzeBrandWellKnown(t *testing.T) {
	f := newFixture(t)
	f.service.social = signals.NewSocialProbe(testLogger())

	report, err := f.service.AnalyzeBrand(context.Background(), "Netflix")
	require.NoError(t, err)

	require.Len(t, report.DetailedAnalysis.SocialMediaAvailability, 5)
	for _, h := range report.DetailedAnalysis.SocialMediaAvailability {
		assert.False(t, h.Available, h.Platform)
	}
	assert.Equal(t, 0, report.Scores.SocialMediaAvailability)
}

func TestDeepScan(t *testing.T) {
	f := newFixture(t)
	f.search.results = []models.SearchResult{
		{Link: "https://one.com"},
		{Link: ""},
		{Link: "https://two.com"},
		{Link: "https://three.com"},
		{Link: "https://four.com"},
		{Link: "https://five.com"},
		{Link: "https://six.com"},
	}
	f.scanner.report = &models.DeepScanReport{
		Competitors:     make([]models.CompetitorMetrics, 2),
		AIAnalyses:      []models.AIAnalysis{{Analysis: "ok"}, {Error: "llm down"}},
		TotalDataPoints: 2 * models.CompetitorMetricsFieldCount,
	}

	report, err := f.service.DeepScan(context.Background(), " Acme ")
	require.NoError(t, err)

	assert.Equal(t, "Acme", report.BrandName)
	assert.Equal(t, []string{"https://one.com", "https://two.com", "https://three.com", "https://four.com", "https://five.com"}, f.scanner.urls)

	events := f.repo.Events()
	require.Len(t, events, 2)
	assert.Equal(t, models.ActionDeepScanStarted, events[0].Action)
	assert.Equal(t, models.ActionDeepScanCompleted, events[1].Action)
	assert.Equal(t, map[string]any{
		"competitorsAnalyzed": 2,
		"totalDataPoints":     34,
		"aiAnalysesGenerated": 1,
	}, events[1].Fields)
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.CompetitorsAnalyzed))
}

func TestDeepScanFailures(t *testing.T) {
	t.Run("missing brand", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.DeepScan(context.Background(), "")
		assert.ErrorIs(t, err, ErrInvalidBrandName)
	})

	t.Run("no competitors", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.DeepScan(context.Background(), "acme")
		assert.ErrorIs(t, err, ErrNoCompetitors)
		assert.Nil(t, f.scanner.urls)
	})

	t.Run("exhausted", func(t *testing.T) {
		f := newFixture(t)
		f.search.results = []models.SearchResult{{Link: "https://one.com"}}
		f.scanner.err = analyzer.ErrNoCompetitorData

		_, err := f.service.DeepScan(context.Background(), "acme")
		assert.ErrorIs(t, err, analyzer.ErrNoCompetitorData)
		assert.NotErrorIs(t, err, ErrAnalysisFailed)
		assert.Equal(t, []string{models.ActionDeepScanStarted, models.ActionDeepScanFailed}, actions(f.repo))
	})

	t.Run("unexpected", func(t *testing.T) {
		f := newFixture(t)
		f.search.results = []models.SearchResult{{Link: "https://one.com"}}
		f.scanner.err = errors.New("boom")

		_, err := f.service.DeepScan(context.Background(), "acme")
		assert.ErrorIs(t, err, ErrAnalysisFailed)
		assert.Equal(t, []string{models.ActionDeepScanStarted, models.ActionDeepScanError}, actions(f.repo))
	})
}

func TestAnalytics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.service.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.CacheEfficiency)
	assert.NotNil(t, empty.PopularBrands)

	_, err = f.service.AnalyzeBrand(ctx, "acme")
	require.NoError(t, err)
	_, err = f.service.AnalyzeBrand(ctx, "acme")
	require.NoError(t, err)
	_, err = f.service.AnalyzeBrand(ctx, "acme")
	require.NoError(t, err)

	report, err := f.service.Analytics(ctx)
	require.NoError(t, err)

	assert.Equal(t, models.UsageStats{
		TotalAnalyses: 3,
		CacheHits:     2,
		NewAnalyses:   1,
		UniqueBrands:  1,
	}, report.Usage)
	assert.Equal(t, 67, report.CacheEfficiency)
	require.Len(t, report.PopularBrands, 1)
	assert.Equal(t, "acme", report.PopularBrands[0].BrandName)
	assert.Equal(t, int64(3), report.PopularBrands[0].HitCount)
}
