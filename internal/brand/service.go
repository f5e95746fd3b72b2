package brand

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"brandscope/internal/analyzer"
	"brandscope/internal/models"
	"brandscope/internal/monitoring"
	"brandscope/internal/repository"
	"brandscope/internal/scoring"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidBrandName is returned for a missing or blank brand name
	ErrInvalidBrandName = errors.New("brandName parameter is required")
	// ErrNoCompetitors is returned when search yields no competitor URLs
	ErrNoCompetitors = errors.New("no competitors found for analysis")
	// ErrAnalysisFailed wraps any unexpected orchestration failure
	ErrAnalysisFailed = errors.New("analysis failed")
)

// CandidateTLDs are checked for every analyzed brand, primary first
var CandidateTLDs = []string{".com", ".io", ".ai", ".co", ".org", ".net"}

const (
	maxTopResults     = 5
	maxCompetitorURLs = 5
	popularBrandLimit = 10
	usageWindow       = 24 * time.Hour
)

// DomainChecker reports registrar availability for candidate domains
type DomainChecker interface {
	CheckDomains(ctx context.Context, domains []string) []models.DomainCheckResult
}

// Searcher returns organic search results for a query
type Searcher interface {
	Search(ctx context.Context, query string) []models.SearchResult
}

// HandleChecker reports social handle availability for a brand
type HandleChecker interface {
	CheckHandles(ctx context.Context, brand string) []models.SocialHandleResult
}

// CompetitorScanner runs the deep scan pipeline over competitor URLs
type CompetitorScanner interface {
	Scan(ctx context.Context, brandName string, competitorURLs []string) (*models.DeepScanReport, error)
}

// Dependencies groups the collaborators of a Service
type Dependencies struct {
	Domains   DomainChecker
	Search    Searcher
	Social    HandleChecker
	Scanner   CompetitorScanner
	Cache     repository.Cache
	Analytics repository.Analytics
	Metrics   *monitoring.Metrics
}

// Service orchestrates brand analyses, deep scans and usage reporting
type Service struct {
	domains   DomainChecker
	search    Searcher
	social    HandleChecker
	scanner   CompetitorScanner
	cache     repository.Cache
	analytics repository.Analytics
	metrics   *monitoring.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a new Service
func NewService(deps Dependencies, logger *slog.Logger) *Service {
	return &Service{
		domains:   deps.Domains,
		search:    deps.Search,
		social:    deps.Social,
		scanner:   deps.Scanner,
		cache:     deps.Cache,
		analytics: deps.Analytics,
		metrics:   deps.Metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// NormalizeBrandName trims and lowercases name
func NormalizeBrandName(name string) (string, error) {
	key := repository.CacheKey(name)
	if key == "" {
		return "", ErrInvalidBrandName
	}
	return key, nil
}

// AnalyzeBrand returns the viability report for brandName, from cache when a
// fresh entry exists. Upstream failures degrade the report rather than fail it.
func (s *Service) AnalyzeBrand(ctx context.Context, brandName string) (*models.BrandReport, error) {
	key, err := NormalizeBrandName(brandName)
	if err != nil {
		return nil, err
	}

	cached, err := s.cache.GetCachedAnalysis(ctx, key)
	if err != nil {
		s.logger.Warn("Cache lookup failed", "brand", key, "error", err)
	} else if cached != nil {
		s.logger.Info("Returning cached analysis", "brand", key)
		if err := s.cache.IncrementHitCount(ctx, key); err != nil {
			s.logger.Warn("Failed to update hit count", "brand", key, "error", err)
		}
		s.record(ctx, models.ActionCacheHit, key, nil)
		s.metrics.IncAnalysis("cache_hit")
		return cached, nil
	}

	s.logger.Info("Performing fresh analysis", "brand", key)
	s.record(ctx, models.ActionAnalysisStarted, key, nil)

	report, hasErrors, err := s.freshAnalysis(ctx, key)
	if err != nil {
		s.logger.Error("Brand analysis failed", "brand", key, "error", err)
		s.record(ctx, models.ActionAnalysisError, key, map[string]any{"error": err.Error()})
		s.metrics.IncAnalysis("error")
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	if err := s.cache.CacheAnalysis(ctx, key, report); err != nil {
		s.logger.Warn("Failed to cache analysis", "brand", key, "error", err)
	} else {
		s.record(ctx, models.ActionAnalysisCached, key, nil)
	}
	s.record(ctx, models.ActionAnalysisCompleted, key, map[string]any{
		"overallScore": report.OverallScore,
		"hasErrors":    hasErrors,
	})
	s.metrics.IncAnalysis("fresh")

	return report, nil
}

func (s *Service) freshAnalysis(ctx context.Context, key string) (*models.BrandReport, bool, error) {
	candidates := make([]string, len(CandidateTLDs))
	for i, tld := range CandidateTLDs {
		candidates[i] = key + tld
	}

	var (
		domainResults []models.DomainCheckResult
		searchResults []models.SearchResult
		socialResults []models.SocialHandleResult
	)

	// All three signals settle before scoring; none cancels the others.
	g := new(errgroup.Group)
	g.Go(guard("registrar", func() {
		domainResults = s.domains.CheckDomains(ctx, candidates)
	}))
	g.Go(guard("search", func() {
		searchResults = s.search.Search(ctx, key)
	}))
	g.Go(guard("social", func() {
		socialResults = s.social.CheckHandles(ctx, key)
	}))
	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	s.logger.Debug("Signals received",
		"brand", key,
		"domains", len(domainResults),
		"search", len(searchResults),
		"social", len(socialResults),
	)

	scores := models.ScoreSet{
		DomainStrength:          scoring.DomainStrength(domainResults, key),
		CompetitionIntensity:    scoring.CompetitionIntensity(searchResults, key),
		SEODifficulty:           scoring.SEODifficulty(searchResults),
		SocialMediaAvailability: scoring.SocialMediaScore(socialResults),
	}
	overall := scoring.OverallScore(scores)

	hasErrors := false
	availability := make([]models.DomainAvailability, 0, len(domainResults))
	for _, d := range domainResults {
		hasErrors = hasErrors || d.Error
		availability = append(availability, models.DomainAvailability{
			Domain:      d.Domain,
			IsAvailable: d.Available,
			Error:       d.Error,
		})
	}
	for _, h := range socialResults {
		hasErrors = hasErrors || h.Error
	}
	if socialResults == nil {
		socialResults = []models.SocialHandleResult{}
	}

	topResults := make([]models.SearchResult, 0, maxTopResults)
	for i := 0; i < len(searchResults) && i < maxTopResults; i++ {
		topResults = append(topResults, searchResults[i])
	}

	return &models.BrandReport{
		BrandName:      key,
		OverallScore:   overall,
		Recommendation: scoring.GenerateRecommendation(overall),
		Scores:         scores,
		KeyInsights:    scoring.GenerateInsights(scores),
		DetailedAnalysis: models.DetailedAnalysis{
			DomainAvailability:      availability,
			SocialMediaAvailability: socialResults,
			GoogleCompetition:       models.GoogleCompetition{TopResults: topResults},
		},
		Cached:       false,
		AnalysisTime: s.now(),
	}, hasErrors, nil
}

// DeepScan finds competitors for brandName through search and runs the deep
// scan pipeline over the top results.
func (s *Service) DeepScan(ctx context.Context, brandName string) (*models.DeepScanReport, error) {
	name := strings.TrimSpace(brandName)
	if name == "" {
		return nil, ErrInvalidBrandName
	}

	s.logger.Info("Deep scan requested", "brand", name)
	s.record(ctx, models.ActionDeepScanStarted, name, nil)

	var urls []string
	for _, r := range s.search.Search(ctx, name) {
		if len(urls) == maxCompetitorURLs {
			break
		}
		if r.Link != "" {
			urls = append(urls, r.Link)
		}
	}
	if len(urls) == 0 {
		s.metrics.IncDeepScan("no_competitors")
		return nil, ErrNoCompetitors
	}

	report, err := s.scanner.Scan(ctx, name, urls)
	if err != nil {
		if errors.Is(err, analyzer.ErrNoCompetitorData) {
			s.record(ctx, models.ActionDeepScanFailed, name, map[string]any{"error": err.Error()})
			s.metrics.IncDeepScan("exhausted")
			return nil, err
		}
		s.logger.Error("Deep scan failed", "brand", name, "error", err)
		s.record(ctx, models.ActionDeepScanError, name, map[string]any{"error": err.Error()})
		s.metrics.IncDeepScan("error")
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	s.record(ctx, models.ActionDeepScanCompleted, name, map[string]any{
		"competitorsAnalyzed": len(report.Competitors),
		"totalDataPoints":     report.TotalDataPoints,
		"aiAnalysesGenerated": analyzer.GeneratedNarratives(report),
	})
	s.metrics.IncDeepScan("success")
	s.metrics.AddCompetitors(len(report.Competitors))

	return report, nil
}

// Analytics reports usage over the last day and the most requested brands
func (s *Service) Analytics(ctx context.Context) (*models.AnalyticsReport, error) {
	var (
		usage   *models.UsageStats
		popular []models.PopularBrand
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		usage, err = s.analytics.UsageStats(gctx, s.now().Add(-usageWindow))
		if err != nil {
			return fmt.Errorf("failed to get usage stats: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		popular, err = s.cache.PopularBrands(gctx, popularBrandLimit)
		if err != nil {
			return fmt.Errorf("failed to get popular brands: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if popular == nil {
		popular = []models.PopularBrand{}
	}
	return &models.AnalyticsReport{
		Usage:           *usage,
		PopularBrands:   popular,
		CacheEfficiency: cacheEfficiency(usage),
	}, nil
}

func cacheEfficiency(u *models.UsageStats) int {
	if u.TotalAnalyses == 0 {
		return 0
	}
	return int(math.Round(float64(u.CacheHits) / float64(u.TotalAnalyses) * 100))
}

// record writes an analytics event; failures are only logged
func (s *Service) record(ctx context.Context, action, brandName string, fields map[string]any) {
	if err := s.analytics.Record(ctx, action, brandName, fields); err != nil {
		s.logger.Warn("Failed to record analytics", "action", action, "brand", brandName, "error", err)
	}
}

func guard(name string, fn func()) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s signal panicked: %v", name, r)
			}
		}()
		fn()
		return nil
	}
}
