package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"brandscope/internal/models"
	"brandscope/internal/signals"

	"golang.org/x/sync/semaphore"
)

var errMissingHost = errors.New("missing host")

const (
	// parseBudget bounds the bytes of HTML being parsed at once across all scans
	parseBudget = 64 << 20
	// parseOverhead approximates node tree size relative to the raw page
	parseOverhead = 5
)

// PageFetcher downloads a page and reports where it ended up
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*signals.FetchedPage, error)
}

// Analyzer handles competitor page analysis
type Analyzer struct {
	fetcher PageFetcher
	parsing *semaphore.Weighted
	logger  *slog.Logger
}

// New creates a new Analyzer
func New(fetcher PageFetcher, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		fetcher: fetcher,
		parsing: semaphore.NewWeighted(parseBudget),
		logger:  logger,
	}
}

// AnalyzeCompetitor fetches rawURL and extracts its competitor metrics
func (a *Analyzer) AnalyzeCompetitor(ctx context.Context, rawURL string) (*models.CompetitorMetrics, error) {
	a.logger.Info("Analyzing competitor", "url", rawURL)

	page, err := a.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", rawURL, err)
	}

	weight := min(int64(len(page.Body))*parseOverhead, parseBudget)
	if err := a.parsing.Acquire(ctx, weight); err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", rawURL, err)
	}
	defer a.parsing.Release(weight)

	metrics, err := ExtractMetrics(page.FinalURL, page.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", rawURL, err)
	}

	a.logger.Debug("Competitor analyzed",
		"url", metrics.URL,
		"words", metrics.WordCount,
		"internal_links", metrics.InternalLinks,
	)
	return metrics, nil
}
