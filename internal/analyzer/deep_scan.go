package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"brandscope/internal/config"
	"brandscope/internal/models"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ErrNoCompetitorData is returned when no competitor page could be analyzed
var ErrNoCompetitorData = errors.New("no competitor data could be analyzed")

const (
	defaultMaxCompetitors = 5
	defaultConcurrency    = 3
)

// Completer generates narrative text from a prompt
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// DeepScanner analyzes competitor pages and asks the LLM for a strategic
// narrative on each of them
type DeepScanner struct {
	analyzer       *Analyzer
	llm            Completer
	limiter        *rate.Limiter
	maxCompetitors int
	concurrency    int
	logger         *slog.Logger
}

// NewDeepScanner creates a new DeepScanner
func NewDeepScanner(cfg config.AnalyzerConfig, analyzer *Analyzer, llm Completer, logger *slog.Logger) *DeepScanner {
	maxCompetitors := cfg.MaxCompetitors
	if maxCompetitors <= 0 {
		maxCompetitors = defaultMaxCompetitors
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &DeepScanner{
		analyzer:       analyzer,
		llm:            llm,
		limiter:        rate.NewLimiter(limit, concurrency),
		maxCompetitors: maxCompetitors,
		concurrency:    concurrency,
		logger:         logger,
	}
}

// Scan deduplicates competitorURLs by root domain, analyzes at most
// maxCompetitors of them and generates one narrative per analyzed competitor.
// Competitors keep their processing order.
func (s *DeepScanner) Scan(ctx context.Context, brandName string, competitorURLs []string) (*models.DeepScanReport, error) {
	targets := DeduplicateByDomain(competitorURLs, s.logger)
	s.logger.Info("Starting deep scan",
		"brand", brandName,
		"candidates", len(competitorURLs),
		"unique", len(targets),
	)
	if len(targets) > s.maxCompetitors {
		targets = targets[:s.maxCompetitors]
	}

	metrics := make([]*models.CompetitorMetrics, len(targets))
	failures := make([]error, len(targets))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, target := range targets {
		g.Go(func() error {
			if err := s.limiter.Wait(ctx); err != nil {
				failures[i] = fmt.Errorf("rate limiter error: %w", err)
				return nil
			}
			m, err := s.analyzer.AnalyzeCompetitor(ctx, target)
			if err != nil {
				failures[i] = err
				return nil
			}
			metrics[i] = m
			return nil
		})
	}
	g.Wait()

	report := &models.DeepScanReport{
		BrandName:   brandName,
		Competitors: []models.CompetitorMetrics{},
		AIAnalyses:  []models.AIAnalysis{},
	}
	for i, target := range targets {
		if failures[i] != nil {
			s.logger.Warn("Competitor analysis failed", "url", target, "error", failures[i])
			report.Skipped = append(report.Skipped, models.SkippedCompetitor{
				URL:    target,
				Reason: failures[i].Error(),
			})
			continue
		}
		report.Competitors = append(report.Competitors, *metrics[i])
		report.TotalDataPoints += models.CompetitorMetricsFieldCount
	}

	if len(report.Competitors) == 0 {
		s.logger.Warn("Deep scan exhausted", "brand", brandName, "attempted", len(targets))
		return nil, ErrNoCompetitorData
	}

	report.AIAnalyses = s.generateNarratives(ctx, brandName, report.Competitors)
	report.Timestamp = time.Now()

	s.logger.Info("Deep scan completed",
		"brand", brandName,
		"competitors", len(report.Competitors),
		"skipped", len(report.Skipped),
	)
	return report, nil
}

func (s *DeepScanner) generateNarratives(ctx context.Context, brandName string, competitors []models.CompetitorMetrics) []models.AIAnalysis {
	analyses := make([]models.AIAnalysis, len(competitors))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i := range competitors {
		competitor := competitors[i]
		g.Go(func() error {
			analyses[i] = models.AIAnalysis{
				CompetitorURL:  competitor.URL,
				CompetitorData: competitor,
			}

			text, err := s.narrative(ctx, brandName, &competitor)
			if err != nil {
				s.logger.Warn("Narrative generation failed", "url", competitor.URL, "error", err)
				analyses[i].Error = err.Error()
				return nil
			}
			analyses[i].Analysis = text
			return nil
		})
	}
	g.Wait()

	return analyses
}

func (s *DeepScanner) narrative(ctx context.Context, brandName string, competitor *models.CompetitorMetrics) (string, error) {
	host := competitor.URL
	if u, err := url.Parse(competitor.URL); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}

	prompt, err := BuildNarrativePrompt(brandName, host, competitor)
	if err != nil {
		return "", err
	}

	text, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate AI analysis: %w", err)
	}
	return text, nil
}

// GeneratedNarratives counts the narratives that were produced without error
func GeneratedNarratives(report *models.DeepScanReport) int {
	n := 0
	for _, a := range report.AIAnalyses {
		if a.Error == "" {
			n++
		}
	}
	return n
}
