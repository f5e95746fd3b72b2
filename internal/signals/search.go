package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"brandscope/internal/config"
	"brandscope/internal/models"
)

// GoogleSearch queries the Google Custom Search JSON API
type GoogleSearch struct {
	client *http.Client
	config config.SearchConfig
	logger *slog.Logger
}

// NewGoogleSearch creates a new GoogleSearch
func NewGoogleSearch(cfg config.SearchConfig, client *http.Client, logger *slog.Logger) *GoogleSearch {
	return &GoogleSearch{
		client: client,
		config: cfg,
		logger: logger,
	}
}

type customSearchResponse struct {
	Items []models.SearchResult `json:"items"`
}

// Configured reports whether credentials are present
func (g *GoogleSearch) Configured() bool {
	return g.config.APIKey != "" && g.config.CX != ""
}

// Search returns the ordered results for an exact-phrase query. It returns an
// empty slice when unconfigured or on any upstream failure.
func (g *GoogleSearch) Search(ctx context.Context, query string) []models.SearchResult {
	if !g.Configured() {
		return []models.SearchResult{}
	}

	results, err := g.search(ctx, query)
	if err != nil {
		g.logger.Warn("Search failed", "query", query, "error", err)
		return []models.SearchResult{}
	}
	return results
}

func (g *GoogleSearch) search(ctx context.Context, query string) ([]models.SearchResult, error) {
	params := url.Values{}
	params.Set("key", g.config.APIKey)
	params.Set("cx", g.config.CX)
	params.Set("q", fmt.Sprintf("%q", query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.config.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query search API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	var body customSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	if body.Items == nil {
		return []models.SearchResult{}, nil
	}
	return body.Items, nil
}
