// Package signals contains the adapters for the external sources a brand
// analysis draws on. Brand-level entry points never return upstream errors:
// failures are folded into results flagged with Error and a pessimistic value.
package signals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	"brandscope/internal/config"
	"brandscope/internal/models"
)

var errRegistrarNotConfigured = errors.New("registrar credentials not configured")

// Registrar checks domain availability against the GoDaddy API
type Registrar struct {
	client *http.Client
	config config.RegistrarConfig
	logger *slog.Logger
}

// NewRegistrar creates a new Registrar
func NewRegistrar(cfg config.RegistrarConfig, client *http.Client, logger *slog.Logger) *Registrar {
	return &Registrar{
		client: client,
		config: cfg,
		logger: logger,
	}
}

type availabilityResponse struct {
	Domain    string `json:"domain"`
	Available bool   `json:"available"`
}

// CheckAvailability asks the registrar whether domain can be registered.
// Any failure yields an unavailable result flagged as errored.
func (r *Registrar) CheckAvailability(ctx context.Context, domain string) models.DomainCheckResult {
	available, err := r.checkAvailability(ctx, domain)
	if err != nil {
		r.logger.Warn("Domain check failed", "domain", domain, "error", err)
		return models.DomainCheckResult{Domain: domain, Available: false, Error: true}
	}
	return models.DomainCheckResult{Domain: domain, Available: available}
}

// CheckDomains checks every domain concurrently and returns one result per
// input domain, in input order.
func (r *Registrar) CheckDomains(ctx context.Context, domains []string) []models.DomainCheckResult {
	results := make([]models.DomainCheckResult, len(domains))

	var g errgroup.Group
	for i, domain := range domains {
		g.Go(func() error {
			results[i] = r.CheckAvailability(ctx, domain)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (r *Registrar) checkAvailability(ctx context.Context, domain string) (bool, error) {
	if r.config.APIKey == "" || r.config.APISecret == "" {
		return false, errRegistrarNotConfigured
	}

	endpoint := fmt.Sprintf("%s/v1/domains/available?domain=%s", r.config.BaseURL, url.QueryEscape(domain))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("sso-key %s:%s", r.config.APIKey, r.config.APISecret))
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to query registrar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	var body availabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("failed to decode registrar response: %w", err)
	}

	return body.Available, nil
}
