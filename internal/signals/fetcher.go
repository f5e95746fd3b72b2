package signals

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"brandscope/internal/config"

	"golang.org/x/net/html/charset"
)

const maxPageBytes = 5 << 20

// FetchedPage is a downloaded page. FinalURL is the URL after redirects and
// Body is UTF-8.
type FetchedPage struct {
	FinalURL   *url.URL
	StatusCode int
	Body       []byte
}

// PageFetcher downloads competitor pages with a fixed header set, a bounded
// timeout and a bounded number of redirects
type PageFetcher struct {
	client *http.Client
	config config.AnalyzerConfig
	logger *slog.Logger
}

// NewPageFetcher creates a new PageFetcher
func NewPageFetcher(cfg config.AnalyzerConfig, logger *slog.Logger) *PageFetcher {
	maxRedirects := cfg.MaxRedirects
	return &PageFetcher{
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		config: cfg,
		logger: logger,
	}
}

// Fetch downloads rawURL. Non-2xx responses are errors.
func (f *PageFetcher) Fetch(ctx context.Context, rawURL string) (*FetchedPage, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme == "" {
		parsedURL, err = url.Parse("https://" + rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
	}
	if parsedURL.Host == "" {
		return nil, errors.New("invalid URL: missing host")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	f.logger.Debug("Sending request", "url", parsedURL.String())
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	// Decode to UTF-8 from the declared or sniffed charset
	decoded, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	body, err := io.ReadAll(io.LimitReader(decoded, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &FetchedPage{
		FinalURL:   resp.Request.URL,
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}
