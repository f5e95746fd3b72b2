package analyzer

import (
	"log/slog"
	"net/url"
	"strings"
)

// RootDomain returns the last two labels of host. Multi-label public
// suffixes such as co.uk are not recognised.
func RootDomain(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return host
	}
	return strings.Join(parts[len(parts)-2:], ".")
}

// normalizeURL defaults the scheme to https and lowercases the host
func normalizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(strings.ToLower(raw), "http://") && !strings.HasPrefix(strings.ToLower(raw), "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Hostname() == "" {
		return nil, &url.Error{Op: "parse", URL: raw, Err: errMissingHost}
	}
	u.Host = strings.ToLower(u.Host)
	return u, nil
}

type dedupeEntry struct {
	url  string
	apex bool
}

// DeduplicateByDomain keeps one URL per root domain, preferring the apex host
// over subdomains. Kept URLs are returned in first-seen order of their root
// domain. Unparseable URLs are dropped.
func DeduplicateByDomain(urls []string, logger *slog.Logger) []string {
	var order []string
	kept := make(map[string]dedupeEntry)

	for _, raw := range urls {
		u, err := normalizeURL(raw)
		if err != nil {
			if logger != nil {
				logger.Warn("Skipping unparseable competitor URL", "url", raw, "error", err)
			}
			continue
		}

		host := u.Hostname()
		root := RootDomain(host)
		candidate := dedupeEntry{url: u.String(), apex: host == root}

		existing, ok := kept[root]
		switch {
		case !ok:
			order = append(order, root)
			kept[root] = candidate
		case candidate.apex && !existing.apex:
			kept[root] = candidate
		}
	}

	unique := make([]string, 0, len(order))
	for _, root := range order {
		unique = append(unique, kept[root].url)
	}
	return unique
}
