package analyzer

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"brandscope/internal/models"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	noTitle           = "No title found"
	noMetaDescription = "No meta description found"
	noH1              = "No H1 found"
)

var socialHosts = []string{
	"facebook.com",
	"twitter.com",
	"x.com",
	"instagram.com",
	"linkedin.com",
	"youtube.com",
	"tiktok.com",
}

// ExtractMetrics builds the competitor profile of an HTML page. finalURL is
// the URL the page was served from after redirects.
func ExtractMetrics(finalURL *url.URL, body []byte) (*models.CompetitorMetrics, error) {
	node, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc := goquery.NewDocumentFromNode(node)

	metrics := &models.CompetitorMetrics{
		URL:             finalURL.String(),
		Title:           orDefault(doc.Find("title").First().Text(), noTitle),
		MetaDescription: metaDescription(doc),
		H1:              orDefault(doc.Find("h1").First().Text(), noH1),
		H2Count:         doc.Find("h2").Length(),
		H3Count:         doc.Find("h3").Length(),
		WordCount:       countWords(visibleText(doc)),
		HasSSL:          finalURL.Scheme == "https",
		Images:          doc.Find("img").Length(),
		ImagesWithAlt:   doc.Find("img[alt]").Length(),
		MetaKeywords:    attrPtr(doc.Find(`meta[name="keywords"]`), "content"),
		SchemaMarkup:    doc.Find(`script[type="application/ld+json"]`).Length() > 0,
		CanonicalURL:    attrPtr(doc.Find(`link[rel="canonical"]`), "href"),
		MetaRobots:      attrPtr(doc.Find(`meta[name="robots"]`), "content"),
	}

	host := strings.ToLower(finalURL.Hostname())
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		linkHost := ""
		if u, err := url.Parse(href); err == nil {
			linkHost = strings.ToLower(u.Hostname())
		}

		switch {
		case strings.HasPrefix(href, "/") || (linkHost != "" && linkHost == host):
			metrics.InternalLinks++
		case strings.HasPrefix(strings.ToLower(href), "http"):
			metrics.ExternalLinks++
		}

		if isSocialHost(linkHost) {
			metrics.SocialLinks++
		}
	})

	return metrics, nil
}

func metaDescription(doc *goquery.Document) string {
	if v, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
		return v
	}
	if v, ok := doc.Find(`meta[property="og:description"]`).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return noMetaDescription
}

// visibleText returns the body text without script, style and noscript content
func visibleText(doc *goquery.Document) string {
	body := doc.Find("body").Clone()
	body.Find("script, style, noscript").Remove()
	return body.Text()
}

func countWords(text string) int {
	return len(strings.Fields(text))
}

func attrPtr(sel *goquery.Selection, name string) *string {
	v, ok := sel.First().Attr(name)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}

func isSocialHost(host string) bool {
	if host == "" {
		return false
	}
	host = strings.TrimPrefix(host, "www.")
	for _, h := range socialHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}
