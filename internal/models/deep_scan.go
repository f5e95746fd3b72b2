package models

import (
	"time"
)

// CompetitorMetricsFieldCount is the width of a CompetitorMetrics record.
// TotalDataPoints is accumulated in units of this width.
const CompetitorMetricsFieldCount = 17

// CompetitorMetrics is the structural SEO profile of a competitor page.
// URL is the final URL after redirects. MetaKeywords, CanonicalURL and
// MetaRobots are nil when the page does not declare them.
type CompetitorMetrics struct {
	URL             string  `json:"url" bson:"url"`
	Title           string  `json:"title" bson:"title"`
	MetaDescription string  `json:"metaDescription" bson:"meta_description"`
	H1              string  `json:"h1" bson:"h1"`
	H2Count         int     `json:"h2Count" bson:"h2_count"`
	H3Count         int     `json:"h3Count" bson:"h3_count"`
	WordCount       int     `json:"wordCount" bson:"word_count"`
	InternalLinks   int     `json:"internalLinks" bson:"internal_links"`
	ExternalLinks   int     `json:"externalLinks" bson:"external_links"`
	HasSSL          bool    `json:"hasSSL" bson:"has_ssl"`
	Images          int     `json:"images" bson:"images"`
	ImagesWithAlt   int     `json:"imagesWithAlt" bson:"images_with_alt"`
	SocialLinks     int     `json:"socialLinks" bson:"social_links"`
	MetaKeywords    *string `json:"metaKeywords" bson:"meta_keywords"`
	SchemaMarkup    bool    `json:"schemaMarkup" bson:"schema_markup"`
	CanonicalURL    *string `json:"canonicalUrl" bson:"canonical_url"`
	MetaRobots      *string `json:"metaRobots" bson:"meta_robots"`
}

// AIAnalysis is the strategic narrative for one competitor.
// Error is set and Analysis empty when the narrative could not be generated.
type AIAnalysis struct {
	CompetitorURL  string            `json:"competitorUrl"`
	Analysis       string            `json:"analysis"`
	CompetitorData CompetitorMetrics `json:"competitorData"`
	Error          string            `json:"error,omitempty"`
}

// SkippedCompetitor records a competitor URL whose page could not be analyzed
type SkippedCompetitor struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// DeepScanReport is the result of a competitor deep scan
type DeepScanReport struct {
	BrandName       string              `json:"brandName"`
	Competitors     []CompetitorMetrics `json:"competitors"`
	AIAnalyses      []AIAnalysis        `json:"aiAnalyses"`
	TotalDataPoints int                 `json:"totalDataPoints"`
	Timestamp       time.Time           `json:"timestamp"`
	Skipped         []SkippedCompetitor `json:"skipped,omitempty"`
}
