package models

import (
	"time"
)

// InsightType is the polarity of a key insight
type InsightType string

const (
	InsightPositive InsightType = "positive"
	InsightNegative InsightType = "negative"
)

// Social handle status values
const (
	HandleAvailable = "available"
	HandleTaken     = "taken"
	HandleError     = "error"
)

// AnalyzeRequest represents the query of a brand analysis
type AnalyzeRequest struct {
	BrandName string `form:"brandName"`
}

// DeepScanRequest represents the body of a deep scan request
type DeepScanRequest struct {
	BrandName string `json:"brandName"`
}

// DomainCheckResult is the registrar answer for one candidate domain
type DomainCheckResult struct {
	Domain    string `json:"domain" bson:"domain"`
	Available bool   `json:"available" bson:"available"`
	Error     bool   `json:"error,omitempty" bson:"error,omitempty"`
}

// SearchResult is a single organic search hit
type SearchResult struct {
	Title   string `json:"title" bson:"title"`
	Link    string `json:"link" bson:"link"`
	Snippet string `json:"snippet" bson:"snippet"`
}

// SocialHandleResult is the availability of a handle on one platform
type SocialHandleResult struct {
	Platform  string `json:"platform" bson:"platform"`
	Handle    string `json:"handle" bson:"handle"`
	URL       string `json:"url" bson:"url"`
	Available bool   `json:"available" bson:"available"`
	Status    string `json:"status" bson:"status"`
	Icon      string `json:"icon" bson:"icon"`
	Error     bool   `json:"error,omitempty" bson:"error,omitempty"`
}

// ScoreSet holds the four independent 0-100 sub-scores
type ScoreSet struct {
	DomainStrength          int `json:"domainStrength" bson:"domain_strength"`
	CompetitionIntensity    int `json:"competitionIntensity" bson:"competition_intensity"`
	SEODifficulty           int `json:"seoDifficulty" bson:"seo_difficulty"`
	SocialMediaAvailability int `json:"socialMediaAvailability" bson:"social_media_availability"`
}

// Insight is a qualitative finding derived from the scores
type Insight struct {
	Title       string      `json:"title" bson:"title"`
	Points      string      `json:"points" bson:"points"`
	Description string      `json:"description" bson:"description"`
	Type        InsightType `json:"type" bson:"type"`
}

// DomainAvailability is the per-TLD line of the detailed analysis
type DomainAvailability struct {
	Domain      string `json:"domain" bson:"domain"`
	IsAvailable bool   `json:"isAvailable" bson:"is_available"`
	Error       bool   `json:"error,omitempty" bson:"error,omitempty"`
}

// GoogleCompetition holds the top search results
type GoogleCompetition struct {
	TopResults []SearchResult `json:"topResults" bson:"top_results"`
}

// DetailedAnalysis carries the raw signals behind the scores
type DetailedAnalysis struct {
	DomainAvailability      []DomainAvailability `json:"domainAvailability" bson:"domain_availability"`
	SocialMediaAvailability []SocialHandleResult `json:"socialMediaAvailability" bson:"social_media_availability"`
	GoogleCompetition       GoogleCompetition    `json:"googleCompetition" bson:"google_competition"`
}

// BrandReport is the result of a brand viability analysis.
// CacheTime is nil on freshly computed reports.
type BrandReport struct {
	BrandName        string           `json:"brandName" bson:"brand_name"`
	OverallScore     int              `json:"overallScore" bson:"overall_score"`
	Recommendation   string           `json:"recommendation" bson:"recommendation"`
	Scores           ScoreSet         `json:"scores" bson:"scores"`
	KeyInsights      []Insight        `json:"keyInsights" bson:"key_insights"`
	DetailedAnalysis DetailedAnalysis `json:"detailedAnalysis" bson:"detailed_analysis"`
	Cached           bool             `json:"cached" bson:"cached"`
	AnalysisTime     time.Time        `json:"analysisTime" bson:"analysis_time"`
	CacheTime        *time.Time       `json:"cacheTime,omitempty" bson:"cache_time,omitempty"`
}

// AnalyticsEvent is one append-only usage record
type AnalyticsEvent struct {
	Action    string         `json:"action" bson:"action"`
	BrandName string         `json:"brandName,omitempty" bson:"brand_name,omitempty"`
	Timestamp time.Time      `json:"timestamp" bson:"timestamp"`
	Fields    map[string]any `json:"fields,omitempty" bson:"fields,omitempty"`
}

// UsageStats summarises analytics events over a window
type UsageStats struct {
	TotalAnalyses int `json:"totalAnalyses"`
	CacheHits     int `json:"cacheHits"`
	NewAnalyses   int `json:"newAnalyses"`
	UniqueBrands  int `json:"uniqueBrands"`
}

// PopularBrand is a cached brand ranked by hit count
type PopularBrand struct {
	BrandName    string    `json:"brandName" bson:"brand_name"`
	HitCount     int64     `json:"hitCount" bson:"hit_count"`
	LastAccessed time.Time `json:"lastAccessed" bson:"last_accessed"`
}

// AnalyticsReport is the body of the analytics endpoint
type AnalyticsReport struct {
	Usage           UsageStats     `json:"usage"`
	PopularBrands   []PopularBrand `json:"popularBrands"`
	CacheEfficiency int            `json:"cacheEfficiency"`
}

// Analytics actions
const (
	ActionCacheHit          = "cache_hit"
	ActionAnalysisCached    = "analysis_cached"
	ActionAnalysisStarted   = "fresh_analysis_started"
	ActionAnalysisCompleted = "fresh_analysis_completed"
	ActionAnalysisError     = "analysis_error"
	ActionDeepScanStarted   = "deep_scan_started"
	ActionDeepScanCompleted = "deep_scan_completed"
	ActionDeepScanFailed    = "deep_scan_failed"
	ActionDeepScanError     = "deep_scan_error"
)
