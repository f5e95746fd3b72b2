// Package scoring maps normalized brand signals to 0-100 sub-scores, a
// weighted overall score, key insights and a recommendation. All functions
// are pure and total.
package scoring

import (
	"math"
	"net/url"
	"strings"

	"brandscope/internal/models"
)

// Weights of the overall score. They sum to 1.0.
const (
	WeightDomain      = 0.3
	WeightCompetition = 0.3
	WeightSEO         = 0.2
	WeightSocial      = 0.2
)

// Fixed score values
const (
	MaxScore = 100
	MinScore = 0

	// NeutralSocialScore is used when no social data is available
	NeutralSocialScore = 50
)

const (
	competitionWindow = 5
	seoWindow         = 3
	defaultWeight     = 10
)

// Recommendation strings by overall score bracket
const (
	RecommendationExcellent = "Excellent Prospect. A clear path to ownership and market leadership."
	RecommendationStrong    = "Strong Contender. This name is viable but requires a clear strategy."
	RecommendationChallenge = "Challenging. Significant hurdles exist. Proceed with caution."
	RecommendationAvoid     = "Not Recommended. This name poses major branding challenges."
)

var (
	preferredAlternatives = []string{".io", ".ai", ".co"}

	informationalDomains = []string{"wikipedia.org", "wiktionary.org", "forbes.com", "nytimes.com", ".gov", ".edu"}

	veryHighAuthority = []string{"wikipedia.org", "forbes.com", ".gov", ".edu", "github.com", "amazon.com"}
	highAuthority     = []string{"techcrunch.com", "medium.com", "reddit.com"}

	platformWeights = map[string]int{
		"Instagram": 25,
		"Twitter":   25,
		"TikTok":    20,
		"LinkedIn":  15,
		"YouTube":   15,
	}
)

// DomainStrength scores the primary .com and its preferred alternatives
func DomainStrength(results []models.DomainCheckResult, brand string) int {
	com, ok := findDomain(results, brand+".com")
	if !ok || com.Error {
		return 10
	}
	if com.Available {
		return MaxScore
	}
	for _, tld := range preferredAlternatives {
		if alt, ok := findDomain(results, brand+tld); ok && alt.Available && !alt.Error {
			return 40
		}
	}
	return 10
}

// CompetitionIntensity scores how crowded the top search results are.
// Higher means less competition.
func CompetitionIntensity(results []models.SearchResult, brand string) int {
	if len(results) == 0 {
		return MaxScore
	}
	for _, r := range top(results, competitionWindow) {
		host := hostname(r.Link)
		if host == "" || matchesAny(host, informationalDomains) {
			continue
		}
		if brand != "" && strings.Contains(host, brand) {
			return 20
		}
	}
	if len(results) > 3 {
		return 80
	}
	return MaxScore
}

// SEODifficulty scores the authority of the top search results.
// Higher means easier to rank.
func SEODifficulty(results []models.SearchResult) int {
	if len(results) == 0 {
		return MaxScore
	}
	head := top(results, seoWindow)
	for _, r := range head {
		if host := hostname(r.Link); host != "" && matchesAny(host, veryHighAuthority) {
			return MinScore
		}
	}
	for _, r := range head {
		if host := hostname(r.Link); host != "" && matchesAny(host, highAuthority) {
			return 20
		}
	}
	if len(results) < 3 {
		return MaxScore
	}
	return 60
}

// SocialMediaScore is the weighted share of available handles
func SocialMediaScore(results []models.SocialHandleResult) int {
	if len(results) == 0 {
		return NeutralSocialScore
	}
	var available, total int
	for _, r := range results {
		w, ok := platformWeights[r.Platform]
		if !ok {
			w = defaultWeight
		}
		total += w
		if r.Available && !r.Error {
			available += w
		}
	}
	if total == 0 {
		return NeutralSocialScore
	}
	return clamp(int(math.Round(float64(available) / float64(total) * 100)))
}

// OverallScore combines the sub-scores with the fixed weights
func OverallScore(s models.ScoreSet) int {
	v := WeightDomain*float64(s.DomainStrength) +
		WeightCompetition*float64(s.CompetitionIntensity) +
		WeightSEO*float64(s.SEODifficulty) +
		WeightSocial*float64(s.SocialMediaAvailability)
	return clamp(int(math.Round(v)))
}

// GenerateRecommendation maps the overall score to a fixed recommendation
func GenerateRecommendation(overall int) string {
	switch {
	case overall > 80:
		return RecommendationExcellent
	case overall > 60:
		return RecommendationStrong
	case overall > 40:
		return RecommendationChallenge
	default:
		return RecommendationAvoid
	}
}

func findDomain(results []models.DomainCheckResult, domain string) (models.DomainCheckResult, bool) {
	for _, r := range results {
		if strings.EqualFold(r.Domain, domain) {
			return r, true
		}
	}
	return models.DomainCheckResult{}, false
}

func top(results []models.SearchResult, n int) []models.SearchResult {
	if len(results) > n {
		return results[:n]
	}
	return results
}

// hostname returns the lowercased, www-stripped host of a link or "" if it
// cannot be parsed.
func hostname(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func matchesAny(host string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(host, p) {
			return true
		}
	}
	return false
}

func clamp(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
