package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"brandscope/internal/models"
)

func domains(brand string, available map[string]bool, errored ...string) []models.DomainCheckResult {
	isErr := make(map[string]bool)
	for _, tld := range errored {
		isErr[tld] = true
	}
	var out []models.DomainCheckResult
	for _, tld := range []string{".com", ".io", ".ai", ".co", ".org", ".net"} {
		out = append(out, models.DomainCheckResult{
			Domain:    brand + tld,
			Available: available[tld],
			Error:     isErr[tld],
		})
	}
	return out
}

func links(urls ...string) []models.SearchResult {
	out := make([]models.SearchResult, 0, len(urls))
	for _, u := range urls {
		out = append(out, models.SearchResult{Title: u, Link: u})
	}
	return out
}

func TestDomainStrength(t *testing.T) {
	tests := []struct {
		name    string
		results []models.DomainCheckResult
		want    int
	}{
		{"com available", domains("acme", map[string]bool{".com": true}), 100},
		{"com errored", domains("acme", map[string]bool{".com": true}, ".com"), 10},
		{"com missing", nil, 10},
		{"io alternative", domains("acme", map[string]bool{".io": true}), 40},
		{"ai alternative", domains("acme", map[string]bool{".ai": true}), 40},
		{"only org available", domains("acme", map[string]bool{".org": true, ".net": true}), 10},
		{"nothing available", domains("acme", nil), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DomainStrength(tt.results, "acme"))
		})
	}
}

func TestCompetitionIntensity(t *testing.T) {
	tests := []struct {
		name    string
		results []models.SearchResult
		want    int
	}{
		{"no results", nil, 100},
		{"direct competitor", links("https://www.acmetools.com/shop"), 20},
		{"informational only", links("https://en.wikipedia.org/wiki/Acme", "https://acme.gov/x"), 100},
		{"many unrelated", links("https://a.com", "https://b.com", "https://c.com", "https://d.com"), 80},
		{"competitor beyond top five", links("https://a.com", "https://b.com", "https://c.com", "https://d.com", "https://e.com", "https://acme.com"), 80},
		{"unparseable link", links("://bad", "https://a.com"), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompetitionIntensity(tt.results, "acme"))
		})
	}
}

func TestSEODifficulty(t *testing.T) {
	tests := []struct {
		name    string
		results []models.SearchResult
		want    int
	}{
		{"no results", nil, 100},
		{"very high authority", links("https://a.com", "https://github.com/acme"), 0},
		{"high authority", links("https://medium.com/@acme", "https://a.com", "https://b.com"), 20},
		{"very high wins over high", links("https://reddit.com/r/acme", "https://www.forbes.com/acme"), 0},
		{"authority beyond top three", links("https://a.com", "https://b.com", "https://c.com", "https://wikipedia.org/acme"), 60},
		{"few plain results", links("https://a.com", "https://b.com"), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SEODifficulty(tt.results))
		})
	}
}

func TestSocialMediaScore(t *testing.T) {
	assert.Equal(t, NeutralSocialScore, SocialMediaScore(nil))

	all := []models.SocialHandleResult{
		{Platform: "Instagram", Available: true},
		{Platform: "Twitter", Available: true},
		{Platform: "TikTok", Available: true},
		{Platform: "LinkedIn", Available: true},
		{Platform: "YouTube", Available: true},
	}
	assert.Equal(t, 100, SocialMediaScore(all))

	mixed := []models.SocialHandleResult{
		{Platform: "Instagram", Available: true},
		{Platform: "Twitter", Available: true, Error: true},
		{Platform: "TikTok", Available: false},
		{Platform: "LinkedIn", Available: true},
		{Platform: "YouTube", Available: false},
	}
	// (25 + 15) / 100
	assert.Equal(t, 40, SocialMediaScore(mixed))

	unlisted := []models.SocialHandleResult{
		{Platform: "Mastodon", Available: true},
		{Platform: "Instagram", Available: false},
	}
	// 10 / 35
	assert.Equal(t, 29, SocialMediaScore(unlisted))
}

func TestOverallScoreBounds(t *testing.T) {
	assert.Equal(t, 100, OverallScore(models.ScoreSet{100, 100, 100, 100}))
	assert.Equal(t, 0, OverallScore(models.ScoreSet{}))
	// 0.3*10 + 0.3*20 + 0.2*0 + 0.2*50 = 19
	assert.Equal(t, 19, OverallScore(models.ScoreSet{10, 20, 0, 50}))
	assert.InDelta(t, 1.0, WeightDomain+WeightCompetition+WeightSEO+WeightSocial, 1e-9)
}

func TestAcmeExample(t *testing.T) {
	scores := models.ScoreSet{
		DomainStrength:          DomainStrength(domains("acme", map[string]bool{".com": true}), "acme"),
		CompetitionIntensity:    CompetitionIntensity(nil, "acme"),
		SEODifficulty:           SEODifficulty(nil),
		SocialMediaAvailability: NeutralSocialScore,
	}
	assert.Equal(t, 100, scores.DomainStrength)
	assert.Equal(t, 100, scores.CompetitionIntensity)
	assert.Equal(t, 100, scores.SEODifficulty)

	overall := OverallScore(scores)
	assert.GreaterOrEqual(t, overall, 90)
	assert.Equal(t, RecommendationExcellent, GenerateRecommendation(overall))
}

func TestGenerateRecommendation(t *testing.T) {
	assert.Equal(t, RecommendationExcellent, GenerateRecommendation(81))
	assert.Equal(t, RecommendationStrong, GenerateRecommendation(80))
	assert.Equal(t, RecommendationStrong, GenerateRecommendation(61))
	assert.Equal(t, RecommendationChallenge, GenerateRecommendation(60))
	assert.Equal(t, RecommendationChallenge, GenerateRecommendation(41))
	assert.Equal(t, RecommendationAvoid, GenerateRecommendation(40))
	assert.Equal(t, RecommendationAvoid, GenerateRecommendation(0))
}

func TestGenerateInsights(t *testing.T) {
	t.Run("best case", func(t *testing.T) {
		got := GenerateInsights(models.ScoreSet{100, 100, 100, 100})
		titles := make([]string, 0, len(got))
		for _, in := range got {
			titles = append(titles, in.Title)
			assert.Equal(t, models.InsightPositive, in.Type)
		}
		assert.Equal(t, []string{"Domain Available", "Social Gold Mine", "Low Competition", "SEO Opportunity"}, titles)
	})

	t.Run("worst case", func(t *testing.T) {
		got := GenerateInsights(models.ScoreSet{10, 20, 0, 0})
		assert.Len(t, got, 4)
		for _, in := range got {
			assert.Equal(t, models.InsightNegative, in.Type)
		}
		assert.Equal(t, "Risk Alert", got[2].Title)
		assert.Equal(t, "-20pts", got[3].Points)
	})

	t.Run("neutral band omits competition and seo", func(t *testing.T) {
		got := GenerateInsights(models.ScoreSet{40, 80, 60, 60})
		assert.Len(t, got, 2)
		assert.Equal(t, "Alternatives Found", got[0].Title)
		assert.Equal(t, "Mixed Social Availability", got[1].Title)
	})
}
