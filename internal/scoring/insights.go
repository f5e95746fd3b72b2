package scoring

import (
	"brandscope/internal/models"
)

// GenerateInsights produces the key insights for a score set: always one for
// the domain and social dimensions, and one for competition and SEO only when
// they fall outside the neutral band.
func GenerateInsights(scores models.ScoreSet) []models.Insight {
	insights := make([]models.Insight, 0, 4)

	switch {
	case scores.DomainStrength == MaxScore:
		insights = append(insights, positive("Domain Available", "+40pts", "Primary .com domain is ready to register."))
	case scores.DomainStrength > 30:
		insights = append(insights, positive("Alternatives Found", "+15pts", "Good alternatives like .io or .ai are available."))
	default:
		insights = append(insights, negative("Domain Risk", "-25pts", "The .com and top alternatives are unavailable."))
	}

	switch {
	case scores.SocialMediaAvailability > 80:
		insights = append(insights, positive("Social Gold Mine", "+25pts", "Most major social media handles are available."))
	case scores.SocialMediaAvailability > 50:
		insights = append(insights, positive("Mixed Social Availability", "+10pts", "Some key social platforms available."))
	default:
		insights = append(insights, negative("Social Challenges", "-20pts", "Limited social media handle availability."))
	}

	switch {
	case scores.CompetitionIntensity > 90:
		insights = append(insights, positive("Low Competition", "+30pts", "No direct commercial competitors identified."))
	case scores.CompetitionIntensity < 30:
		insights = append(insights, negative("Risk Alert", "-30pts", "Direct competitors dominate search results."))
	}

	switch {
	case scores.SEODifficulty > 90:
		insights = append(insights, positive("SEO Opportunity", "+20pts", "The search landscape is open to rank for this name."))
	case scores.SEODifficulty < 30:
		insights = append(insights, negative("High SEO Difficulty", "-20pts", "Ranking will be difficult against authoritative sites."))
	}

	return insights
}

func positive(title, points, description string) models.Insight {
	return models.Insight{Title: title, Points: points, Description: description, Type: models.InsightPositive}
}

func negative(title, points, description string) models.Insight {
	return models.Insight{Title: title, Points: points, Description: description, Type: models.InsightNegative}
}
