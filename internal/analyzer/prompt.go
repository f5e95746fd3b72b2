package analyzer

import (
	"encoding/json"
	"fmt"

	"brandscope/internal/models"
)

const narrativeTemplate = `You are an expert-level SEO and Digital Marketing Strategist. Your name is "Aura," and you provide brutally honest, data-driven competitive analysis.

Your primary task is to generate a "DEEP SCAN ANALYSIS" report. You will analyze a competitor's intelligence data to identify their strategy, threats, and opportunities for a user's brand. You must then formulate a recommended counter-strategy.

IMPORTANT: Your final output MUST follow this exact format, including all emojis and structure. Do not add any extra conversation or introductory text.

**User's Brand Name:** "%[1]s"
**Competitor's Domain:** "%[2]s"

**Competitor's Analyzed Data (%[3]d Key Metrics):**
` + "```json\n%[4]s\n```" + `

Generate the DEEP SCAN ANALYSIS report in this exact format:

DEEP SCAN ANALYSIS: %[2]s
━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━

📊 THREAT LEVEL: [RATING] ([SCORE]/100)
🎯 THEIR STRATEGY: [One concise sentence describing their main strategy]
⚡ KEYWORD FOCUS: "[keyword1]", "[keyword2]", "[keyword3]"

🚨 COMPETITIVE THREATS:
• [Threat based on their strengths from the data]
• [Threat based on their technical SEO]
• [Threat based on their content/authority]
• [Threat based on their market position]

💡 OPPORTUNITIES FOR "%[1]s":
• [Gap they're not addressing that you can own]
• [Keyword opportunity they're missing]
• [Market positioning opportunity]
• [Technical or content opportunity]

🎯 RECOMMENDED STRATEGY:
• [Specific actionable recommendation]
• [Content/SEO recommendation]
• [Positioning recommendation]
• [Technical recommendation]`

// BuildNarrativePrompt renders the deep scan report prompt for one competitor
func BuildNarrativePrompt(brandName, competitorHost string, metrics *models.CompetitorMetrics) (string, error) {
	data, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode competitor metrics: %w", err)
	}
	return fmt.Sprintf(narrativeTemplate, brandName, competitorHost, models.CompetitorMetricsFieldCount, data), nil
}
