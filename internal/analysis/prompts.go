package analysis

import (
	"fmt"
	"strings"

	"github.com/brahimakil/rasedweb/internal/model"
)

func scoringPrompt(chunk []model.Article, topic string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `You are a REALISTIC political analyst. Analyze these articles about %q.

IMPORTANT INSTRUCTIONS:
- BE REALISTIC - avoid extreme percentages like 100%% or 0%%
- Most real political topics have mixed coverage
- Look for SUBTLE differences in tone, emphasis, and framing
- Consider that articles can be PARTIALLY supportive or have MIXED messages
- Use the full range: 20%%, 35%%, 60%%, 75%%, etc.

User Interest: %q

Articles to analyze:
`, topic, topic)

	for i, a := range chunk {
		fmt.Fprintf(&sb, `
Article %d:
Title: %s
Source: %s
Content: %s
---`, i+1, a.Title, a.Source, articleContent(a))
	}

	fmt.Fprintf(&sb, `

For each article, determine:
1. RELEVANCE: How relevant is this to %q? (Use realistic range: 15-85%%)
2. SENTIMENT: One of STRONGLY_SUPPORTING, MODERATELY_SUPPORTING, SLIGHTLY_SUPPORTING, NEUTRAL, SLIGHTLY_OPPOSING, MODERATELY_OPPOSING, STRONGLY_OPPOSING
3. CONFIDENCE: How sure are you? (realistic range: 40-90%%)

Look for nuances like:
- Articles that support the concept but criticize implementation
- Articles with balanced reporting that lean slightly one way
- Different emphasis or framing even with similar facts

Return JSON:
[
  {
    "articleIndex": 0,
    "relevance": 65,
    "sentiment": "MODERATELY_SUPPORTING",
    "confidence": 75,
    "reasoning": "Article shows support but mentions some concerns"
  }
]`, topic)

	return sb.String()
}

func studyPrompt(insights *model.Insights, relevant []model.AnalysisResult, topic string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `You are a SENIOR POLITICAL ANALYST with 20+ years experience. Provide a REALISTIC, NUANCED analysis.

CRITICAL INSTRUCTIONS:
- Write in BOTH English and Arabic
- Be realistic - politics is never black and white
- Acknowledge complexity and mixed signals
- Mention limitations of the data
- DO NOT use *** or ** formatting - use plain text only

DATABASE ANALYSIS RESULTS for %q:
- Total database articles: %d
- Relevant articles: %d
- Strongly supporting: %d
- Moderately supporting: %d
- Slightly supporting: %d
- Neutral coverage: %d
- Slightly opposing: %d
- Moderately opposing: %d
- Strongly opposing: %d
- Coverage sources: %s

TOP RELEVANT ARTICLES:
`, topic,
		insights.TotalArticles, insights.RelevantArticles,
		insights.StronglySupporting, insights.ModeratelySupporting, insights.SlightlySupporting,
		insights.NeutralCount,
		insights.SlightlyOpposing, insights.ModeratelyOpposing, insights.StronglyOpposing,
		strings.Join(insights.Sources, ", "))

	limit := len(relevant)
	if limit > 8 {
		limit = 8
	}
	for i := 0; i < limit; i++ {
		r := relevant[i]
		fmt.Fprintf(&sb, `
%d. %s
   Source: %s
   Sentiment: %s
   Relevance: %d%%
   Reasoning: %s
---`, i+1, r.Article.Title, r.Article.Source, r.Sentiment, r.Relevance, r.Reasoning)
	}

	sb.WriteString(`

Provide professional analysis in both languages covering:

POLITICAL LANDSCAPE / المشهد السياسي: what does this mixed coverage tell us about the current situation?

MEDIA ANALYSIS / تحليل الإعلام: how are different sources framing this issue? What patterns emerge?

BALANCED ASSESSMENT / تقييم متوازن: what are the strengths and weaknesses in current coverage?

PROFESSIONAL INSIGHTS / رؤى مهنية: what should decision-makers know about this topic based on available data?

LIMITATIONS / القيود: what are the limitations of this analysis?

Write naturally in both languages, keep language professional but accessible, and be honest about uncertainties.`)

	return sb.String()
}
