package model

// Sentiment grades run from strong opposition to strong support with a
// neutral midpoint. The string values double as the wire format exchanged
// with the completion service.
type Sentiment string

const (
	StronglyOpposing     Sentiment = "STRONGLY_OPPOSING"
	ModeratelyOpposing   Sentiment = "MODERATELY_OPPOSING"
	SlightlyOpposing     Sentiment = "SLIGHTLY_OPPOSING"
	Neutral              Sentiment = "NEUTRAL"
	SlightlySupporting   Sentiment = "SLIGHTLY_SUPPORTING"
	ModeratelySupporting Sentiment = "MODERATELY_SUPPORTING"
	StronglySupporting   Sentiment = "STRONGLY_SUPPORTING"
)

func (s Sentiment) Supporting() bool {
	switch s {
	case SlightlySupporting, ModeratelySupporting, StronglySupporting:
		return true
	}
	return false
}

func (s Sentiment) Opposing() bool {
	switch s {
	case SlightlyOpposing, ModeratelyOpposing, StronglyOpposing:
		return true
	}
	return false
}

// AnalysisResult is one LLM judgment for one article in one analysis
// pass. Results are ephemeral and recomputed on every request.
type AnalysisResult struct {
	ArticleIndex int       `json:"articleIndex"`
	GlobalIndex  int       `json:"globalIndex"`
	Relevance    int       `json:"relevance"`
	Sentiment    Sentiment `json:"sentiment"`
	Confidence   int       `json:"confidence"`
	Reasoning    string    `json:"reasoning"`
	Article      *Article  `json:"-"`
}

// Insights is the aggregate view over one scoring pass.
type Insights struct {
	TotalArticles        int       `json:"totalArticles"`
	RelevantArticles     int       `json:"relevantArticles"`
	SupportingCount      int       `json:"supportingCount"`
	OpposingCount        int       `json:"opposingCount"`
	NeutralCount         int       `json:"neutralCount"`
	SupportingPercentage int       `json:"supportingPercentage"`
	OpposingPercentage   int       `json:"opposingPercentage"`
	NeutralPercentage    int       `json:"neutralPercentage"`
	StronglySupporting   int       `json:"stronglySupporting"`
	ModeratelySupporting int       `json:"moderatelySupporting"`
	SlightlySupporting   int       `json:"slightlySupporting"`
	StronglyOpposing     int       `json:"stronglyOpposing"`
	ModeratelyOpposing   int       `json:"moderatelyOpposing"`
	SlightlyOpposing     int       `json:"slightlyOpposing"`
	Study                string    `json:"study,omitempty"`
	Sources              []string  `json:"sources"`
	RelatedArticles      []Article `json:"relatedArticles"`
	LastUpdated          string    `json:"lastUpdated"`
}
