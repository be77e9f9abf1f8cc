package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/brahimakil/rasedweb/internal/model"
	"github.com/brahimakil/rasedweb/pkg/llm"
)

const (
	scoreChunkSize  = 15
	scoreChunkDelay = 1500 * time.Millisecond

	// relevanceFloor gates articles into the composition percentages;
	// relatedFloor is the looser gate for the related shortlist.
	relevanceFloor = 40
	relatedFloor   = 25
	relatedLimit   = 12
)

// Scorer runs the sentiment/relevance pass for a tracked topic and
// aggregates the per-article judgments into Insights.
type Scorer struct {
	client llm.CompletionClient
	sleep  func(time.Duration)
	now    func() time.Time
	logger *slog.Logger
}

func NewScorer(client llm.CompletionClient) *Scorer {
	return &Scorer{
		client: client,
		sleep:  time.Sleep,
		now:    time.Now,
		logger: slog.Default(),
	}
}

// Score sends the articles through the completion service in chunks and
// returns every judgment obtained, each re-attached to its source
// article via the chunk offset. Failed chunks are skipped.
func (s *Scorer) Score(ctx context.Context, articles []model.Article, topic string) []model.AnalysisResult {
	var results []model.AnalysisResult

	runChunks(ctx, len(articles), scoreChunkSize, scoreChunkDelay, s.sleep, s.logger, func(chunkIndex, start, end int) error {
		chunk := articles[start:end]
		prompt := scoringPrompt(chunk, topic)

		completion, err := s.client.Complete(ctx, prompt, llm.Options{MaxTokens: 3000})
		if err != nil {
			return err
		}

		raw, ok := llm.ExtractJSONArray(completion.Text)
		if !ok {
			return fmt.Errorf("no JSON array in response")
		}
		var judged []model.AnalysisResult
		if err := json.Unmarshal([]byte(raw), &judged); err != nil {
			return fmt.Errorf("parsing judgments: %w", err)
		}

		for i := range judged {
			if i >= len(chunk) {
				break
			}
			judged[i].GlobalIndex = start + i
			judged[i].Article = &articles[start+i]
			results = append(results, judged[i])
		}
		return nil
	})

	return results
}

// GenerateInsights scores the articles and aggregates the judgments:
// sentiment composition over articles clearing the relevance floor, a
// related-articles shortlist, and a synthesized narrative study.
func (s *Scorer) GenerateInsights(ctx context.Context, articles []model.Article, topic string) (*model.Insights, error) {
	results := s.Score(ctx, articles, topic)

	counts := map[model.Sentiment]int{}
	var relevant []model.AnalysisResult
	for _, r := range results {
		if r.Relevance > relevanceFloor {
			counts[r.Sentiment]++
			relevant = append(relevant, r)
		}
	}

	supporting := counts[model.StronglySupporting] + counts[model.ModeratelySupporting] + counts[model.SlightlySupporting]
	opposing := counts[model.StronglyOpposing] + counts[model.ModeratelyOpposing] + counts[model.SlightlyOpposing]
	neutral := counts[model.Neutral]

	insights := &model.Insights{
		TotalArticles:        len(articles),
		RelevantArticles:     len(relevant),
		SupportingCount:      supporting,
		OpposingCount:        opposing,
		NeutralCount:         neutral,
		SupportingPercentage: percentage(supporting, len(relevant)),
		OpposingPercentage:   percentage(opposing, len(relevant)),
		NeutralPercentage:    percentage(neutral, len(relevant)),
		StronglySupporting:   counts[model.StronglySupporting],
		ModeratelySupporting: counts[model.ModeratelySupporting],
		SlightlySupporting:   counts[model.SlightlySupporting],
		StronglyOpposing:     counts[model.StronglyOpposing],
		ModeratelyOpposing:   counts[model.ModeratelyOpposing],
		SlightlyOpposing:     counts[model.SlightlyOpposing],
		Sources:              uniqueSources(relevant),
		RelatedArticles:      relatedShortlist(results),
		LastUpdated:          s.now().UTC().Format(time.RFC3339),
	}

	if study, err := s.synthesizeStudy(ctx, insights, relevant, topic); err != nil {
		s.logger.Error("error generating study text, returning numbers only", "error", err)
	} else {
		insights.Study = study
	}

	return insights, nil
}

func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// relatedShortlist picks the top related articles by relevance. When two
// results sit within 10 relevance points of each other they are ordered
// by sentiment label instead, a coarse tie-break that pulls category
// variety into the shortlist rather than stacking near-equal relevances.
func relatedShortlist(results []model.AnalysisResult) []model.Article {
	var related []model.AnalysisResult
	for _, r := range results {
		if r.Relevance > relatedFloor {
			related = append(related, r)
		}
	}

	sort.SliceStable(related, func(i, j int) bool {
		a, b := related[i], related[j]
		if abs(a.Relevance-b.Relevance) < 10 {
			return a.Sentiment < b.Sentiment
		}
		return a.Relevance > b.Relevance
	})

	if len(related) > relatedLimit {
		related = related[:relatedLimit]
	}

	articles := make([]model.Article, 0, len(related))
	for _, r := range related {
		if r.Article != nil {
			articles = append(articles, *r.Article)
		}
	}
	return articles
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func uniqueSources(results []model.AnalysisResult) []string {
	seen := map[string]struct{}{}
	var sources []string
	for _, r := range results {
		if r.Article == nil || r.Article.Source == "" {
			continue
		}
		if _, ok := seen[r.Article.Source]; ok {
			continue
		}
		seen[r.Article.Source] = struct{}{}
		sources = append(sources, r.Article.Source)
	}
	if sources == nil {
		sources = []string{}
	}
	return sources
}

func (s *Scorer) synthesizeStudy(ctx context.Context, insights *model.Insights, relevant []model.AnalysisResult, topic string) (string, error) {
	prompt := studyPrompt(insights, relevant, topic)
	completion, err := s.client.Complete(ctx, prompt, llm.Options{MaxTokens: 2000})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(completion.Text), nil
}
