package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/brahimakil/rasedweb/internal/model"
	"github.com/brahimakil/rasedweb/internal/news"
	"github.com/brahimakil/rasedweb/pkg/llm"
)

const (
	filterChunkSize    = 10
	filterChunkDelay   = time.Second
	filterContentChars = 500
)

// Filter narrows an article set to those semantically matching a user
// query, one completion call per chunk of articles.
type Filter struct {
	client llm.CompletionClient
	sleep  func(time.Duration)
	logger *slog.Logger
}

func NewFilter(client llm.CompletionClient) *Filter {
	return &Filter{
		client: client,
		sleep:  time.Sleep,
		logger: slog.Default(),
	}
}

// MatchingArticles returns the subset of articles whose ids the model
// judged to match the query. Chunks that fail or produce unparseable
// output contribute no matches; they never abort the pass.
func (f *Filter) MatchingArticles(ctx context.Context, articles []model.Article, query string) ([]model.Article, error) {
	matching := make(map[string]struct{})

	runChunks(ctx, len(articles), filterChunkSize, filterChunkDelay, f.sleep, f.logger, func(chunkIndex, start, end int) error {
		chunk := articles[start:end]
		prompt := filterPrompt(chunk, query)

		result, err := f.client.Complete(ctx, prompt, llm.Options{
			Temperature: 0.1,
			MaxTokens:   1000,
		})
		if err != nil {
			return err
		}

		for _, id := range parseIDList(result.Text) {
			matching[id] = struct{}{}
		}
		return nil
	})

	var matched []model.Article
	for _, a := range articles {
		if _, ok := matching[a.ID]; ok {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

// parseIDList extracts article ids from a model response: first as a
// JSON array, then falling back to any quoted substrings, else nothing.
func parseIDList(text string) []string {
	if raw, ok := llm.ExtractJSONArray(text); ok {
		var ids []string
		if err := json.Unmarshal([]byte(raw), &ids); err == nil {
			return ids
		}
	}
	return llm.QuotedStrings(text)
}

func filterPrompt(chunk []model.Article, query string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `You are an AI assistant that helps filter news articles based on user queries.

User Query: %q

Please analyze the following news articles and determine which ones match the user's query. Consider the title, source, category, and content of each article. Look for semantic meaning, not just exact keyword matches.

Articles to analyze:
`, query)

	for i, a := range chunk {
		content := articleContent(a)
		if len(content) > filterContentChars {
			content = news.Truncate(content, filterContentChars) + "..."
		}
		fmt.Fprintf(&sb, `
Article %d:
ID: %s
Title: %s
Source: %s
Category: %s
Content: %s
Date: %s
---`, i+1, a.ID, a.Title, a.Source, articleCategory(a), content, a.Date)
	}

	sb.WriteString(`

Please respond with ONLY a JSON array containing the IDs of articles that match the query. For example: ["id1", "id3", "id5"]

If no articles match, respond with an empty array: []`)

	return sb.String()
}

func articleContent(a model.Article) string {
	if s := news.Summary(a); s != "" {
		return s
	}
	return a.Title
}

func articleCategory(a model.Article) string {
	if a.Category != "" {
		return a.Category
	}
	if a.FullContent != nil {
		return a.FullContent.Category
	}
	return ""
}
