package dates

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/brahimakil/rasedweb/pkg/llm"
)

// Parser resolves scraped publication dates, which arrive in arbitrary
// formats and languages (Arabic relative times included). A standard
// parse is attempted first; only strings it cannot handle are sent to
// the completion service.
type Parser struct {
	client llm.CompletionClient
	now    func() time.Time
	logger *slog.Logger
}

func NewParser(client llm.CompletionClient) *Parser {
	return &Parser{
		client: client,
		now:    time.Now,
		logger: slog.Default(),
	}
}

// Parse returns the best-effort timestamp for a raw date string. It
// never fails: unresolvable input yields the current time.
func (p *Parser) Parse(ctx context.Context, raw, title string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return p.now()
	}

	if t, err := dateparse.ParseAny(raw); err == nil {
		return t
	}

	t, err := p.parseWithModel(ctx, raw, title)
	if err != nil {
		p.logger.Warn("model date parse failed, using current time", "date", raw, "error", err)
		return p.now()
	}
	return t
}

func (p *Parser) parseWithModel(ctx context.Context, raw, title string) (time.Time, error) {
	prompt := datePrompt(raw, title, p.now().UTC())

	completion, err := p.client.Complete(ctx, prompt, llm.Options{
		Temperature: 0.1,
		MaxTokens:   100,
	})
	if err != nil {
		return time.Time{}, err
	}

	text := strings.TrimSpace(completion.Text)
	if t, err := time.Parse(time.RFC3339, text); err == nil {
		return t, nil
	}
	// Models occasionally drop the timezone suffix.
	return dateparse.ParseAny(text)
}

func datePrompt(raw, title string, now time.Time) string {
	var sb strings.Builder
	sb.WriteString("You are a date parsing expert. Parse the following date/time string and convert it to ISO 8601 format (YYYY-MM-DDTHH:mm:ssZ).\n\n")
	sb.WriteString("The date might be in Arabic, English, or other languages. It might include relative terms like \"yesterday\", \"today\", \"2 hours ago\", etc.\n\n")
	sb.WriteString("Date string to parse: \"" + raw + "\"\n")
	sb.WriteString("Article title for context: \"" + title + "\"\n")
	sb.WriteString("Current date/time: " + now.Format(time.RFC3339) + "\n\n")
	sb.WriteString(`Rules:
1. If it's a relative time (like "2 hours ago"), calculate from the current time
2. If it's in Arabic, translate and parse it
3. If it's incomplete (missing year), assume current year
4. If it's just a time, assume today's date
5. If parsing fails, use current date/time

Respond with ONLY the ISO 8601 formatted date string. Example: 2024-01-15T14:30:00Z

Do not include any explanation, just the date string.`)
	return sb.String()
}
