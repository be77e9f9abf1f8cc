package llm

import "context"

type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Completion struct {
	Text  string
	Usage Usage
	Model string
}

// CompletionClient is the single operation every text-completion backend
// must provide. Zero-value Options fields fall back to provider defaults.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string, opts Options) (*Completion, error)
}
