// Package analysis runs chunked LLM passes over article collections:
// semantic filtering against a free-text query and sentiment/relevance
// scoring against a tracked topic.
package analysis

import (
	"context"
	"log/slog"
	"time"
)

// Chunks are processed strictly one at a time with a pause in between.
// The serialization is deliberate: it keeps the request rate under the
// completion service's limits, trading latency for request-budget safety.
// Do not parallelize chunk dispatch.
func runChunks(ctx context.Context, total, chunkSize int, delay time.Duration, sleep func(time.Duration), logger *slog.Logger, run func(chunkIndex, start, end int) error) int {
	if chunkSize <= 0 || total == 0 {
		return 0
	}

	failed := 0
	chunkIndex := 0
	for start := 0; start < total; start += chunkSize {
		end := start + chunkSize
		if end > total {
			end = total
		}

		if err := run(chunkIndex, start, end); err != nil {
			// A failed chunk contributes zero results; the rest of the
			// run continues.
			logger.Error("chunk failed, skipping", "chunk", chunkIndex, "error", err)
			failed++
		}

		if end < total {
			sleep(delay)
		}
		chunkIndex++
	}
	return failed
}
