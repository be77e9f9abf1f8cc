package news

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brahimakil/rasedweb/internal/cache"
	"github.com/brahimakil/rasedweb/internal/model"
	"github.com/brahimakil/rasedweb/internal/repository"
	"github.com/brahimakil/rasedweb/pkg/scraper"
)

// saveBatchSize is how many articles go into one document-store batch
// commit.
const saveBatchSize = 10

type ScraperAPI interface {
	AllNews(ctx context.Context) (*scraper.AllNewsResponse, error)
}

type DocumentStore interface {
	ListByOwner(ownerID string) ([]model.Article, error)
	ExistingIDs(ownerID string) (map[string]struct{}, error)
	SaveBatch(ownerID string, articles []model.Article, now string) error
}

type SavedLookup interface {
	SavedMap(ownerID string) (map[string]model.SavedArticle, error)
}

// LoadResult is what the reconciler hands back to the UI layer.
type LoadResult struct {
	Articles           []model.Article `json:"articles"`
	NewArticlesCount   int             `json:"newArticlesCount"`
	TotalArticlesCount int             `json:"totalArticlesCount"`
	LastFetched        string          `json:"lastFetched"`
	AvailableSources   []string        `json:"availableSources"`
	FromCache          bool            `json:"fromCache"`
	Err                string          `json:"error,omitempty"`
}

// Reconciler merges three views of the article collection — the local
// cache, the remote document store, and the live scraper API — into one
// duplicate-free set. The document store is the durable owner; the cache
// is a disposable accelerator reconstructable from the other two.
type Reconciler struct {
	scraper   ScraperAPI
	store     DocumentStore
	saved     SavedLookup
	kv        cache.KV
	freshness *cache.Freshness
	breaker   *repository.Breaker
	now       func() time.Time
	logger    *slog.Logger
}

func NewReconciler(api ScraperAPI, store DocumentStore, saved SavedLookup, kv cache.KV, freshness *cache.Freshness, breaker *repository.Breaker) *Reconciler {
	return &Reconciler{
		scraper:   api,
		store:     store,
		saved:     saved,
		kv:        kv,
		freshness: freshness,
		breaker:   breaker,
		now:       time.Now,
		logger:    slog.Default(),
	}
}

// NeedsRefresh reports whether the cached set has outlived its freshness
// window and a full refetch is due.
func (r *Reconciler) NeedsRefresh(ctx context.Context) bool {
	return r.freshness.IsExpired(ctx)
}

// LoadArticles is the single entry point for the article collection.
//
// With isRefresh false and a non-empty cache, the cached set is returned
// without touching the scraper (the fast path). Otherwise the scraper is
// fetched unconditionally, net-new articles are persisted to the document
// store in batches, and the merged deduplicated set is written back to
// the cache and returned.
func (r *Reconciler) LoadArticles(ctx context.Context, ownerID string, isRefresh bool) (*LoadResult, error) {
	var cached []model.Article
	if _, err := r.kv.Get(ctx, cache.NewsKey, &cached); err != nil {
		r.logger.Error("error reading article cache", "error", err)
		cached = nil
	}

	if !isRefresh && len(cached) > 0 {
		if r.NeedsRefresh(ctx) {
			// Stale cache: run the full refetch as if the client had
			// asked for one, so the cached set still contributes to the
			// known-id set and the merge.
			r.logger.Info("cached articles older than freshness window, refetching")
			isRefresh = true
		} else {
			articles := r.overlaySaved(ownerID, Dedupe(cached))
			return &LoadResult{
				Articles:           articles,
				TotalArticlesCount: len(articles),
				LastFetched:        r.lastFetched(ctx),
				AvailableSources:   sourcesOf(articles),
				FromCache:          true,
			}, nil
		}
	}

	resp, err := r.scraper.AllNews(ctx)
	if err != nil {
		r.logger.Error("error fetching from scraper", "error", err)
		if len(cached) > 0 {
			articles := r.overlaySaved(ownerID, Dedupe(cached))
			return &LoadResult{
				Articles:           articles,
				TotalArticlesCount: len(articles),
				LastFetched:        r.lastFetched(ctx),
				AvailableSources:   sourcesOf(articles),
				FromCache:          true,
				Err:                err.Error(),
			}, nil
		}
		return nil, fmt.Errorf("load articles: %w", err)
	}

	nowStamp := r.now().UTC().Format(time.RFC3339)

	var fetched []model.Article
	for source, articles := range resp.ArticlesBySource {
		for _, a := range articles {
			if a.Source == "" {
				a.Source = source
			}
			a.FetchedAt = nowStamp
			fetched = append(fetched, a)
		}
	}
	fetched = Dedupe(fetched)

	remote := r.remoteArticles(ownerID)

	known := make(map[string]struct{}, len(remote)+len(cached))
	for _, a := range remote {
		known[a.ID] = struct{}{}
	}
	if isRefresh {
		for _, a := range cached {
			known[a.ID] = struct{}{}
		}
	}

	var fresh []model.Article
	for _, a := range fetched {
		if _, ok := known[a.ID]; !ok {
			deriveDisplayFields(&a)
			fresh = append(fresh, a)
		}
	}

	if ownerID != "" && len(fresh) > 0 {
		r.persistNew(ownerID, fresh)
	} else if ownerID == "" && len(fresh) > 0 {
		r.logger.Warn("not authenticated, new articles not persisted", "count", len(fresh))
	}

	var merged []model.Article
	if isRefresh {
		merged = append(append(merged, fresh...), cached...)
	} else {
		merged = append(append(merged, fresh...), remote...)
	}
	merged = Dedupe(merged)

	if err := r.kv.Set(ctx, cache.NewsKey, merged); err != nil {
		r.logger.Error("error writing article cache", "error", err)
	}
	if err := r.freshness.MarkFetched(ctx); err != nil {
		r.logger.Error("error recording fetch time", "error", err)
	}

	merged = r.overlaySaved(ownerID, merged)

	r.logger.Info("articles reconciled",
		"total", len(merged), "new", len(fresh), "sources", len(resp.ArticlesBySource))

	return &LoadResult{
		Articles:           merged,
		NewArticlesCount:   len(fresh),
		TotalArticlesCount: len(merged),
		LastFetched:        nowStamp,
		AvailableSources:   resp.Sources(),
		FromCache:          false,
	}, nil
}

// deriveDisplayFields resolves the summary and image through the
// extractor registry before an article is persisted or cached, so stored
// documents carry usable display fields regardless of the source shape.
func deriveDisplayFields(a *model.Article) {
	if s := Summary(*a); s != "" {
		a.Summary = s
	}
	a.ImageURL = ImageURL(*a)
}

// lastFetched reads the recorded fetch timestamp, empty when never set.
func (r *Reconciler) lastFetched(ctx context.Context) string {
	var stamp string
	if _, err := r.kv.Get(ctx, cache.LastFetchedKey, &stamp); err != nil {
		return ""
	}
	return stamp
}

// remoteArticles reads the owner's document-store set, degrading to empty
// when unauthenticated or when the store errors.
func (r *Reconciler) remoteArticles(ownerID string) []model.Article {
	if ownerID == "" {
		return nil
	}
	articles, err := r.store.ListByOwner(ownerID)
	if err != nil {
		r.logger.Error("error reading document store, continuing without it", "error", err)
		return nil
	}
	return articles
}

// persistNew writes net-new articles in fixed-size batches. Immediately
// before each commit the store is re-read so a concurrent writer's
// articles are not written twice; this re-check is independent of the
// caller's own new-article computation. A failed batch stops persistence
// for this run — the committed batches stay durable, and the unsaved
// remainder is picked up again on the next refresh because it is still
// absent from the store.
func (r *Reconciler) persistNew(ownerID string, fresh []model.Article) {
	for start := 0; start < len(fresh); start += saveBatchSize {
		end := start + saveBatchSize
		if end > len(fresh) {
			end = len(fresh)
		}
		batch := fresh[start:end]

		existing, err := r.store.ExistingIDs(ownerID)
		if err != nil {
			r.logger.Error("error re-checking document store before commit", "error", err)
			return
		}

		var toSave []model.Article
		for _, a := range batch {
			if _, ok := existing[a.ID]; ok {
				r.logger.Warn("blocking duplicate save", "article_id", a.ID)
				continue
			}
			toSave = append(toSave, a)
		}
		if len(toSave) == 0 {
			continue
		}

		commitStamp := r.now().UTC().Format(time.RFC3339)
		if err := r.store.SaveBatch(ownerID, toSave, commitStamp); err != nil {
			r.logger.Error("error saving batch, remaining articles deferred to next refresh",
				"error", err, "saved_so_far", start)
			return
		}
	}
}

// overlaySaved marks articles present in the legacy saved list. The
// lookup is breaker-gated: after a store failure it degrades to no
// overlay for the cooldown window instead of retrying every call.
func (r *Reconciler) overlaySaved(ownerID string, articles []model.Article) []model.Article {
	if ownerID == "" || r.saved == nil {
		return articles
	}
	if !r.breaker.Allow() {
		return articles
	}

	saved, err := r.saved.SavedMap(ownerID)
	if err != nil {
		r.logger.Error("error reading saved list", "error", err)
		r.breaker.MarkFailure()
		return articles
	}
	r.breaker.MarkSuccess()

	if len(saved) == 0 {
		return articles
	}
	for i := range articles {
		if _, ok := saved[articles[i].ID]; ok {
			articles[i].IsSaved = true
		}
	}
	return articles
}

func sourcesOf(articles []model.Article) []string {
	seen := make(map[string]struct{})
	var sources []string
	for _, a := range articles {
		if a.Source == "" {
			continue
		}
		if _, ok := seen[a.Source]; ok {
			continue
		}
		seen[a.Source] = struct{}{}
		sources = append(sources, a.Source)
	}
	return sources
}
