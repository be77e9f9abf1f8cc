package news

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/brahimakil/rasedweb/internal/cache"
	"github.com/brahimakil/rasedweb/internal/model"
	"github.com/brahimakil/rasedweb/internal/repository"
	"github.com/brahimakil/rasedweb/pkg/scraper"
)

type fakeKV struct {
	values map[string][]byte
	getErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: map[string][]byte{}}
}

func (f *fakeKV) Get(ctx context.Context, key string, v any) (bool, error) {
	if f.getErr != nil {
		return false, f.getErr
	}
	data, ok := f.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, v)
}

func (f *fakeKV) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.values[key] = data
	return nil
}

func (f *fakeKV) cachedArticles(t *testing.T) []model.Article {
	t.Helper()
	var articles []model.Article
	if data, ok := f.values[cache.NewsKey]; ok {
		if err := json.Unmarshal(data, &articles); err != nil {
			t.Fatalf("decoding cached articles: %v", err)
		}
	}
	return articles
}

type fakeScraper struct {
	bySource map[string][]model.Article
	err      error
	calls    int
}

func (f *fakeScraper) AllNews(ctx context.Context) (*scraper.AllNewsResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &scraper.AllNewsResponse{ArticlesBySource: f.bySource}, nil
}

type fakeStore struct {
	articles    []model.Article
	listErr     error
	saveErr     error
	saveBatches [][]model.Article
	saveStamps  []string
}

func (f *fakeStore) ListByOwner(ownerID string) ([]model.Article, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.articles, nil
}

func (f *fakeStore) ExistingIDs(ownerID string) (map[string]struct{}, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	ids := make(map[string]struct{})
	for _, a := range f.articles {
		ids[a.ID] = struct{}{}
	}
	return ids, nil
}

func (f *fakeStore) SaveBatch(ownerID string, articles []model.Article, now string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saveBatches = append(f.saveBatches, articles)
	f.saveStamps = append(f.saveStamps, now)
	f.articles = append(f.articles, articles...)
	return nil
}

func (f *fakeStore) savedCount() int {
	n := 0
	for _, b := range f.saveBatches {
		n += len(b)
	}
	return n
}

type fakeSaved struct {
	saved map[string]model.SavedArticle
	err   error
}

func (f *fakeSaved) SavedMap(ownerID string) (map[string]model.SavedArticle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.saved, nil
}

func newTestReconciler(api ScraperAPI, store DocumentStore, saved SavedLookup, kv cache.KV) *Reconciler {
	r := NewReconciler(api, store, saved, kv, cache.NewFreshness(kv), repository.NewBreaker(time.Minute))
	r.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return r
}

func seedCache(t *testing.T, kv *fakeKV, articles []model.Article) {
	t.Helper()
	if err := kv.Set(context.Background(), cache.NewsKey, articles); err != nil {
		t.Fatal(err)
	}
	seedLastFetched(t, kv, time.Now())
}

func seedLastFetched(t *testing.T, kv *fakeKV, at time.Time) {
	t.Helper()
	if err := kv.Set(context.Background(), cache.LastFetchedKey, at.UTC().Format(time.RFC3339Nano)); err != nil {
		t.Fatal(err)
	}
}

func TestLoadArticles_FastPath(t *testing.T) {
	kv := newFakeKV()
	seedCache(t, kv, []model.Article{{ID: "a"}, {ID: "b"}, {ID: "a"}})
	api := &fakeScraper{}

	r := newTestReconciler(api, &fakeStore{}, &fakeSaved{}, kv)
	res, err := r.LoadArticles(context.Background(), "user-1", false)

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, api.calls)
	assert.Equal(t, true, res.FromCache)
	assert.Equal(t, 2, len(res.Articles))
	assert.Equal(t, "a", res.Articles[0].ID)
	assert.Equal(t, "b", res.Articles[1].ID)
}

func TestLoadArticles_StaleCacheRefetches(t *testing.T) {
	kv := newFakeKV()
	seedCache(t, kv, []model.Article{{ID: "old-1"}})
	seedLastFetched(t, kv, time.Now().Add(-3*time.Hour))
	store := &fakeStore{}
	api := &fakeScraper{bySource: map[string][]model.Article{
		"site.example": {{ID: "old-1"}, {ID: "new-1"}},
	}}

	r := newTestReconciler(api, store, &fakeSaved{}, kv)
	res, err := r.LoadArticles(context.Background(), "user-1", false)

	assert.Equal(t, nil, err)
	// An expired cache is never served as-is, even without isRefresh.
	assert.Equal(t, 1, api.calls)
	assert.Equal(t, false, res.FromCache)
	assert.Equal(t, 1, res.NewArticlesCount)
	assert.Equal(t, 2, res.TotalArticlesCount)
	assert.Equal(t, "new-1", res.Articles[0].ID)
}

func TestLoadArticles_EmptyEverywhere(t *testing.T) {
	kv := newFakeKV()
	store := &fakeStore{}
	api := &fakeScraper{bySource: map[string][]model.Article{
		"site.example": {{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}, {ID: "5"}},
	}}

	r := newTestReconciler(api, store, &fakeSaved{}, kv)
	res, err := r.LoadArticles(context.Background(), "user-1", false)

	assert.Equal(t, nil, err)
	assert.Equal(t, 5, res.NewArticlesCount)
	assert.Equal(t, 5, res.TotalArticlesCount)
	assert.Equal(t, 5, store.savedCount())
	assert.Equal(t, false, res.FromCache)
	assert.Equal(t, []string{"site.example"}, res.AvailableSources)
}

func TestLoadArticles_NoDuplicatePersistence(t *testing.T) {
	kv := newFakeKV()
	store := &fakeStore{articles: []model.Article{{ID: "A1", Title: "already stored"}}}
	api := &fakeScraper{bySource: map[string][]model.Article{
		"site.example": {{ID: "A1"}, {ID: "A2"}},
	}}

	r := newTestReconciler(api, store, &fakeSaved{}, kv)
	res, err := r.LoadArticles(context.Background(), "user-1", false)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, res.NewArticlesCount)
	assert.Equal(t, 1, store.savedCount())
	assert.Equal(t, "A2", store.saveBatches[0][0].ID)
	assert.Equal(t, 2, res.TotalArticlesCount)
}

func TestLoadArticles_ScraperDuplicates(t *testing.T) {
	kv := newFakeKV()
	store := &fakeStore{}
	api := &fakeScraper{bySource: map[string][]model.Article{
		"X": {{ID: "a"}, {ID: "a"}},
		"Y": {{ID: "b"}},
	}}

	r := newTestReconciler(api, store, &fakeSaved{}, kv)
	res, err := r.LoadArticles(context.Background(), "user-1", false)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, res.NewArticlesCount)
	assert.Equal(t, 2, len(res.Articles))

	ids := map[string]bool{}
	for _, a := range res.Articles {
		assert.Equal(t, false, ids[a.ID])
		ids[a.ID] = true
	}
	assert.Equal(t, true, ids["a"])
	assert.Equal(t, true, ids["b"])
}

func TestLoadArticles_ScraperFailureFallsBackToCache(t *testing.T) {
	kv := newFakeKV()
	seedCache(t, kv, []model.Article{{ID: "cached-1"}})
	api := &fakeScraper{err: errors.New("network unreachable")}

	r := newTestReconciler(api, &fakeStore{}, &fakeSaved{}, kv)
	res, err := r.LoadArticles(context.Background(), "user-1", true)

	assert.Equal(t, nil, err)
	assert.Equal(t, true, res.FromCache)
	assert.NotEqual(t, "", res.Err)
	assert.Equal(t, 1, len(res.Articles))
}

func TestLoadArticles_ScraperFailureEmptyCachePropagates(t *testing.T) {
	kv := newFakeKV()
	api := &fakeScraper{err: errors.New("network unreachable")}

	r := newTestReconciler(api, &fakeStore{}, &fakeSaved{}, kv)
	_, err := r.LoadArticles(context.Background(), "user-1", false)

	assert.NotEqual(t, nil, err)
}

func TestLoadArticles_RefreshMergesCacheAndNew(t *testing.T) {
	kv := newFakeKV()
	seedCache(t, kv, []model.Article{{ID: "old-1"}, {ID: "old-2"}})
	store := &fakeStore{}
	api := &fakeScraper{bySource: map[string][]model.Article{
		"site.example": {{ID: "old-1"}, {ID: "new-1"}},
	}}

	r := newTestReconciler(api, store, &fakeSaved{}, kv)
	res, err := r.LoadArticles(context.Background(), "user-1", true)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, res.NewArticlesCount)
	assert.Equal(t, 3, res.TotalArticlesCount)
	// New articles lead the merged set: discovery order is newest first.
	assert.Equal(t, "new-1", res.Articles[0].ID)

	cached := kv.cachedArticles(t)
	assert.Equal(t, 3, len(cached))
}

func TestLoadArticles_BatchedPersistence(t *testing.T) {
	kv := newFakeKV()
	store := &fakeStore{}
	var articles []model.Article
	for i := 0; i < 23; i++ {
		articles = append(articles, model.Article{ID: string(rune('a'+i/10)) + string(rune('0'+i%10))})
	}
	api := &fakeScraper{bySource: map[string][]model.Article{"site.example": articles}}

	r := newTestReconciler(api, store, &fakeSaved{}, kv)
	res, err := r.LoadArticles(context.Background(), "user-1", false)

	assert.Equal(t, nil, err)
	assert.Equal(t, 23, res.NewArticlesCount)
	assert.Equal(t, 3, len(store.saveBatches))
	assert.Equal(t, 10, len(store.saveBatches[0]))
	assert.Equal(t, 10, len(store.saveBatches[1]))
	assert.Equal(t, 3, len(store.saveBatches[2]))
	// One shared stamp per batch commit.
	for _, stamp := range store.saveStamps {
		assert.NotEqual(t, "", stamp)
	}
}

func TestLoadArticles_PersistsDerivedSummaryAndImage(t *testing.T) {
	kv := newFakeKV()
	store := &fakeStore{}
	api := &fakeScraper{bySource: map[string][]model.Article{
		"almayadeen.net/politics": {{
			ID: "n1",
			FullContent: &model.FullContent{
				FullArticle: &model.FullArticle{
					Content:   []model.ContentBlock{{Type: "paragraph", Content: "نص الخبر الكامل هنا."}},
					MainImage: &model.MainImage{URL: "https://cdn.example/main.jpg"},
				},
			},
		}},
		"plain.example": {{ID: "n2", Title: "No media at all"}},
	}}

	r := newTestReconciler(api, store, &fakeSaved{}, kv)
	res, err := r.LoadArticles(context.Background(), "user-1", false)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, store.savedCount())

	byID := map[string]model.Article{}
	for _, b := range store.saveBatches {
		for _, a := range b {
			byID[a.ID] = a
		}
	}
	// Stored documents carry display fields resolved from the nested
	// source shape, not the raw scraper fields.
	assert.Equal(t, "نص الخبر الكامل هنا.", byID["n1"].Summary)
	assert.Equal(t, "https://cdn.example/main.jpg", byID["n1"].ImageURL)
	assert.Equal(t, placeholderImg, byID["n2"].ImageURL)

	// The served and cached sets carry the same derived fields.
	for _, a := range res.Articles {
		assert.NotEqual(t, "", a.ImageURL)
	}
}

func TestLoadArticles_UnauthenticatedDegrades(t *testing.T) {
	kv := newFakeKV()
	store := &fakeStore{articles: []model.Article{{ID: "stored-1"}}}
	api := &fakeScraper{bySource: map[string][]model.Article{
		"site.example": {{ID: "fresh-1"}},
	}}

	r := newTestReconciler(api, store, &fakeSaved{}, kv)
	res, err := r.LoadArticles(context.Background(), "", false)

	assert.Equal(t, nil, err)
	// Without an identity the remote store is treated as empty and
	// nothing is persisted.
	assert.Equal(t, 0, len(store.saveBatches))
	assert.Equal(t, 1, res.NewArticlesCount)
	assert.Equal(t, 1, res.TotalArticlesCount)
}

func TestLoadArticles_SavedOverlay(t *testing.T) {
	kv := newFakeKV()
	seedCache(t, kv, []model.Article{{ID: "a"}, {ID: "b"}})
	saved := &fakeSaved{saved: map[string]model.SavedArticle{
		"b": {ID: "b"},
	}}

	r := newTestReconciler(&fakeScraper{}, &fakeStore{}, saved, kv)
	res, err := r.LoadArticles(context.Background(), "user-1", false)

	assert.Equal(t, nil, err)
	assert.Equal(t, false, res.Articles[0].IsSaved)
	assert.Equal(t, true, res.Articles[1].IsSaved)
}

func TestLoadArticles_SavedLookupFailureTripsBreaker(t *testing.T) {
	kv := newFakeKV()
	seedCache(t, kv, []model.Article{{ID: "a"}})
	saved := &fakeSaved{err: errors.New("store down")}

	r := newTestReconciler(&fakeScraper{}, &fakeStore{}, saved, kv)

	res, err := r.LoadArticles(context.Background(), "user-1", false)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(res.Articles))
	assert.Equal(t, false, r.breaker.Allow())

	// Next call degrades silently instead of retrying the saved lookup.
	saved.err = nil
	saved.saved = map[string]model.SavedArticle{"a": {ID: "a"}}
	res, err = r.LoadArticles(context.Background(), "user-1", false)
	assert.Equal(t, nil, err)
	assert.Equal(t, false, res.Articles[0].IsSaved)
}
