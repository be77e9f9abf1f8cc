package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brahimakil/rasedweb/internal/analysis"
	"github.com/brahimakil/rasedweb/internal/model"
	"github.com/brahimakil/rasedweb/internal/news"
)

const ownerHeader = "X-User-ID"

type ArticleLoader interface {
	LoadArticles(ctx context.Context, ownerID string, isRefresh bool) (*news.LoadResult, error)
}

// DateParser normalizes a raw scraped date string, falling back to the
// current time when the string is unresolvable.
type DateParser interface {
	Parse(ctx context.Context, raw, title string) time.Time
}

type NewsHandler struct {
	loader  ArticleLoader
	keys    KeyStore
	clients ClientFactory
	dates   DateParser
}

func NewNewsHandler(loader ArticleLoader, keys KeyStore, clients ClientFactory, dates DateParser) *NewsHandler {
	return &NewsHandler{loader: loader, keys: keys, clients: clients, dates: dates}
}

// GetNews returns the reconciled article set. The isRefresh query forces
// a scraper round-trip even when the cache is fresh; parseDates
// normalizes every article date to RFC3339 and re-sorts newest first.
func (h *NewsHandler) GetNews(c *gin.Context) {
	isRefresh := c.Query("isRefresh") == "true"

	result, err := h.loader.LoadArticles(c.Request.Context(), c.GetHeader(ownerHeader), isRefresh)
	if err != nil {
		slog.Error("error loading articles", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load articles"})
		return
	}

	if c.Query("parseDates") == "true" && h.dates != nil {
		result.Articles = h.normalizeDates(c.Request.Context(), result.Articles)
	}

	c.JSON(http.StatusOK, result)
}

func (h *NewsHandler) normalizeDates(ctx context.Context, articles []model.Article) []model.Article {
	type dated struct {
		article model.Article
		at      time.Time
	}
	items := make([]dated, len(articles))
	for i, a := range articles {
		at := h.dates.Parse(ctx, a.Date, a.Title)
		a.Date = at.UTC().Format(time.RFC3339)
		items[i] = dated{article: a, at: at}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].at.After(items[j].at)
	})

	out := make([]model.Article, len(items))
	for i, it := range items {
		out[i] = it.article
	}
	return out
}

func (h *NewsHandler) GetSources(c *gin.Context) {
	result, err := h.loader.LoadArticles(c.Request.Context(), c.GetHeader(ownerHeader), false)
	if err != nil {
		slog.Error("error loading articles for sources", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load articles"})
		return
	}

	c.JSON(http.StatusOK, SourcesResponse{Sources: result.AvailableSources})
}

func (h *NewsHandler) GetCategories(c *gin.Context) {
	result, err := h.loader.LoadArticles(c.Request.Context(), c.GetHeader(ownerHeader), false)
	if err != nil {
		slog.Error("error loading articles for categories", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load articles"})
		return
	}

	c.JSON(http.StatusOK, CategoriesResponse{Categories: categoriesOf(result.Articles)})
}

// FilterNews narrows the current article set to those semantically
// matching the query, using the caller's own completion API key.
func (h *NewsHandler) FilterNews(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}

	owner := c.GetHeader(ownerHeader)
	client, ok := completionClient(c, h.keys, h.clients, owner)
	if !ok {
		return
	}

	result, err := h.loader.LoadArticles(c.Request.Context(), owner, false)
	if err != nil {
		slog.Error("error loading articles for filter", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load articles"})
		return
	}

	filter := analysis.NewFilter(client)
	matched, err := filter.MatchingArticles(c.Request.Context(), result.Articles, req.Query)
	if err != nil {
		slog.Error("error filtering articles", "error", err, "query", req.Query)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Filtering failed"})
		return
	}

	c.JSON(http.StatusOK, FilterResponse{
		Articles: matched,
		Total:    len(matched),
		Query:    req.Query,
	})
}

func (h *NewsHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func categoriesOf(articles []model.Article) []string {
	seen := map[string]struct{}{}
	var categories []string
	for _, a := range articles {
		category := a.Category
		if category == "" && a.FullContent != nil {
			category = a.FullContent.Category
		}
		if category == "" {
			continue
		}
		if _, ok := seen[category]; ok {
			continue
		}
		seen[category] = struct{}{}
		categories = append(categories, category)
	}
	sort.Strings(categories)
	if categories == nil {
		categories = []string{}
	}
	return categories
}
