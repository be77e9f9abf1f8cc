package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brahimakil/rasedweb/internal/analysis"
)

type AnalysisHandler struct {
	loader  ArticleLoader
	keys    KeyStore
	clients ClientFactory
}

func NewAnalysisHandler(loader ArticleLoader, keys KeyStore, clients ClientFactory) *AnalysisHandler {
	return &AnalysisHandler{loader: loader, keys: keys, clients: clients}
}

// GetInsights scores the current article set against a topic and returns
// the aggregated sentiment composition plus the narrative study.
func (h *AnalysisHandler) GetInsights(c *gin.Context) {
	var req InsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Topic is required"})
		return
	}

	owner := c.GetHeader(ownerHeader)
	client, ok := completionClient(c, h.keys, h.clients, owner)
	if !ok {
		return
	}

	result, err := h.loader.LoadArticles(c.Request.Context(), owner, false)
	if err != nil {
		slog.Error("error loading articles for insights", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load articles"})
		return
	}

	scorer := analysis.NewScorer(client)
	insights, err := scorer.GenerateInsights(c.Request.Context(), result.Articles, req.Topic)
	if err != nil {
		slog.Error("error generating insights", "error", err, "topic", req.Topic)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Analysis failed"})
		return
	}

	c.JSON(http.StatusOK, insights)
}
