package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brahimakil/rasedweb/internal/model"
	"github.com/brahimakil/rasedweb/internal/repository"
)

type FavoriteStore interface {
	ToggleFavorite(ownerID, articleID string, favorited bool, now string) (bool, error)
	Favorited(ownerID string) ([]model.Article, error)
}

type SavedStore interface {
	SaveMany(ownerID string, items []model.SavedArticle) (*repository.SaveManyResult, error)
	UnsaveMany(ownerID string, articleIDs []string) (*repository.UnsaveManyResult, error)
}

// SavedHandler serves the favorites flag on articles plus the legacy
// saved-items list. Both are per-user and require the identity header.
type SavedHandler struct {
	favorites FavoriteStore
	saved     SavedStore
	now       func() time.Time
}

func NewSavedHandler(favorites FavoriteStore, saved SavedStore) *SavedHandler {
	return &SavedHandler{favorites: favorites, saved: saved, now: time.Now}
}

func (h *SavedHandler) ToggleFavorite(c *gin.Context) {
	owner := c.GetHeader(ownerHeader)
	if owner == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req ToggleFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	articleID := c.Param("id")
	stamp := h.now().UTC().Format(time.RFC3339)

	updated, err := h.favorites.ToggleFavorite(owner, articleID, req.Favorited, stamp)
	if err != nil {
		slog.Error("error toggling favorite", "error", err, "article_id", articleID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": articleID, "favorited": req.Favorited})
}

func (h *SavedHandler) GetFavorites(c *gin.Context) {
	owner := c.GetHeader(ownerHeader)
	if owner == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	articles, err := h.favorites.Favorited(owner)
	if err != nil {
		slog.Error("error fetching favorites", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if articles == nil {
		articles = []model.Article{}
	}

	c.JSON(http.StatusOK, FavoritesResponse{Articles: articles, Total: len(articles)})
}

func (h *SavedHandler) SaveItems(c *gin.Context) {
	owner := c.GetHeader(ownerHeader)
	if owner == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one item is required"})
		return
	}

	result, err := h.saved.SaveMany(owner, req.Items)
	if err != nil {
		slog.Error("error saving items", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *SavedHandler) UnsaveItems(c *gin.Context) {
	owner := c.GetHeader(ownerHeader)
	if owner == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req UnsaveRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one id is required"})
		return
	}

	result, err := h.saved.UnsaveMany(owner, req.IDs)
	if err != nil {
		slog.Error("error unsaving items", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, result)
}
