package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/brahimakil/rasedweb/internal/model"
)

type InstagramService interface {
	FetchProfile(ctx context.Context, username string, limit int) (*model.InstagramProfile, error)
	SaveProfile(ctx context.Context, profile *model.InstagramProfile) error
	Profiles(ctx context.Context) ([]model.InstagramProfile, error)
	RemoveProfile(ctx context.Context, username string) (bool, error)
	GenerateCaption(ctx context.Context, title, content, style string) (string, error)
}

type InstagramHandler struct {
	service InstagramService
}

func NewInstagramHandler(service InstagramService) *InstagramHandler {
	return &InstagramHandler{service: service}
}

// GetProfile scrapes a profile live and adds it to the tracked list.
func (h *InstagramHandler) GetProfile(c *gin.Context) {
	username := c.Param("username")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	profile, err := h.service.FetchProfile(c.Request.Context(), username, limit)
	if err != nil {
		slog.Error("error fetching instagram profile", "error", err, "username", username)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch profile"})
		return
	}

	if err := h.service.SaveProfile(c.Request.Context(), profile); err != nil {
		slog.Error("error saving instagram profile", "error", err, "username", username)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *InstagramHandler) GetProfiles(c *gin.Context) {
	profiles, err := h.service.Profiles(c.Request.Context())
	if err != nil {
		slog.Error("error listing instagram profiles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list profiles"})
		return
	}

	c.JSON(http.StatusOK, ProfilesResponse{Profiles: profiles, Total: len(profiles)})
}

func (h *InstagramHandler) RemoveProfile(c *gin.Context) {
	username := c.Param("username")

	removed, err := h.service.RemoveProfile(c.Request.Context(), username)
	if err != nil {
		slog.Error("error removing instagram profile", "error", err, "username", username)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove profile"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not tracked"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": username, "removed": true})
}

func (h *InstagramHandler) GenerateCaption(c *gin.Context) {
	var req CaptionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	caption, err := h.service.GenerateCaption(c.Request.Context(), req.Title, req.Content, req.Style)
	if err != nil {
		slog.Error("error generating caption", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Caption generation failed"})
		return
	}

	c.JSON(http.StatusOK, CaptionResponse{Caption: caption})
}
