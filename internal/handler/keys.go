package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brahimakil/rasedweb/internal/repository"
	"github.com/brahimakil/rasedweb/pkg/llm"
)

type KeyStore interface {
	APIKey(ownerID string) (string, error)
}

// ClientFactory builds a completion client bound to one user's API key.
type ClientFactory func(apiKey string) llm.CompletionClient

// completionClient resolves the caller's completion client, writing the
// error response itself when it cannot. Callers bail out on ok=false.
func completionClient(c *gin.Context, keys KeyStore, clients ClientFactory, ownerID string) (llm.CompletionClient, bool) {
	if ownerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return nil, false
	}

	key, err := keys.APIKey(ownerID)
	if errors.Is(err, repository.ErrKeyNotConfigured) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if err != nil {
		slog.Error("error reading api key", "error", err, "user_id", ownerID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}

	return clients(key), true
}
