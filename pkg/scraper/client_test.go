package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestAllNews_FlattensAndTagsSource(t *testing.T) {
	payload := map[string]any{
		"articlesBySource": map[string]any{
			"almayadeen.net/politics": []map[string]any{
				{"id": "a1", "title": "First article"},
				{"id": "a2", "title": "Second article", "source": "already-tagged"},
			},
			"other.example": []map[string]any{
				{"id": "b1", "title": "Third article"},
			},
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scraper/all-news/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	res, err := client.AllNews(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(res.ArticlesBySource))
	assert.Equal(t, "almayadeen.net/politics", res.ArticlesBySource["almayadeen.net/politics"][0].Source)
	assert.Equal(t, "already-tagged", res.ArticlesBySource["almayadeen.net/politics"][1].Source)
	assert.Equal(t, []string{"almayadeen.net/politics", "other.example"}, res.Sources())
}

func TestAllNews_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.AllNews(context.Background())
	assert.NotEqual(t, nil, err)
}

func TestInstagramProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scraper/instagram", r.URL.Path)
		assert.Equal(t, "https://www.instagram.com/someaccount/", r.URL.Query().Get("url"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success":   true,
			"isPrivate": false,
			"username":  "someaccount",
			"followers": 1200,
			"posts": []map[string]any{
				{"id": "p1", "imageUrl": "https://cdn.example/p1.jpg", "timestamp": "2026-03-01T10:00:00Z"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	profile, err := client.InstagramProfile(context.Background(), "someaccount", 10)

	assert.Equal(t, nil, err)
	assert.Equal(t, "someaccount", profile.Username)
	assert.Equal(t, 1200, profile.Followers)
	assert.Equal(t, 1, len(profile.Posts))
}

func TestInstagramProfile_PrivateAccountHasNoPosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success":   true,
			"isPrivate": true,
			"username":  "privateaccount",
			"posts": []map[string]any{
				{"id": "p1"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	profile, err := client.InstagramProfile(context.Background(), "privateaccount", 10)

	assert.Equal(t, nil, err)
	assert.Equal(t, true, profile.IsPrivate)
	assert.Equal(t, 0, len(profile.Posts))
}
