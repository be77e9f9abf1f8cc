// Package scraper talks to the remote scraping API that harvests news
// sites and Instagram profiles.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/brahimakil/rasedweb/internal/model"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// AllNewsResponse is the scraper payload: articles grouped per source
// site. Consumers flatten the grouping before any merge.
type AllNewsResponse struct {
	ArticlesBySource map[string][]model.Article `json:"articlesBySource"`
}

// Sources lists the source names present in the response, sorted so the
// list is stable across calls.
func (r *AllNewsResponse) Sources() []string {
	names := make([]string, 0, len(r.ArticlesBySource))
	for name := range r.ArticlesBySource {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllNews fetches the full article set. Articles are returned grouped by
// source; each article is tagged with its source name when the scraper
// left the field empty.
func (c *Client) AllNews(ctx context.Context) (*AllNewsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/scraper/all-news/", nil)
	if err != nil {
		return nil, fmt.Errorf("scraper request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scraper fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scraper fetch: status %d", resp.StatusCode)
	}

	var raw AllNewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("scraper decode: %w", err)
	}

	for source, articles := range raw.ArticlesBySource {
		for i := range articles {
			if articles[i].Source == "" {
				articles[i].Source = source
			}
		}
		raw.ArticlesBySource[source] = articles
	}

	return &raw, nil
}

type instagramResponse struct {
	Success   bool                  `json:"success"`
	IsPrivate bool                  `json:"isPrivate"`
	Username  string                `json:"username"`
	FullName  string                `json:"fullName"`
	Biography string                `json:"biography"`
	Followers int                   `json:"followers"`
	Following int                   `json:"following"`
	PostCount int                   `json:"postCount"`
	Posts     []model.InstagramPost `json:"posts"`
}

// InstagramProfile fetches a profile with up to limit recent posts.
// Private accounts come back with IsPrivate set and no posts.
func (c *Client) InstagramProfile(ctx context.Context, username string, limit int) (*model.InstagramProfile, error) {
	q := url.Values{}
	q.Set("url", fmt.Sprintf("https://www.instagram.com/%s/", username))
	q.Set("limit", fmt.Sprintf("%d", limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/scraper/instagram?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("instagram request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("instagram fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instagram fetch: status %d", resp.StatusCode)
	}

	var raw instagramResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("instagram decode: %w", err)
	}

	if !raw.Success {
		return nil, fmt.Errorf("instagram fetch failed for %s", username)
	}

	profile := &model.InstagramProfile{
		Username:  raw.Username,
		FullName:  raw.FullName,
		Biography: raw.Biography,
		Followers: raw.Followers,
		Following: raw.Following,
		PostCount: raw.PostCount,
		IsPrivate: raw.IsPrivate,
	}
	if profile.Username == "" {
		profile.Username = username
	}
	if !raw.IsPrivate {
		profile.Posts = raw.Posts
	}

	return profile, nil
}
