package handler

import "github.com/brahimakil/rasedweb/internal/model"

type FilterRequest struct {
	Query string `json:"query"`
}

type FilterResponse struct {
	Articles []model.Article `json:"articles"`
	Total    int             `json:"total"`
	Query    string          `json:"query"`
}

type InsightsRequest struct {
	Topic string `json:"topic"`
}

type ToggleFavoriteRequest struct {
	Favorited bool `json:"favorited"`
}

type SaveRequest struct {
	Items []model.SavedArticle `json:"items"`
}

type UnsaveRequest struct {
	IDs []string `json:"ids"`
}

type CaptionRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Style   string `json:"style"`
}

type CaptionResponse struct {
	Caption string `json:"caption"`
}

type SourcesResponse struct {
	Sources []string `json:"sources"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type FavoritesResponse struct {
	Articles []model.Article `json:"articles"`
	Total    int             `json:"total"`
}

type ProfilesResponse struct {
	Profiles []model.InstagramProfile `json:"profiles"`
	Total    int                      `json:"total"`
}
