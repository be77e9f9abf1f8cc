// Package social tracks Instagram profiles alongside the news pipeline:
// scraped profile snapshots live in the local cache, and the completion
// service turns articles into post captions.
package social

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brahimakil/rasedweb/internal/cache"
	"github.com/brahimakil/rasedweb/internal/model"
	"github.com/brahimakil/rasedweb/pkg/llm"
)

const defaultPostLimit = 10

const noImagePlaceholder = `data:image/svg+xml;charset=UTF-8,%3Csvg xmlns="http://www.w3.org/2000/svg" width="300" height="200" viewBox="0 0 300 200"%3E%3Crect fill="%23EEE" width="300" height="200"/%3E%3Ctext fill="%23AAA" font-family="sans-serif" font-size="18" dy=".3em" text-anchor="middle" x="150" y="100"%3ENo Image%3C/text%3E%3C/svg%3E`

type ProfileFetcher interface {
	InstagramProfile(ctx context.Context, username string, limit int) (*model.InstagramProfile, error)
}

type KV interface {
	Get(ctx context.Context, key string, v any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

type Service struct {
	fetcher ProfileFetcher
	kv      KV
	client  llm.CompletionClient
	now     func() time.Time
}

func NewService(fetcher ProfileFetcher, kv KV, client llm.CompletionClient) *Service {
	return &Service{
		fetcher: fetcher,
		kv:      kv,
		client:  client,
		now:     time.Now,
	}
}

// FetchProfile scrapes a profile and normalizes its posts: every post
// gets a timestamp, and posts without an image fall back to an inline
// placeholder so clients never render a broken tag.
func (s *Service) FetchProfile(ctx context.Context, username string, limit int) (*model.InstagramProfile, error) {
	if limit <= 0 {
		limit = defaultPostLimit
	}

	profile, err := s.fetcher.InstagramProfile(ctx, username, limit)
	if err != nil {
		return nil, err
	}

	stamp := s.now().UTC().Format(time.RFC3339)
	for i := range profile.Posts {
		post := &profile.Posts[i]
		if post.Timestamp == "" {
			post.Timestamp = stamp
		}
		switch {
		case post.ImageURL == "":
			post.ImageURL = noImagePlaceholder
		case strings.Contains(post.ImageURL, "instagram.f"):
			// CDN URLs expire; keep the original around so a client can
			// retry it before falling back.
			post.OriginalImageURL = post.ImageURL
		}
	}
	profile.LastFetched = stamp

	return profile, nil
}

// SaveProfile upserts a profile snapshot into the cached profile list,
// keyed by username.
func (s *Service) SaveProfile(ctx context.Context, profile *model.InstagramProfile) error {
	profiles, err := s.Profiles(ctx)
	if err != nil {
		return err
	}

	profile.LastUpdated = s.now().UTC().Format(time.RFC3339)

	replaced := false
	for i := range profiles {
		if profiles[i].Username == profile.Username {
			profiles[i] = *profile
			replaced = true
			break
		}
	}
	if !replaced {
		profiles = append(profiles, *profile)
	}

	return s.kv.Set(ctx, cache.IGProfilesKey, profiles)
}

// Profiles returns every tracked profile; an empty list when none are
// tracked yet.
func (s *Service) Profiles(ctx context.Context) ([]model.InstagramProfile, error) {
	var profiles []model.InstagramProfile
	ok, err := s.kv.Get(ctx, cache.IGProfilesKey, &profiles)
	if err != nil {
		return nil, err
	}
	if !ok || profiles == nil {
		return []model.InstagramProfile{}, nil
	}
	return profiles, nil
}

// RemoveProfile drops a profile from the tracked list. The second return
// is false when the username was not tracked.
func (s *Service) RemoveProfile(ctx context.Context, username string) (bool, error) {
	profiles, err := s.Profiles(ctx)
	if err != nil {
		return false, err
	}

	kept := profiles[:0]
	removed := false
	for _, p := range profiles {
		if p.Username == username {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	if !removed {
		return false, nil
	}

	if err := s.kv.Set(ctx, cache.IGProfilesKey, kept); err != nil {
		return false, err
	}
	return true, nil
}

var captionStyles = map[string]string{
	"engaging": "Create an engaging and compelling Instagram caption",
	"formal":   "Create a formal and professional Instagram caption",
	"casual":   "Create a casual and friendly Instagram caption",
	"news":     "Create a news-style Instagram caption",
}

// GenerateCaption writes an Instagram caption for an article in one of
// the supported styles. Unknown styles fall back to "engaging".
func (s *Service) GenerateCaption(ctx context.Context, title, content, style string) (string, error) {
	lead, ok := captionStyles[style]
	if !ok {
		lead = captionStyles["engaging"]
	}

	prompt := fmt.Sprintf(`%s based on this news article. Include relevant hashtags and make it suitable for social media:

Title: %s
Content: %s

Caption:`, lead, title, content)

	completion, err := s.client.Complete(ctx, prompt, llm.Options{
		Temperature: 0.8,
		MaxTokens:   500,
	})
	if err != nil {
		return "", fmt.Errorf("generating caption: %w", err)
	}
	return strings.TrimSpace(completion.Text), nil
}
