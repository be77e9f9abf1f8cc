package social

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/brahimakil/rasedweb/internal/cache"
	"github.com/brahimakil/rasedweb/internal/model"
	"github.com/brahimakil/rasedweb/pkg/llm"
)

type fakeFetcher struct {
	profile *model.InstagramProfile
	err     error
	limit   int
}

func (f *fakeFetcher) InstagramProfile(ctx context.Context, username string, limit int) (*model.InstagramProfile, error) {
	f.limit = limit
	return f.profile, f.err
}

type fakeKV struct {
	data map[string][]byte
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string][]byte{}} }

func (f *fakeKV) Get(ctx context.Context, key string, v any) (bool, error) {
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

func (f *fakeKV) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

type fakeCompletion struct {
	text   string
	err    error
	prompt string
}

func (f *fakeCompletion) Complete(ctx context.Context, prompt string, opts llm.Options) (*llm.Completion, error) {
	f.prompt = prompt
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Completion{Text: f.text}, nil
}

var fixedNow = time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)

func newTestService(fetcher *fakeFetcher, kv *fakeKV, client *fakeCompletion) *Service {
	s := NewService(fetcher, kv, client)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestFetchProfile_NormalizesPosts(t *testing.T) {
	fetcher := &fakeFetcher{profile: &model.InstagramProfile{
		Username: "reporter",
		Posts: []model.InstagramPost{
			{ID: "p1", Timestamp: "2026-01-01T00:00:00Z", ImageURL: "https://instagram.fbey1-1.fna.fbcdn.net/x.jpg"},
			{ID: "p2"},
		},
	}}
	s := newTestService(fetcher, newFakeKV(), &fakeCompletion{})

	profile, err := s.FetchProfile(context.Background(), "reporter", 0)

	assert.Equal(t, nil, err)
	assert.Equal(t, defaultPostLimit, fetcher.limit)
	assert.Equal(t, "2026-01-01T00:00:00Z", profile.Posts[0].Timestamp)
	assert.Equal(t, profile.Posts[0].ImageURL, profile.Posts[0].OriginalImageURL)
	assert.Equal(t, "2026-04-02T08:00:00Z", profile.Posts[1].Timestamp)
	assert.Equal(t, noImagePlaceholder, profile.Posts[1].ImageURL)
	assert.Equal(t, "2026-04-02T08:00:00Z", profile.LastFetched)
}

func TestFetchProfile_FetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("account not found")}
	s := newTestService(fetcher, newFakeKV(), &fakeCompletion{})

	_, err := s.FetchProfile(context.Background(), "ghost", 5)
	assert.NotEqual(t, nil, err)
}

func TestSaveProfile_UpsertsByUsername(t *testing.T) {
	kv := newFakeKV()
	s := newTestService(&fakeFetcher{}, kv, &fakeCompletion{})
	ctx := context.Background()

	err := s.SaveProfile(ctx, &model.InstagramProfile{Username: "a", Followers: 10})
	assert.Equal(t, nil, err)
	err = s.SaveProfile(ctx, &model.InstagramProfile{Username: "b"})
	assert.Equal(t, nil, err)
	err = s.SaveProfile(ctx, &model.InstagramProfile{Username: "a", Followers: 25})
	assert.Equal(t, nil, err)

	profiles, err := s.Profiles(ctx)
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(profiles))
	assert.Equal(t, "a", profiles[0].Username)
	assert.Equal(t, 25, profiles[0].Followers)
	assert.Equal(t, "2026-04-02T08:00:00Z", profiles[0].LastUpdated)
}

func TestProfiles_EmptyWhenUntracked(t *testing.T) {
	s := newTestService(&fakeFetcher{}, newFakeKV(), &fakeCompletion{})

	profiles, err := s.Profiles(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(profiles))
}

func TestRemoveProfile(t *testing.T) {
	kv := newFakeKV()
	s := newTestService(&fakeFetcher{}, kv, &fakeCompletion{})
	ctx := context.Background()

	_ = s.SaveProfile(ctx, &model.InstagramProfile{Username: "a"})
	_ = s.SaveProfile(ctx, &model.InstagramProfile{Username: "b"})

	removed, err := s.RemoveProfile(ctx, "a")
	assert.Equal(t, nil, err)
	assert.Equal(t, true, removed)

	removed, err = s.RemoveProfile(ctx, "a")
	assert.Equal(t, nil, err)
	assert.Equal(t, false, removed)

	var stored []model.InstagramProfile
	ok, _ := kv.Get(ctx, cache.IGProfilesKey, &stored)
	assert.Equal(t, true, ok)
	assert.Equal(t, 1, len(stored))
	assert.Equal(t, "b", stored[0].Username)
}

func TestGenerateCaption_StyleSelection(t *testing.T) {
	client := &fakeCompletion{text: "  Breaking news! #politics  "}
	s := newTestService(&fakeFetcher{}, newFakeKV(), client)

	caption, err := s.GenerateCaption(context.Background(), "Title", "Content", "formal")

	assert.Equal(t, nil, err)
	assert.Equal(t, "Breaking news! #politics", caption)
	assert.Equal(t, true, strings.HasPrefix(client.prompt, captionStyles["formal"]))
}

func TestGenerateCaption_UnknownStyleFallsBack(t *testing.T) {
	client := &fakeCompletion{text: "caption"}
	s := newTestService(&fakeFetcher{}, newFakeKV(), client)

	_, err := s.GenerateCaption(context.Background(), "Title", "Content", "sarcastic")

	assert.Equal(t, nil, err)
	assert.Equal(t, true, strings.HasPrefix(client.prompt, captionStyles["engaging"]))
}
