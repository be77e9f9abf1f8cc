package cache

import (
	"context"
	"time"
)

// CacheDuration is how long a fetched article set stays fresh before a
// full remote refetch is required.
const CacheDuration = 2 * time.Hour

// KV is the slice of Store the freshness policy needs.
type KV interface {
	Get(ctx context.Context, key string, v any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

// Freshness decides whether the cached article set is stale. It only
// reads the last-fetch timestamp; the timestamp is written exclusively by
// the fetch path that actually talks to the scraper API.
type Freshness struct {
	kv  KV
	now func() time.Time
}

func NewFreshness(kv KV) *Freshness {
	return &Freshness{kv: kv, now: time.Now}
}

// IsExpired reports true when no fetch timestamp exists, when it cannot
// be parsed, or when more than CacheDuration has elapsed since it.
func (f *Freshness) IsExpired(ctx context.Context) bool {
	var stamp string
	ok, err := f.kv.Get(ctx, LastFetchedKey, &stamp)
	if err != nil || !ok {
		return true
	}
	t, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return true
	}
	return f.now().Sub(t) > CacheDuration
}

// MarkFetched records now as the last successful scraper fetch.
func (f *Freshness) MarkFetched(ctx context.Context) error {
	return f.kv.Set(ctx, LastFetchedKey, f.now().UTC().Format(time.RFC3339Nano))
}
