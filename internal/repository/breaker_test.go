package repository

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestBreaker_AllowsUntilFailure(t *testing.T) {
	b := NewBreaker(30 * time.Second)
	assert.Equal(t, true, b.Allow())

	b.MarkFailure()
	assert.Equal(t, false, b.Allow())
}

func TestBreaker_ReopensAfterCooldown(t *testing.T) {
	b := NewBreaker(30 * time.Second)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	b.now = func() time.Time { return base }
	b.MarkFailure()

	b.now = func() time.Time { return base.Add(29 * time.Second) }
	assert.Equal(t, false, b.Allow())

	b.now = func() time.Time { return base.Add(30 * time.Second) }
	assert.Equal(t, true, b.Allow())
}

func TestBreaker_SuccessClearsFailure(t *testing.T) {
	b := NewBreaker(time.Minute)
	b.MarkFailure()
	b.MarkSuccess()
	assert.Equal(t, true, b.Allow())
	assert.Equal(t, true, b.LastFailureAt().IsZero())
}
