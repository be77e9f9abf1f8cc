package repository

import (
	"sync"
	"time"
)

// Breaker gates remote store calls after a failure so a degraded backend
// is not hammered on every render. Callers that find Allow false should
// degrade (empty results) instead of erroring.
type Breaker struct {
	mu            sync.Mutex
	cooldown      time.Duration
	lastFailureAt time.Time
	now           func() time.Time
}

const defaultCooldown = 30 * time.Second

func NewBreaker(cooldown time.Duration) *Breaker {
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}
	return &Breaker{cooldown: cooldown, now: time.Now}
}

func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastFailureAt.IsZero() {
		return true
	}
	return b.now().Sub(b.lastFailureAt) >= b.cooldown
}

func (b *Breaker) MarkFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastFailureAt = b.now()
}

func (b *Breaker) MarkSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastFailureAt = time.Time{}
}

func (b *Breaker) LastFailureAt() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastFailureAt
}

func (b *Breaker) Cooldown() time.Duration {
	return b.cooldown
}
