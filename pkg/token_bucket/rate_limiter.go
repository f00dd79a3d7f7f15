package token_bucket

import (
	"math"
	"sync"
	"time"
)

/*
Token bucket: каждый Allow забирает один токен, токены копятся со скоростью
refillRate в секунду, но не больше capacity. Дробные токены не теряются между
вызовами, поэтому медленная скорость пополнения тоже работает.
*/

type Limiter interface {
	Allow() bool
}

type Option func(*TokenBucket)

// WithClock подменяет источник времени, нужен для детерминированных тестов.
func WithClock(now func() time.Time) Option {
	return func(t *TokenBucket) {
		t.now = now
	}
}

type TokenBucket struct {
	mu         sync.Mutex
	capacity   float64
	tokens     float64
	refillRate float64
	lastRefill time.Time
	now        func() time.Time
}

func NewTokenBucket(capacity int, refillRate float64, opts ...Option) *TokenBucket {
	tb := &TokenBucket{
		capacity:   float64(max(capacity, 0)),
		refillRate: math.Max(refillRate, 0),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(tb)
	}
	tb.tokens = tb.capacity
	tb.lastRefill = tb.now()
	return tb
}

func (t *TokenBucket) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refill()

	if t.tokens >= 1 {
		t.tokens--
		return true
	}
	return false
}

// Tokens текущее количество целых токенов.
func (t *TokenBucket) Tokens() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refill()
	return int(t.tokens)
}

func (t *TokenBucket) refill() {
	now := t.now()
	elapsed := now.Sub(t.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}

	t.tokens = math.Min(t.capacity, t.tokens+elapsed*t.refillRate)
	t.lastRefill = now
}
