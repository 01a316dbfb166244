package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type memoryAttemptStore struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
}

func newMemoryAttemptStore() *memoryAttemptStore {
	return &memoryAttemptStore{attempts: make(map[string][]time.Time)}
}

func (s *memoryAttemptStore) RecordAttempt(_ context.Context, identifier string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[identifier] = append(s.attempts[identifier], at)
	return nil
}

func (s *memoryAttemptStore) CountAttempts(_ context.Context, identifier string, window time.Duration, reference time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	cutoff := reference.Add(-window)
	for _, at := range s.attempts[identifier] {
		if !at.Before(cutoff) && !at.After(reference) {
			count++
		}
	}
	return count, nil
}

func (s *memoryAttemptStore) TrimWindow(_ context.Context, identifier string, window time.Duration, reference time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := reference.Add(-window)
	kept := s.attempts[identifier][:0]
	for _, at := range s.attempts[identifier] {
		if !at.Before(cutoff) {
			kept = append(kept, at)
		}
	}
	s.attempts[identifier] = kept
	return nil
}

func (s *memoryAttemptStore) OldestAttempt(_ context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := reference.Add(-window)
	var oldest time.Time
	found := false
	for _, at := range s.attempts[identifier] {
		if at.Before(cutoff) || at.After(reference) {
			continue
		}
		if !found || at.Before(oldest) {
			oldest = at
			found = true
		}
	}
	return oldest, found, nil
}

func newRateLimitedRouter(t *testing.T, limit int, window time.Duration) (*gin.Engine, *RateLimiter) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	limiter := NewRateLimiter(newMemoryAttemptStore(), nil)

	r := gin.New()
	r.POST("/login", limiter.Limit(RateLimitRule{Name: "login", Limit: limit, Window: window}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, limiter
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	r, _ := newRateLimitedRouter(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	r, _ := newRateLimitedRouter(t, 2, time.Minute)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("warmup request %d failed: %d", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
	if w.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("expected zero remaining, got %q", w.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	gin.SetMode(gin.TestMode)

	base := time.Now().UTC()
	clock := base
	limiter := NewRateLimiter(newMemoryAttemptStore(), nil).WithClock(func() time.Time { return clock })

	r := gin.New()
	r.POST("/login", limiter.Limit(RateLimitRule{Name: "login", Limit: 1, Window: time.Minute}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected first request allowed, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request blocked, got %d", w.Code)
	}

	clock = base.Add(2 * time.Minute)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected request allowed after window slid, got %d", w.Code)
	}
}

func TestRateLimiter_NilStoreFailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiter(nil, nil)
	r := gin.New()
	r.POST("/login", limiter.Limit(RateLimitRule{Name: "login", Limit: 1, Window: time.Minute}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected fail-open behaviour, got %d", w.Code)
		}
	}
}
