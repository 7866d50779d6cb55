package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgerrors "github.com/spectra-eyewear/spectra-backend/pkg/errors"
	"github.com/spectra-eyewear/spectra-backend/pkg/types"
)

type memoryLimiterStore struct {
	counts map[string]int64
	err    error
}

func (m *memoryLimiterStore) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if m.err != nil {
		return false, 0, m.err
	}
	if m.counts == nil {
		m.counts = map[string]int64{}
	}
	m.counts[scope]++
	return m.counts[scope] <= limit, m.counts[scope], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitAllowsUnderLimit(t *testing.T) {
	store := &memoryLimiterStore{}
	policy := NewRateLimitPolicy("checkout", time.Minute, 2)
	handler := RateLimit(policy, store, nil)(okHandler())

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/checkout/session", nil)
		r.RemoteAddr = "203.0.113.9:4411"
		handler.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
	if _, ok := store.counts["ip:checkout:203.0.113.9"]; !ok {
		t.Fatalf("expected per-ip scope in store, got %v", store.counts)
	}
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	store := &memoryLimiterStore{}
	policy := NewRateLimitPolicy("checkout", time.Minute, 1)
	handler := RateLimit(policy, store, nil)(okHandler())

	first := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/checkout/session", nil)
	r.RemoteAddr = "203.0.113.9:4411"
	handler.ServeHTTP(first, r)

	second := httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/checkout/session", nil)
	r.RemoteAddr = "203.0.113.9:4411"
	handler.ServeHTTP(second, r)

	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}
	var body types.ErrorEnvelope
	if err := json.NewDecoder(second.Body).Decode(&body); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if body.Error.Code != string(pkgerrors.CodeRateLimit) {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
}

func TestRateLimitTracksIPsIndependently(t *testing.T) {
	store := &memoryLimiterStore{}
	policy := NewRateLimitPolicy("checkout", time.Minute, 1)
	handler := RateLimit(policy, store, nil)(okHandler())

	first := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/checkout/session", nil)
	r.RemoteAddr = "203.0.113.9:4411"
	handler.ServeHTTP(first, r)

	other := httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/checkout/session", nil)
	r.RemoteAddr = "198.51.100.7:2201"
	handler.ServeHTTP(other, r)

	if other.Code != http.StatusOK {
		t.Fatalf("different ip should not be throttled, got %d", other.Code)
	}
}

func TestRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	handler := RateLimit(NewRateLimitPolicy("checkout", 0, 0), &memoryLimiterStore{}, nil)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/checkout/session", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("disabled policy must pass through, got %d", w.Code)
	}
}

func TestRateLimitStoreFailure(t *testing.T) {
	store := &memoryLimiterStore{err: errors.New("redis down")}
	policy := NewRateLimitPolicy("checkout", time.Minute, 1)
	handler := RateLimit(policy, store, nil)(okHandler())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/checkout/session", nil)
	r.RemoteAddr = "203.0.113.9:4411"
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 on store failure, got %d", w.Code)
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	if ip := clientIP(r); ip != "203.0.113.9" {
		t.Fatalf("expected forwarded ip, got %q", ip)
	}
}
