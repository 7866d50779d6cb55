package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestCartTokenMintsWhenAbsent(t *testing.T) {
	var seen string
	handler := CartToken(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartTokenFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cart/items", nil))

	if seen == "" {
		t.Fatal("expected minted token in context")
	}
	if got := w.Header().Get("X-Cart-Token"); got != seen {
		t.Fatalf("header %q should match context token %q", got, seen)
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("minted token should be a uuid: %v", err)
	}
}

func TestCartTokenKeepsValidToken(t *testing.T) {
	token := uuid.NewString()
	var seen string
	handler := CartToken(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartTokenFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/cart", nil)
	r.Header.Set("X-Cart-Token", token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if seen != token {
		t.Fatalf("expected caller token %q, got %q", token, seen)
	}
}

func TestCartTokenReplacesMalformedToken(t *testing.T) {
	var seen string
	handler := CartToken(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartTokenFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/cart", nil)
	r.Header.Set("X-Cart-Token", "../../etc/passwd")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if seen == "../../etc/passwd" {
		t.Fatal("malformed token must not be accepted")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("replacement token should be a uuid: %v", err)
	}
}
