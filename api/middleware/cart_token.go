package middleware

import (
	"context"
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/spectra-eyewear/spectra-backend/pkg/logger"
)

const cartTokenHeader = "X-Cart-Token"

type contextKey string

const ctxCartToken contextKey = "cart_token"

// Tokens are minted as UUIDs; anything else from the client is rejected so
// arbitrary strings cannot reach the storage key namespace.
var cartTokenPattern = regexp.MustCompile(`^[a-f0-9-]{36}$`)

// CartToken resolves the caller's cart token, minting one when absent or
// malformed. The active token is always echoed back so the storefront can
// persist it.
func CartToken(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(cartTokenHeader)
			if !cartTokenPattern.MatchString(token) {
				token = uuid.NewString()
			}

			w.Header().Set(cartTokenHeader, token)

			ctx := WithCartToken(r.Context(), token)
			if logg != nil {
				ctx = logg.WithCartToken(ctx, token)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithCartToken injects the cart token into the context for downstream handlers.
func WithCartToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCartToken, token)
}

func CartTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxCartToken).(string); ok {
		return v
	}
	return ""
}
