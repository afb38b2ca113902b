package middleware

import (
	"context"
	"net/http"

	"github.com/nainix/marketplace-backend/internal/session"
)

type sessionKey struct{}

// RequireSession rejects requests without a valid session cookie with 401.
// Every verification failure looks the same to the caller.
func RequireSession(codec *session.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := codec.FromRequest(r)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				writeMessage(w, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), p)))
		})
	}
}

// WithSession stores a verified session payload on ctx.
func WithSession(ctx context.Context, p session.Payload) context.Context {
	return context.WithValue(ctx, sessionKey{}, p)
}

// SessionFromContext returns the payload stored by RequireSession.
func SessionFromContext(ctx context.Context) (session.Payload, bool) {
	p, ok := ctx.Value(sessionKey{}).(session.Payload)
	return p, ok
}
