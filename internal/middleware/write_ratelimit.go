package middleware

import (
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/nainix/marketplace-backend/internal/session"
	"github.com/nainix/marketplace-backend/pkg/clientip"
)

// Write limits for posting jobs, proposals and upgrades. Signed-in callers
// are keyed by account: 30 req/min, burst 10. Anonymous callers are keyed by
// IP: 10 req/min, burst 5.
const (
	writeAuthRPS    = 0.5
	writeAuthBurst  = 10
	writeAnonRPS    = 0.17
	writeAnonBurst  = 5
	writeAuthPrefix = "/api/auth/"
)

// WriteRateLimit throttles mutating API requests. Credential routes are left
// to AuthRateLimit.
func WriteRateLimit(codec *session.Codec) func(http.Handler) http.Handler {
	signedIn := newLimiterSet(rate.Limit(writeAuthRPS), writeAuthBurst)
	anonymous := newLimiterSet(rate.Limit(writeAnonRPS), writeAnonBurst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isWrite(r.Method) || strings.HasPrefix(r.URL.Path, writeAuthPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			limiters, key, limit := anonymous, clientip.LimiterKey("write", r), writeAnonBurst
			if p, ok := codec.FromRequest(r); ok {
				limiters, key, limit = signedIn, "write:user:"+p.UserID, writeAuthBurst
			}
			if !limiters.allow(key) {
				tooManyRequests(w, limit, "Too many requests. Please slow down.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
