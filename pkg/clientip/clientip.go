package clientip

import (
	"net"
	"net/http"
	"strings"
)

// RealClientIP returns the client IP for rate limiting and logging.
// It reads r.RemoteAddr only; run chi's RealIP middleware first when the
// service sits behind a trusted proxy so RemoteAddr already holds the
// forwarded address (with or without a port).
func RealClientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return strings.Trim(addr, "[]")
}

// LimiterKey namespaces the client IP for a limiter bucket, e.g. "login:10.0.0.1".
func LimiterKey(scope string, r *http.Request) string {
	return scope + ":" + RealClientIP(r)
}
