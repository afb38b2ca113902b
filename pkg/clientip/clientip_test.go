package clientip

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRealClientIP(t *testing.T) {
	cases := map[string]string{
		"10.0.0.1:5555":   "10.0.0.1",
		"10.0.0.2":        "10.0.0.2",
		"[::1]:8080":      "::1",
		"  192.0.2.7:1  ": "192.0.2.7",
	}
	for remote, want := range cases {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = remote
		assert.Equal(t, want, RealClientIP(r), remote)
	}
}

func TestLimiterKey(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/auth/login", nil)
	r.RemoteAddr = "203.0.113.9:443"
	assert.Equal(t, "login:203.0.113.9", LimiterKey("login", r))
}
