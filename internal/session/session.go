// Package session issues and verifies the signed, self-contained session
// tokens carried in the nainix_session cookie. No server-side session state
// is kept: a token is valid when its HMAC signature matches and it has not
// expired.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	// CookieName is the cookie that carries the session token.
	CookieName = "nainix_session"
	// Duration is how long an issued session stays valid (7 days).
	Duration = 7 * 24 * time.Hour
)

var ErrMissingSecret = errors.New("session: signing secret is empty")

var encoding = base64.RawURLEncoding

// Payload is the signed body of a session token. Timestamps are Unix
// milliseconds.
type Payload struct {
	UserID    string `json:"userId"`
	Role      string `json:"role"`
	Email     string `json:"email"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Codec signs and verifies session tokens with a shared secret.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Codec{secret: []byte(secret), now: time.Now}, nil
}

// WithClock returns a copy of the codec that reads time from now.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// NewPayload builds a payload issued now and expiring after Duration.
func (c *Codec) NewPayload(userID, role, email string) Payload {
	now := c.now()
	return Payload{
		UserID:    userID,
		Role:      role,
		Email:     email,
		IssuedAt:  now.UnixMilli(),
		ExpiresAt: now.Add(Duration).UnixMilli(),
	}
}

// Issue encodes p as base64url(JSON) and appends its base64url HMAC-SHA256
// signature, separated by a dot.
func (c *Codec) Issue(p Payload) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	encoded := encoding.EncodeToString(body)
	return encoded + "." + c.sign(encoded), nil
}

// Verify returns the payload of a well-formed, correctly signed, unexpired
// token. Every failure is reported the same way: ok is false.
func (c *Codec) Verify(token string) (Payload, bool) {
	encoded, signature, found := strings.Cut(token, ".")
	if !found || encoded == "" || signature == "" {
		return Payload{}, false
	}
	// Only the first two segments are significant.
	if i := strings.IndexByte(signature, '.'); i >= 0 {
		signature = signature[:i]
		if signature == "" {
			return Payload{}, false
		}
	}

	expected := c.sign(encoded)
	if len(signature) != len(expected) {
		return Payload{}, false
	}
	if subtle.ConstantTimeCompare([]byte(signature), []byte(expected)) != 1 {
		return Payload{}, false
	}

	body, err := encoding.DecodeString(encoded)
	if err != nil {
		return Payload{}, false
	}
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return Payload{}, false
	}
	if p.UserID == "" || p.Role == "" || p.ExpiresAt == 0 {
		return Payload{}, false
	}
	if c.now().UnixMilli() >= p.ExpiresAt {
		return Payload{}, false
	}
	return p, true
}

func (c *Codec) sign(encoded string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(encoded))
	return encoding.EncodeToString(mac.Sum(nil))
}
