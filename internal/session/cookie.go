package session

import (
	"net/http"
)

// SetCookie writes the session cookie. secure should be true in production.
func SetCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(Duration.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie immediately.
func ClearCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // emitted as Max-Age=0
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest verifies the session cookie on r, if any.
func (c *Codec) FromRequest(r *http.Request) (Payload, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Payload{}, false
	}
	return c.Verify(cookie.Value)
}
