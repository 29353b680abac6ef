package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

// SessionCookieName is the cookie holding the session token
const SessionCookieName = "petition_session"

// Cookies reads and writes the signed session cookie. The cookie value is
// the opaque session id only.
type Cookies struct {
	codec  *securecookie.SecureCookie
	secure bool
	maxAge time.Duration
}

// NewCookies creates a Cookies signing values with secret
func NewCookies(secret []byte, secure bool, maxAge time.Duration) *Cookies {
	codec := securecookie.New(secret, nil)
	if maxAge > 0 {
		codec.MaxAge(int(maxAge / time.Second))
	}
	return &Cookies{codec: codec, secure: secure, maxAge: maxAge}
}

// Read returns the session id from the request, or "" if the cookie is
// missing, tampered with or too old
func (c *Cookies) Read(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	var sessionID string
	if err := c.codec.Decode(SessionCookieName, cookie.Value, &sessionID); err != nil {
		return ""
	}
	return sessionID
}

// Write sets the session cookie
func (c *Cookies) Write(w http.ResponseWriter, sessionID string) error {
	encoded, err := c.codec.Encode(SessionCookieName, sessionID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(c.maxAge / time.Second),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie
func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
