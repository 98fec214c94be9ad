package httpserver

import (
	"net/http"
	"time"
)

// SessionCookieName is the single cookie carrying the session token.
const SessionCookieName = "token"

// cookieWriter stamps the session cookie with the flags the browser
// contract requires: script-inaccessible, same-site strict, app-wide path,
// and transport-encrypted in production.
type cookieWriter struct {
	secure bool
	maxAge time.Duration
}

func newCookieWriter(secure bool, maxAge time.Duration) *cookieWriter {
	return &cookieWriter{secure: secure, maxAge: maxAge}
}

// set attaches the session token to the response.
func (c *cookieWriter) set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// clear expires the session cookie immediately.
func (c *cookieWriter) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// sessionToken extracts the raw token from the request, empty when absent.
func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
