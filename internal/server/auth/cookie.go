package auth

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/backoffice/internal/common"
)

// ExtractToken reads the raw session token from the request's "token"
// cookie. It does no validation; an unset or empty cookie reports false.
func ExtractToken(r *http.Request) (string, bool) {
	c, err := r.Cookie(common.SessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// SessionCookie wraps a freshly issued token for Set-Cookie.
func SessionCookie(token string, maxAge time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearedSessionCookie tells the browser to drop the session cookie.
func ClearedSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
