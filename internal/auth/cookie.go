package auth

import (
	"net/http"
	"strings"
	"time"
)

const CookieName = "token"

// CookieFactory builds the session cookie; production cookies are Secure and cross-site.
type CookieFactory struct {
	Production bool
}

func (f CookieFactory) base() *http.Cookie {
	c := &http.Cookie{
		Name:     CookieName,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if f.Production {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

func (f CookieFactory) Session(token string, expires time.Time) *http.Cookie {
	c := f.base()
	c.Value = token
	c.Expires = expires
	c.MaxAge = int(time.Until(expires).Round(time.Second).Seconds())
	return c
}

// Cleared expires the cookie immediately. The token itself stays valid until its exp.
func (f CookieFactory) Cleared() *http.Cookie {
	c := f.base()
	c.Expires = time.Unix(0, 0)
	c.MaxAge = -1
	return c
}

// TokenFromRequest reads the session cookie, falling back to an Authorization bearer header.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	fields := strings.Fields(r.Header.Get("Authorization"))
	if len(fields) == 2 && strings.EqualFold(fields[0], "bearer") {
		return fields[1]
	}
	return ""
}
