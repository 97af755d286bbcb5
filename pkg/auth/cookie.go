package auth

import (
	"net/http"
	"time"

	"github.com/angelmondragon/plantnet-backend/pkg/config"
)

// SetTokenCookie writes the identity token cookie. Production cookies are
// Secure with SameSite=None so cross-site frontends can send them.
func SetTokenCookie(w http.ResponseWriter, cfg config.CookieConfig, prod bool, token string, expires time.Time) {
	cookie := baseCookie(cfg, prod)
	cookie.Value = token
	cookie.Expires = expires
	http.SetCookie(w, cookie)
}

// ClearTokenCookie expires the identity token cookie with matching attributes.
func ClearTokenCookie(w http.ResponseWriter, cfg config.CookieConfig, prod bool) {
	cookie := baseCookie(cfg, prod)
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	http.SetCookie(w, cookie)
}

func baseCookie(cfg config.CookieConfig, prod bool) *http.Cookie {
	name := cfg.Name
	if name == "" {
		name = "token"
	}
	path := cfg.Path
	if path == "" {
		path = "/"
	}
	cookie := &http.Cookie{
		Name:     name,
		Path:     path,
		Domain:   cfg.Domain,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	if prod {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}
