package session

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CookieName is the browser cookie carrying the opaque session ID.
const CookieName = "reclamos_session"

// ReadCookie returns the session ID from the request cookie, or "" when the
// browser has none yet.
func ReadCookie(c echo.Context) string {
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// WriteCookie sets the session cookie. HTTP-only, SameSite=Lax, and no
// Expires attribute so it lives for the browser session only; the server
// side enforces the idle timeout.
func WriteCookie(c echo.Context, id string) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
