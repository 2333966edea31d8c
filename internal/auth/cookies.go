package auth

import (
	"net/http"

	"github.com/MrEthical07/goShop/internal/token"
)

const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"
)

// CookieWriter stamps auth cookies with consistent transport attributes.
// Secure is only set in production so local HTTP development keeps working.
type CookieWriter struct {
	Secure bool
}

func (cw CookieWriter) set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cw.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// SetPair writes both session cookies.
func (cw CookieWriter) SetPair(w http.ResponseWriter, pair TokenPair) {
	cw.set(w, accessCookieName, pair.Access, int(token.AccessTTL.Seconds()))
	cw.set(w, refreshCookieName, pair.Refresh, int(token.RefreshTTL.Seconds()))
}

// SetAccess rewrites only the access cookie, leaving the refresh cookie
// untouched.
func (cw CookieWriter) SetAccess(w http.ResponseWriter, access string) {
	cw.set(w, accessCookieName, access, int(token.AccessTTL.Seconds()))
}

// Clear expires both session cookies.
func (cw CookieWriter) Clear(w http.ResponseWriter) {
	cw.set(w, accessCookieName, "", -1)
	cw.set(w, refreshCookieName, "", -1)
}
