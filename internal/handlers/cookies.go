package handlers

import (
	"net/http"
	"time"

	"github.com/vidtube/backend/internal/models"
)

const refreshTokenCookie = "refreshToken"

// setAuthCookies attaches both session tokens as HttpOnly, Secure cookies.
func setAuthCookies(w http.ResponseWriter, pair models.TokenPair) {
	setAuthCookie(w, accessTokenCookie, pair.AccessToken, pair.AccessExpiresAt)
	setAuthCookie(w, refreshTokenCookie, pair.RefreshToken, pair.RefreshExpiresAt)
}

func setAuthCookie(w http.ResponseWriter, name, value string, expires time.Time) {
	maxAge := int(time.Until(expires).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires.UTC(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearAuthCookies expires both session cookies.
func clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0).UTC(),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
