package handlers

import (
	"net/http"
	"strings"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/logging"
)

const accessTokenCookie = "accessToken"

// SessionGate resolves access tokens into authenticated identities before any
// business logic runs. Protected handlers are wrapped with Require; public
// endpoints that personalize their response use Optional.
type SessionGate struct {
	Users  UserStore
	Tokens TokenService
}

// Require rejects the request with 401 unless a valid access token resolves
// to an existing user. The sanitized user record is attached to the request
// context for the downstream handler.
func (g SessionGate) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := requestAccessToken(r)
		if token == "" {
			respondError(ctx, w, http.StatusUnauthorized, "authentication required")
			return
		}

		userID, err := g.Tokens.VerifyAccess(token)
		if err != nil {
			respondError(ctx, w, http.StatusUnauthorized, "invalid or expired access token")
			return
		}

		user, err := g.Users.FindByID(ctx, userID)
		if err != nil {
			logging.FromContext(ctx).Warn("access token resolved to unknown user", "userId", userID)
			respondError(ctx, w, http.StatusUnauthorized, "invalid or expired access token")
			return
		}

		next(w, r.WithContext(auth.WithUser(ctx, user.Sanitized())))
	}
}

// Optional attaches the identity when a valid token is presented and lets the
// request through either way.
func (g SessionGate) Optional(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := requestAccessToken(r)
		if token == "" {
			next(w, r)
			return
		}

		userID, err := g.Tokens.VerifyAccess(token)
		if err != nil {
			next(w, r)
			return
		}

		user, err := g.Users.FindByID(ctx, userID)
		if err != nil {
			next(w, r)
			return
		}

		next(w, r.WithContext(auth.WithUser(ctx, user.Sanitized())))
	}
}

// requestAccessToken extracts the access token from the auth cookie or an
// Authorization: Bearer header, in that order.
func requestAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}
