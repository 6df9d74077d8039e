// brianwave/middlewares/session.go
package middlewares

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/joshua-sigston/brianwave/brianwave/services/identity"
	"github.com/joshua-sigston/brianwave/brianwave/utils/logging"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const (
	UserKey        contextKey = "user"
	AccessTokenKey contextKey = "access_token"
)

const (
	accessCookie  = "bw_access_token"
	refreshCookie = "bw_refresh_token"
)

// Auth-flow routes an authenticated user is bounced away from (rule A).
// Callback and reset-completion stay reachable in both states: the callback
// finishes a code exchange and the reset page runs on a recovery session.
var authFlowRoutes = map[string]bool{
	"/auth/login":                  true,
	"/auth/sign-up":                true,
	"/auth/reset-password/request": true,
}

func isProtected(path string) bool {
	return strings.HasPrefix(path, "/dashboard") || strings.HasPrefix(path, "/notes")
}

// SessionGuard resolves the caller's identity from the session cookies
// before any handler runs. It refreshes an expired access token when a
// refresh token is present (propagating the new pair on the response),
// verifies the session against the identity provider, and applies the two
// redirect rules: authenticated users are sent away from auth-flow pages,
// unauthenticated users away from the protected area. Identity is resolved
// purely server-side; nothing here trusts client-supplied state beyond the
// opaque tokens themselves.
func SessionGuard(gateway identity.Gateway) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, accessToken := resolveSession(w, r, gateway)

			path := r.URL.Path
			if user != nil && authFlowRoutes[path] {
				http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
				return
			}
			if user == nil && isProtected(path) {
				http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
				return
			}

			ctx := r.Context()
			if user != nil {
				ctx = context.WithValue(ctx, UserKey, user)
				ctx = context.WithValue(ctx, AccessTokenKey, accessToken)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveSession(w http.ResponseWriter, r *http.Request, gateway identity.Gateway) (*identity.User, string) {
	accessToken := cookieValue(r, accessCookie)
	refreshToken := cookieValue(r, refreshCookie)

	if (accessToken == "" || tokenExpired(accessToken)) && refreshToken != "" {
		session, err := gateway.Refresh(r.Context(), refreshToken)
		if err != nil {
			logging.AppLogger.Info("session refresh failed", zap.Error(err))
		} else {
			SetSessionCookies(w, session)
			accessToken = session.AccessToken
		}
	}
	if accessToken == "" {
		return nil, ""
	}

	user, err := gateway.GetUser(r.Context(), accessToken)
	if err != nil {
		logging.ErrorLogger.Error("identity lookup failed", zap.Error(err))
		return nil, ""
	}
	if user == nil {
		return nil, ""
	}
	return user, accessToken
}

// tokenExpired reads the exp claim without verifying the signature. The
// provider is the verifier of record (GetUser rejects bad tokens); this
// parse only decides whether a refresh is worth attempting first.
func tokenExpired(accessToken string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Before(time.Now().Add(30 * time.Second))
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func SetSessionCookies(w http.ResponseWriter, session *identity.Session) {
	maxAge := session.ExpiresIn
	if maxAge <= 0 {
		maxAge = 3600
	}
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookie,
		Value:    session.AccessToken,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	if session.RefreshToken != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     refreshCookie,
			Value:    session.RefreshToken,
			Path:     "/",
			MaxAge:   30 * 24 * 3600,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func ClearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{accessCookie, refreshCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func UserFromContext(ctx context.Context) *identity.User {
	user, _ := ctx.Value(UserKey).(*identity.User)
	return user
}

func AccessTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(AccessTokenKey).(string)
	return token
}
