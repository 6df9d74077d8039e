package middlewares

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/joshua-sigston/brianwave/brianwave/services/identity"
	"github.com/joshua-sigston/brianwave/brianwave/utils/logging"

	"github.com/golang-jwt/jwt/v5"
)

type fakeGateway struct {
	identity.Gateway
	user         *identity.User
	validTokens  map[string]bool
	refreshed    *identity.Session
	refreshCalls int
}

func (g *fakeGateway) GetUser(ctx context.Context, accessToken string) (*identity.User, error) {
	if g.validTokens[accessToken] {
		return g.user, nil
	}
	return nil, nil
}

func (g *fakeGateway) Refresh(ctx context.Context, refreshToken string) (*identity.Session, error) {
	g.refreshCalls++
	if g.refreshed == nil {
		return nil, fmt.Errorf("refresh token revoked")
	}
	return g.refreshed, nil
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func guardedRequest(t *testing.T, gateway identity.Gateway, path string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, *identity.User) {
	t.Helper()
	os.Setenv("LOG_DIR", t.TempDir())
	logging.InitLogger()

	var seenUser *identity.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	SessionGuard(gateway)(next).ServeHTTP(rr, req)
	return rr, seenUser
}

func authedGateway(t *testing.T) (*fakeGateway, *http.Cookie) {
	token := signedToken(t, time.Now().Add(time.Hour))
	gw := &fakeGateway{
		user:        &identity.User{ID: "user-1", Email: "u@example.com"},
		validTokens: map[string]bool{token: true},
	}
	return gw, &http.Cookie{Name: "bw_access_token", Value: token}
}

func TestAuthenticatedUserBouncedOffAuthFlowRoutes(t *testing.T) {
	for _, path := range []string{"/auth/login", "/auth/sign-up", "/auth/reset-password/request"} {
		gw, cookie := authedGateway(t)
		rr, _ := guardedRequest(t, gw, path, cookie)
		if rr.Code != http.StatusSeeOther {
			t.Fatalf("%s: expected redirect, got %d", path, rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "/dashboard" {
			t.Fatalf("%s: expected /dashboard, got %s", path, loc)
		}
	}
}

func TestUnauthenticatedUserBouncedOffProtectedRoutes(t *testing.T) {
	for _, path := range []string{"/dashboard", "/notes/abc"} {
		rr, _ := guardedRequest(t, &fakeGateway{}, path)
		if rr.Code != http.StatusSeeOther {
			t.Fatalf("%s: expected redirect, got %d", path, rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "/auth/login" {
			t.Fatalf("%s: expected /auth/login, got %s", path, loc)
		}
	}
}

func TestExemptAuthRoutesReachableInBothStates(t *testing.T) {
	for _, path := range []string{"/auth/callback", "/auth/reset-password/change"} {
		rr, _ := guardedRequest(t, &fakeGateway{}, path)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s unauthenticated: expected pass-through, got %d", path, rr.Code)
		}

		gw, cookie := authedGateway(t)
		rr, user := guardedRequest(t, gw, path, cookie)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s authenticated: expected pass-through, got %d", path, rr.Code)
		}
		if user == nil {
			t.Fatalf("%s authenticated: expected user in context", path)
		}
	}
}

func TestPublicRoutePassesThrough(t *testing.T) {
	rr, user := guardedRequest(t, &fakeGateway{}, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", rr.Code)
	}
	if user != nil {
		t.Fatal("expected no user for anonymous request")
	}
}

func TestAuthenticatedUserReachesDashboard(t *testing.T) {
	gw, cookie := authedGateway(t)
	rr, user := guardedRequest(t, gw, "/dashboard", cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", rr.Code)
	}
	if user == nil || user.ID != "user-1" {
		t.Fatalf("expected resolved user, got %+v", user)
	}
}

// An expired access token plus a refresh token triggers a refresh; the new
// token pair must be set on the response and the request must proceed.
func TestExpiredAccessTokenIsRefreshed(t *testing.T) {
	expired := signedToken(t, time.Now().Add(-time.Hour))
	fresh := signedToken(t, time.Now().Add(time.Hour))
	gw := &fakeGateway{
		user:        &identity.User{ID: "user-1"},
		validTokens: map[string]bool{fresh: true},
		refreshed: &identity.Session{
			AccessToken:  fresh,
			RefreshToken: "next-refresh",
			ExpiresIn:    3600,
		},
	}

	rr, user := guardedRequest(t, gw, "/dashboard",
		&http.Cookie{Name: "bw_access_token", Value: expired},
		&http.Cookie{Name: "bw_refresh_token", Value: "old-refresh"},
	)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected pass-through after refresh, got %d", rr.Code)
	}
	if gw.refreshCalls != 1 {
		t.Fatalf("expected one refresh call, got %d", gw.refreshCalls)
	}
	if user == nil {
		t.Fatal("expected user after refresh")
	}

	cookies := rr.Result().Cookies()
	var gotAccess, gotRefresh bool
	for _, c := range cookies {
		if c.Name == "bw_access_token" && c.Value == fresh {
			gotAccess = true
		}
		if c.Name == "bw_refresh_token" && c.Value == "next-refresh" {
			gotRefresh = true
		}
	}
	if !gotAccess || !gotRefresh {
		t.Fatalf("refreshed session not propagated, cookies: %+v", cookies)
	}
}

func TestFailedRefreshFallsBackToUnauthenticated(t *testing.T) {
	expired := signedToken(t, time.Now().Add(-time.Hour))
	gw := &fakeGateway{validTokens: map[string]bool{}}

	rr, _ := guardedRequest(t, gw, "/dashboard",
		&http.Cookie{Name: "bw_access_token", Value: expired},
		&http.Cookie{Name: "bw_refresh_token", Value: "revoked"},
	)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/auth/login" {
		t.Fatalf("expected login redirect, got %d -> %s", rr.Code, rr.Header().Get("Location"))
	}
}
