package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/joshua-sigston/brianwave/brianwave/utils/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*GoTrueClient, *httptest.Server) {
	t.Helper()
	os.Setenv("LOG_DIR", t.TempDir())
	logging.InitLogger()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGoTrueClient(srv.URL, "anon-key"), srv
}

func TestSignInParsesSession(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected request %s %s", r.URL.Path, r.URL.RawQuery)
		}
		if r.Header.Get("apikey") != "anon-key" {
			t.Errorf("missing apikey header")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "at-1",
			"refresh_token": "rt-1",
			"expires_in":    3600,
			"user":          map[string]string{"id": "user-1", "email": "u@example.com"},
		})
	})

	session, err := client.SignIn(context.Background(), "u@example.com", "pw")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if session.AccessToken != "at-1" || session.RefreshToken != "rt-1" {
		t.Fatalf("unexpected session %+v", session)
	}
	if session.User == nil || session.User.ID != "user-1" {
		t.Fatalf("unexpected user %+v", session.User)
	}
}

func TestSignInSurfacesProviderMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"})
	})

	_, err := client.SignIn(context.Background(), "u@example.com", "wrong")
	if err == nil || !strings.Contains(err.Error(), "Invalid login credentials") {
		t.Fatalf("expected provider message, got %v", err)
	}
}

func TestGetUserTreatsRejectedTokenAsAnonymous(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"msg": "invalid JWT"})
	})

	user, err := client.GetUser(context.Background(), "expired-token")
	if err != nil {
		t.Fatalf("a rejected token is not an error: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil user, got %+v", user)
	}
}

func TestGetUserParsesIdentity(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer session-token" {
			t.Errorf("expected session bearer, got %q", auth)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "user-1", "email": "u@example.com"})
	})

	user, err := client.GetUser(context.Background(), "session-token")
	if err != nil || user == nil {
		t.Fatalf("get user failed: user=%v err=%v", user, err)
	}
	if user.Email != "u@example.com" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestRefreshPostsRefreshGrant(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("grant_type") != "refresh_token" {
			t.Errorf("unexpected grant %q", r.URL.Query().Get("grant_type"))
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["refresh_token"] != "rt-old" {
			t.Errorf("refresh token not posted: %v", body)
		}
		json.NewEncoder(w).Encode(map[string]any{"access_token": "at-2", "refresh_token": "rt-2"})
	})

	session, err := client.Refresh(context.Background(), "rt-old")
	if err != nil || session.AccessToken != "at-2" {
		t.Fatalf("refresh failed: session=%+v err=%v", session, err)
	}
}

func TestExchangeCodeUsesPKCEGrant(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("grant_type") != "pkce" {
			t.Errorf("unexpected grant %q", r.URL.Query().Get("grant_type"))
		}
		json.NewEncoder(w).Encode(map[string]any{"access_token": "at-3"})
	})

	session, err := client.ExchangeCode(context.Background(), "one-time-code")
	if err != nil || session.AccessToken != "at-3" {
		t.Fatalf("exchange failed: session=%+v err=%v", session, err)
	}
}
