// brianwave/services/identity/gotrue.go
package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/joshua-sigston/brianwave/brianwave/utils/logging"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// GoTrueClient talks to a GoTrue-style auth REST API (Supabase Auth and
// compatible providers). Every request carries the project's public anon key;
// user-scoped calls additionally carry the session's bearer token.
type GoTrueClient struct {
	rest *resty.Client
}

func NewGoTrueClient(baseURL, anonKey string) *GoTrueClient {
	rest := resty.New().
		SetBaseURL(baseURL+"/auth/v1").
		SetHeader("apikey", anonKey).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(anonKey).
		SetTimeout(10 * time.Second)
	return &GoTrueClient{rest: rest}
}

// authError mirrors the provider's error body; the field name varies by
// endpoint and version, so pick the first one populated.
type authError struct {
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e *authError) text(status int) string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message} {
		if s != "" {
			return s
		}
	}
	return fmt.Sprintf("auth provider returned status %d", status)
}

func asError(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		authErr, _ := resp.Error().(*authError)
		if authErr == nil {
			authErr = &authError{}
		}
		return fmt.Errorf("%s", authErr.text(resp.StatusCode()))
	}
	return nil
}

func (c *GoTrueClient) SignUp(ctx context.Context, email, password, redirectTo string) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("redirect_to", redirectTo).
		SetBody(map[string]string{"email": email, "password": password}).
		SetError(&authError{}).
		Post("/signup")
	return asError(resp, err)
}

func (c *GoTrueClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&session).
		SetError(&authError{}).
		Post("/token")
	if err := asError(resp, err); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *GoTrueClient) SignOut(ctx context.Context, accessToken string) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetError(&authError{}).
		Post("/logout")
	return asError(resp, err)
}

// GetUser resolves the session's user. An invalid or expired token is
// reported as (nil, nil): for the session guard that is simply
// "unauthenticated", not a failure worth surfacing.
func (c *GoTrueClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	resp, err := c.rest.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&user).
		SetError(&authError{}).
		Get("/user")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == 401 || resp.StatusCode() == 403 {
		return nil, nil
	}
	if resp.IsError() {
		return nil, asError(resp, nil)
	}
	if user.ID == "" {
		return nil, nil
	}
	return &user, nil
}

func (c *GoTrueClient) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	var session Session
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "refresh_token").
		SetBody(map[string]string{"refresh_token": refreshToken}).
		SetResult(&session).
		SetError(&authError{}).
		Post("/token")
	if err := asError(resp, err); err != nil {
		return nil, err
	}
	return &session, nil
}

// RequestPasswordReset asks the provider to send a reset email. Callers must
// render the same response whether or not the email is registered; the
// provider's outcome is logged but never shown to the requester.
func (c *GoTrueClient) RequestPasswordReset(ctx context.Context, email, redirectTo string) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("redirect_to", redirectTo).
		SetBody(map[string]string{"email": email}).
		SetError(&authError{}).
		Post("/recover")
	if err := asError(resp, err); err != nil {
		logging.AppLogger.Info("password reset request not delivered", zap.Error(err))
		return err
	}
	return nil
}

func (c *GoTrueClient) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetBody(map[string]string{"password": newPassword}).
		SetError(&authError{}).
		Put("/user")
	return asError(resp, err)
}

// ExchangeCode trades the emailed confirmation/recovery code for a session.
func (c *GoTrueClient) ExchangeCode(ctx context.Context, code string) (*Session, error) {
	var session Session
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "pkce").
		SetBody(map[string]string{"auth_code": code}).
		SetResult(&session).
		SetError(&authError{}).
		Post("/token")
	if err := asError(resp, err); err != nil {
		return nil, err
	}
	return &session, nil
}
