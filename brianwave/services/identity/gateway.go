// brianwave/services/identity/gateway.go
package identity

import "context"

// User is the slice of the provider's identity record this app consumes.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is an issued token pair. AccessToken is a JWT whose expiry drives
// refresh; RefreshToken is opaque.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         *User  `json:"user,omitempty"`
}

// Gateway is the hosted auth provider. Credentials and sessions live there;
// this app never sees a password hash or stores a session server-side.
type Gateway interface {
	SignUp(ctx context.Context, email, password, redirectTo string) error
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*User, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	RequestPasswordReset(ctx context.Context, email, redirectTo string) error
	UpdatePassword(ctx context.Context, accessToken, newPassword string) error
	ExchangeCode(ctx context.Context, code string) (*Session, error)
}
