// brianwave/controllers/auth.go
package controllers

import (
	"context"

	"github.com/joshua-sigston/brianwave/brianwave/services/identity"
	"github.com/joshua-sigston/brianwave/brianwave/types"
	"github.com/joshua-sigston/brianwave/brianwave/utils/logging"

	"go.uber.org/zap"
)

// AuthController fronts the hosted identity provider. All credential checks
// happen there; this layer only validates form input and shapes outcomes.
type AuthController struct {
	gateway identity.Gateway
	siteURL string
}

func NewAuthController(gateway identity.Gateway, siteURL string) *AuthController {
	return &AuthController{gateway: gateway, siteURL: siteURL}
}

func (c *AuthController) SignUp(ctx context.Context, req types.SignUpRequest) types.Outcome {
	if out := req.Validate(); !out.OK() {
		return out
	}
	if err := c.gateway.SignUp(ctx, req.Email, req.Password, c.siteURL+"/auth/callback"); err != nil {
		return types.UpstreamFailure(err.Error(), err)
	}
	return types.OK()
}

func (c *AuthController) SignIn(ctx context.Context, req types.LoginRequest) (*identity.Session, types.Outcome) {
	if out := req.Validate(); !out.OK() {
		return nil, out
	}
	session, err := c.gateway.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, types.UpstreamFailure(err.Error(), err)
	}
	return session, types.OK()
}

func (c *AuthController) SignOut(ctx context.Context, accessToken string) {
	if accessToken == "" {
		return
	}
	if err := c.gateway.SignOut(ctx, accessToken); err != nil {
		// The provider rejecting a logout is not actionable for the user;
		// the cookies get cleared either way.
		logging.AppLogger.Info("sign out call failed", zap.Error(err))
	}
}

// RequestPasswordReset always reports success for a well-formed email. The
// provider's answer must not leak whether an account exists.
func (c *AuthController) RequestPasswordReset(ctx context.Context, email string) types.Outcome {
	if email == "" {
		return types.ValidationFailed("Email is required")
	}
	if err := c.gateway.RequestPasswordReset(ctx, email, c.siteURL+"/auth/reset-password/change"); err != nil {
		logging.AppLogger.Info("password reset request failed", zap.Error(err))
	}
	return types.OK()
}

// CompletePasswordReset sets a new password on the recovery-scoped session
// established by the emailed link.
func (c *AuthController) CompletePasswordReset(ctx context.Context, accessToken, password, confirmPassword string) types.Outcome {
	if accessToken == "" {
		return types.Unauthenticated()
	}
	if out := types.ValidatePassword(password); !out.OK() {
		return out
	}
	if password != confirmPassword {
		return types.ValidationFailed("Passwords do not match")
	}
	if err := c.gateway.UpdatePassword(ctx, accessToken, password); err != nil {
		return types.UpstreamFailure(err.Error(), err)
	}
	return types.OK()
}

// ExchangeCode trades an emailed confirmation or recovery code for a session.
func (c *AuthController) ExchangeCode(ctx context.Context, code string) (*identity.Session, types.Outcome) {
	if code == "" {
		return nil, types.ValidationFailed("Missing code")
	}
	session, err := c.gateway.ExchangeCode(ctx, code)
	if err != nil {
		return nil, types.UpstreamFailure(err.Error(), err)
	}
	return session, types.OK()
}
