// brianwave/types/auth.go
package types

import (
	"net/mail"
	"strings"
)

type SignUpRequest struct {
	Email           string
	Password        string
	ConfirmPassword string
}

type LoginRequest struct {
	Email    string
	Password string
}

// ValidateEmail rejects anything the mail parser will not accept.
func ValidateEmail(email string) Outcome {
	if strings.TrimSpace(email) == "" {
		return ValidationFailed("Email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ValidationFailed("Email is invalid")
	}
	return OK()
}

// ValidatePassword enforces the sign-up password policy: at least 8
// characters with one uppercase letter, one lowercase letter, one digit and
// one special character from !@#$%^&*.
func ValidatePassword(password string) Outcome {
	if len(password) < 8 {
		return ValidationFailed("Password must be at least 8 characters.")
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("!@#$%^&*", r):
			special = true
		}
	}
	switch {
	case !upper:
		return ValidationFailed("Password must contain at least one uppercase letter")
	case !lower:
		return ValidationFailed("Password must contain at least one lowercase letter")
	case !digit:
		return ValidationFailed("Password must contain at least one number")
	case !special:
		return ValidationFailed("Password must contain at least one special character")
	}
	return OK()
}

func (r SignUpRequest) Validate() Outcome {
	if out := ValidateEmail(r.Email); !out.OK() {
		return out
	}
	if out := ValidatePassword(r.Password); !out.OK() {
		return out
	}
	if r.Password != r.ConfirmPassword {
		return ValidationFailed("Passwords do not match")
	}
	return OK()
}

func (r LoginRequest) Validate() Outcome {
	if r.Email == "" || r.Password == "" {
		return ValidationFailed("Email and password are required")
	}
	return OK()
}
