package services

import (
	"context"
	"net/mail"
	"strings"

	"github.com/KC-426/aeonaxy/internal/auth"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 8

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	Compare(secret, digest string) bool
}

// TokenIssuer signs bearer tokens for authenticated accounts.
type TokenIssuer interface {
	Issue(subject auth.Subject) (string, error)
}

// SignupInput is the payload shared by user and admin signup.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Email string
	Token string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateSignup checks the fields of a signup request in place.
func validateSignup(in *SignupInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return fail(ErrInvalidArgument, "please fill all the required fields")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fail(ErrInvalidArgument, "invalid email address")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fail(ErrInvalidArgument, "password must be at least 8 characters long")
	}
	return nil
}

func issueToken(ctx context.Context, tokens TokenIssuer, subject auth.Subject) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return tokens.Issue(subject)
}
