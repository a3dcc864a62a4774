// Package auth defines the boundary to the external identity service. The
// demo never implements real authentication; Demo is a stand-in that
// accepts any well-formed credentials, the way the UI treats the hosted
// auth client as an external collaborator.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Credentials is what the identity service hands back on success.
type Credentials struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// Authenticator is the outbound port to the identity service.
type Authenticator interface {
	SignInWithPassword(ctx context.Context, email, password string) (Credentials, error)
	SignUp(ctx context.Context, email, password string) (Credentials, error)
}

var (
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrPasswordTooWeak = errors.New("password must be at least 6 characters")
)

// Demo accepts any syntactically plausible email/password pair and mints a
// throwaway session token.
type Demo struct{}

var _ Authenticator = Demo{}

func (Demo) SignInWithPassword(_ context.Context, email, password string) (Credentials, error) {
	return issue(email, password)
}

func (Demo) SignUp(_ context.Context, email, password string) (Credentials, error) {
	return issue(email, password)
}

func issue(email, password string) (Credentials, error) {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return Credentials{}, ErrInvalidEmail
	}
	if len(password) < 6 {
		return Credentials{}, ErrPasswordTooWeak
	}
	return Credentials{
		UserID: uuid.NewString(),
		Email:  email,
		Token:  "demo-" + uuid.NewString(),
	}, nil
}
