package authapi

import (
	"context"
	"fmt"
)

// Logger is the minimal logging surface the package needs. Any structured
// logger with message + key/value pairs satisfies it.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetIssuer() string
	GetTokenExpiration() int // seconds
	GetContextKey() string
	GetAuthScheme() string
}

// UserDirectory is the external collaborator that owns credential
// verification and identity-by-id lookup.
type UserDirectory interface {
	Authenticate(ctx context.Context, username, password string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	CurrentUser(ctx context.Context, authorizationHeader string) (*UserData, error)
}

// TokenValidator validates tokens and extracts claims without tying callers
// to a specific signing implementation.
type TokenValidator interface {
	Validate(tokenString string) (*Claims, error)
}

// LoginPayload is the inbound shape of a login request.
type LoginPayload interface {
	GetUsername() string
	GetPassword() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
