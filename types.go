package gameshelf

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated identity. It is the
// seed for session claims.
type Identity interface {
	ID() string
	Name() string
	Email() string
	Image() string
	Role() string
}

// CredentialVerifier validates email/password pairs against the store
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (Identity, error)
}

// TokenService signs and validates session claim tokens
type TokenService interface {
	Generate(identity Identity, provider string) (string, error)
	SignClaims(claims *SessionClaims) (string, error)
	Validate(tokenString string) (*SessionClaims, error)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetContextKey() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
}

// DefaultLogger returns the fallback stdout logger used when no Logger
// is provided.
func DefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] GAMESHELF "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] GAMESHELF "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] GAMESHELF "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
