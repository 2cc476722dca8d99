package social

import (
	"context"
	"fmt"
	"time"
)

// Provider is the interface OAuth2 login providers implement.
type Provider interface {
	// Name returns the provider identifier (e.g. "github", "google").
	Name() string

	// AuthCodeURL returns the URL to redirect users for authorization.
	// The state parameter is included for CSRF protection.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for an access token.
	Exchange(ctx context.Context, code string) (*Token, error)

	// UserInfo fetches the user's profile using the access token.
	UserInfo(ctx context.Context, token *Token) (*Profile, error)
}

// Token represents an OAuth2 token response.
type Token struct {
	AccessToken  string
	TokenType    string
	RefreshToken string
	ExpiresAt    time.Time
	Scopes       []string
}

// Profile represents normalized user information from a provider.
type Profile struct {
	ProviderUserID string
	Provider       string
	Email          string
	EmailVerified  bool
	Name           string
	AvatarURL      string
}

// ProviderError carries provider API failure details.
type ProviderError struct {
	Provider    string
	Operation   string
	Status      int
	Code        string
	Description string
	Err         error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %s failed", e.Provider, e.Operation)
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.Description != "" {
		msg += ": " + e.Description
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
