package social

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gameshelf/gameshelf"
)

// Authenticator orchestrates OAuth login flows.
type Authenticator struct {
	providers       map[string]Provider
	stateManager    StateManager
	linkingStrategy LinkingStrategy
	accountRepo     LinkedAccountRepository
	userRepo        gameshelf.Users
	tokenService    gameshelf.TokenService
	config          AuthConfig
}

// AuthConfig configures the social authenticator.
type AuthConfig struct {
	DefaultRedirectURL   string
	StateEncryptionKey   []byte
	StateHMACKey         []byte
	StateTTL             time.Duration
	AllowSignup          bool
	RequireEmailVerified bool
}

// AuthOption configures the social authenticator.
type AuthOption func(*Authenticator)

// NewAuthenticator creates a new social authenticator.
func NewAuthenticator(
	accountRepo LinkedAccountRepository,
	userRepo gameshelf.Users,
	tokenService gameshelf.TokenService,
	config AuthConfig,
	opts ...AuthOption,
) *Authenticator {
	cfg := config
	if cfg.StateTTL == 0 {
		cfg.StateTTL = 10 * time.Minute
	}

	sa := &Authenticator{
		providers:    make(map[string]Provider),
		accountRepo:  accountRepo,
		userRepo:     userRepo,
		tokenService: tokenService,
		config:       cfg,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(sa)
		}
	}

	if sa.stateManager == nil {
		sa.stateManager = NewEncryptedStateManager(
			cfg.StateEncryptionKey,
			cfg.StateHMACKey,
			cfg.StateTTL,
		)
	}

	if sa.linkingStrategy == nil {
		sa.linkingStrategy = &DefaultLinkingStrategy{
			AllowSignup:          cfg.AllowSignup,
			RequireEmailVerified: cfg.RequireEmailVerified,
		}
	}

	return sa
}

// WithProvider registers a social provider.
func WithProvider(provider Provider) AuthOption {
	return func(sa *Authenticator) {
		if provider == nil {
			return
		}
		sa.providers[provider.Name()] = provider
	}
}

// WithStateManager sets a custom state manager.
func WithStateManager(sm StateManager) AuthOption {
	return func(sa *Authenticator) {
		sa.stateManager = sm
	}
}

// WithLinkingStrategy sets a custom user linking strategy.
func WithLinkingStrategy(ls LinkingStrategy) AuthOption {
	return func(sa *Authenticator) {
		sa.linkingStrategy = ls
	}
}

// BeginAuth starts the OAuth flow for a provider.
func (sa *Authenticator) BeginAuth(ctx context.Context, providerName string) (*AuthRedirect, error) {
	provider, ok := sa.providers[providerName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, providerName)
	}

	state := &OAuthState{
		Nonce:       generateNonce(),
		Provider:    providerName,
		RedirectURL: sa.config.DefaultRedirectURL,
		IssuedAt:    time.Now().Unix(),
		ExpiresAt:   time.Now().Add(sa.config.StateTTL).Unix(),
	}

	stateToken, err := sa.stateManager.Encode(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}

	return &AuthRedirect{
		URL:      provider.AuthCodeURL(stateToken),
		State:    stateToken,
		Provider: providerName,
	}, nil
}

// CompleteAuth finishes the OAuth flow after callback.
func (sa *Authenticator) CompleteAuth(ctx context.Context, providerName, code, stateToken string) (*AuthResult, error) {
	state, err := sa.stateManager.Decode(stateToken)
	if err != nil {
		if errors.Is(err, ErrStateExpired) {
			return nil, ErrStateExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if state.Provider != providerName {
		return nil, fmt.Errorf("%w: provider mismatch", ErrInvalidState)
	}

	if time.Now().Unix() > state.ExpiresAt {
		return nil, ErrStateExpired
	}

	provider, ok := sa.providers[providerName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, providerName)
	}

	token, err := provider.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenExchangeFailed, err)
	}

	profile, err := provider.UserInfo(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInfoFailed, err)
	}

	result, err := sa.linkingStrategy.ResolveUser(ctx, LinkingContext{
		Profile:     profile,
		AccountRepo: sa.accountRepo,
		UserRepo:    sa.userRepo,
	})
	if err != nil {
		return nil, err
	}
	if result == nil || result.User == nil {
		return nil, gameshelf.ErrAccountNotFound
	}

	identity := gameshelf.IdentityFromUser(result.User)

	jwtToken, err := sa.tokenService.Generate(identity, providerName)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResult{
		User:        identity,
		Token:       jwtToken,
		IsNewUser:   result.IsNewUser,
		Provider:    providerName,
		Profile:     profile,
		RedirectURL: state.RedirectURL,
	}, nil
}

// ListProviders returns the names of all registered providers.
func (sa *Authenticator) ListProviders() []string {
	names := make([]string, 0, len(sa.providers))
	for name := range sa.providers {
		names = append(names, name)
	}
	return names
}

// AuthRedirect contains the authorization URL for redirecting users.
type AuthRedirect struct {
	URL      string
	State    string
	Provider string
}

// AuthResult contains the result of a successful authentication.
type AuthResult struct {
	User        gameshelf.Identity
	Token       string
	IsNewUser   bool
	Provider    string
	Profile     *Profile
	RedirectURL string
}
