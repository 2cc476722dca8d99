package gameshelf

import (
	"context"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

// AccountSource is the slice of the users store the claims lifecycle
// needs for refreshes
type AccountSource interface {
	GetByID(ctx context.Context, id string) (*User, error)
}

// Auther issues and refreshes session claims
type Auther struct {
	verifier CredentialVerifier
	accounts AccountSource
	tokens   TokenService
	logger   Logger
}

// NewAuthenticator returns a new Auther
func NewAuthenticator(verifier CredentialVerifier, accounts AccountSource, opts Config) *Auther {
	tokens := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		verifier: verifier,
		accounts: accounts,
		tokens:   tokens,
		logger:   defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// WithTokenService overrides the token service, mostly for tests
func (s *Auther) WithTokenService(tokens TokenService) *Auther {
	s.tokens = tokens
	return s
}

// TokenService returns the TokenService used by this Auther
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Login authenticates a credentials user and returns a signed session
// token carrying the issued claims.
func (s *Auther) Login(ctx context.Context, email, password string) (string, error) {
	identity, err := s.verifier.Verify(ctx, email, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		return "", err
	}

	token, err := s.tokens.Generate(identity, "")
	if err != nil {
		s.logger.Error("Login token generation error", "error", err)
		return "", err
	}

	return token, nil
}

// IssueForIdentity signs a session token for an already-authenticated
// identity. OAuth logins record the provider name in the claims.
func (s *Auther) IssueForIdentity(identity Identity, provider string) (string, error) {
	return s.tokens.Generate(identity, provider)
}

// Refresh re-reads the account behind the claims and overwrites
// name/email/image/role with current values. This is the only mechanism
// that heals a stale token after an out-of-band profile or role change.
// If the account no longer exists the claims are returned unchanged.
func (s *Auther) Refresh(ctx context.Context, claims *SessionClaims) (*SessionClaims, error) {
	if claims == nil {
		return nil, errors.New("cannot refresh nil claims", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}

	user, err := s.accounts.GetByID(ctx, claims.UserID())
	if err != nil {
		if repository.IsRecordNotFound(err) || errors.IsNotFound(err) {
			s.logger.Info("Refresh account is gone, leaving claims unchanged", "user_id", claims.UserID())
			return claims, nil
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to read account during refresh")
	}

	refreshed := claims.Clone()
	refreshed.Name = user.DisplayName
	refreshed.Email = user.Email
	refreshed.Image = user.AvatarURL
	refreshed.UserRole = CoerceRole(string(user.Role))

	return refreshed, nil
}

// RefreshToken validates a raw token, refreshes its claims from the
// store, and re-signs it.
func (s *Auther) RefreshToken(ctx context.Context, raw string) (string, error) {
	claims, err := s.tokens.Validate(raw)
	if err != nil {
		return "", err
	}

	refreshed, err := s.Refresh(ctx, claims)
	if err != nil {
		return "", err
	}

	return s.tokens.SignClaims(refreshed)
}

// SessionFromToken validates a raw token and returns its claims
func (s *Auther) SessionFromToken(raw string) (*SessionClaims, error) {
	claims, err := s.tokens.Validate(raw)
	if err != nil {
		s.logger.Error("SessionFromToken validation failed", "error", err)
		return nil, err
	}
	return claims, nil
}
