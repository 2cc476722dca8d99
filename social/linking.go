package social

import (
	"context"
	"database/sql"

	"github.com/gameshelf/gameshelf"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// LinkingStrategy resolves a provider profile to a local user.
type LinkingStrategy interface {
	ResolveUser(ctx context.Context, lc LinkingContext) (*LinkingResult, error)
}

// LinkingContext provides context for user resolution.
type LinkingContext struct {
	Profile     *Profile
	AccountRepo LinkedAccountRepository
	UserRepo    gameshelf.Users
}

// LinkingResult contains the resolved user and metadata.
type LinkingResult struct {
	User      *gameshelf.User
	IsNewUser bool
	Linked    bool
}

// DefaultLinkingStrategy resolves users in three steps: an existing
// provider link wins, then an email match, then signup.
type DefaultLinkingStrategy struct {
	AllowSignup          bool
	RequireEmailVerified bool

	OnUserCreated func(ctx context.Context, user *gameshelf.User, profile *Profile) error
}

// ResolveUser implements LinkingStrategy.
func (s *DefaultLinkingStrategy) ResolveUser(ctx context.Context, lc LinkingContext) (*LinkingResult, error) {
	if lc.Profile == nil {
		return nil, ErrUserInfoFailed
	}
	if lc.AccountRepo == nil || lc.UserRepo == nil {
		return nil, errors.New("linking requires account and user repositories", errors.CategoryInternal)
	}

	profile := lc.Profile

	if s.RequireEmailVerified && !profile.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	existing, err := lc.AccountRepo.FindByProviderID(ctx, profile.Provider, profile.ProviderUserID)
	if err == nil && existing != nil {
		user, err := lc.UserRepo.GetByID(ctx, existing.UserID.String())
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load linked user")
		}
		return &LinkingResult{User: user, IsNewUser: false}, nil
	}
	if err != nil && !repository.IsRecordNotFound(err) && err != sql.ErrNoRows {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up linked account")
	}

	if profile.Email != "" {
		user, err := lc.UserRepo.GetByEmail(ctx, profile.Email)
		if err == nil && user != nil {
			if err := s.linkAccount(ctx, lc, user, profile); err != nil {
				return nil, err
			}
			return &LinkingResult{User: user, IsNewUser: false, Linked: true}, nil
		}
		if err != nil && !repository.IsRecordNotFound(err) && err != sql.ErrNoRows {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up user by email")
		}
	}

	if !s.AllowSignup {
		return nil, ErrSignupNotAllowed
	}

	created, err := lc.UserRepo.Register(ctx, s.userFromProfile(profile))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create user from profile")
	}

	if err := s.linkAccount(ctx, lc, created, profile); err != nil {
		return nil, err
	}

	if s.OnUserCreated != nil {
		if err := s.OnUserCreated(ctx, created, profile); err != nil {
			return nil, err
		}
	}

	return &LinkingResult{User: created, IsNewUser: true}, nil
}

func (s *DefaultLinkingStrategy) linkAccount(ctx context.Context, lc LinkingContext, user *gameshelf.User, profile *Profile) error {
	err := lc.AccountRepo.Upsert(ctx, &LinkedAccount{
		UserID:         user.ID,
		Provider:       profile.Provider,
		ProviderUserID: profile.ProviderUserID,
		Email:          profile.Email,
		Name:           profile.Name,
		AvatarURL:      profile.AvatarURL,
	})
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to persist linked account")
	}
	return nil
}

func (s *DefaultLinkingStrategy) userFromProfile(profile *Profile) *gameshelf.User {
	name := profile.Name
	if name == "" {
		name = profile.Provider + " user"
	}

	return &gameshelf.User{
		Email:       profile.Email,
		DisplayName: name,
		AvatarURL:   profile.AvatarURL,
		Role:        gameshelf.RoleUser,
		Provider:    profile.Provider,
	}
}
