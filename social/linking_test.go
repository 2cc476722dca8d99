package social

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gameshelf/gameshelf"
)

func accountKey(provider, providerUserID string) string {
	return provider + ":" + providerUserID
}

type stubLinkingAccountRepo struct {
	byProviderID map[string]*LinkedAccount
	upserts      []*LinkedAccount
}

func (s *stubLinkingAccountRepo) FindByProviderID(ctx context.Context, provider, providerUserID string) (*LinkedAccount, error) {
	if account, ok := s.byProviderID[accountKey(provider, providerUserID)]; ok {
		return account, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubLinkingAccountRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*LinkedAccount, error) {
	return nil, nil
}

func (s *stubLinkingAccountRepo) Upsert(ctx context.Context, account *LinkedAccount) error {
	if s.byProviderID == nil {
		s.byProviderID = map[string]*LinkedAccount{}
	}
	s.byProviderID[accountKey(account.Provider, account.ProviderUserID)] = account
	s.upserts = append(s.upserts, account)
	return nil
}

func (s *stubLinkingAccountRepo) DeleteByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) error {
	return nil
}

type stubUsers struct {
	gameshelf.Users
	byID       map[string]*gameshelf.User
	byEmail    map[string]*gameshelf.User
	registered []*gameshelf.User
}

func (s *stubUsers) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*gameshelf.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubUsers) GetByEmail(ctx context.Context, email string) (*gameshelf.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubUsers) Register(ctx context.Context, user *gameshelf.User) (*gameshelf.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.registered = append(s.registered, user)
	return user, nil
}

func githubProfile() *Profile {
	return &Profile{
		Provider:       "github",
		ProviderUserID: "123",
		Email:          "dev@example.com",
		EmailVerified:  true,
		Name:           "Dev",
		AvatarURL:      "https://avatars.example.com/dev",
	}
}

func TestDefaultLinkingStrategy_ExistingLink(t *testing.T) {
	user := &gameshelf.User{ID: uuid.New(), Email: "dev@example.com"}
	accountRepo := &stubLinkingAccountRepo{
		byProviderID: map[string]*LinkedAccount{
			accountKey("github", "123"): {
				UserID:         user.ID,
				Provider:       "github",
				ProviderUserID: "123",
			},
		},
	}
	userRepo := &stubUsers{byID: map[string]*gameshelf.User{user.ID.String(): user}}

	strategy := &DefaultLinkingStrategy{AllowSignup: true}
	result, err := strategy.ResolveUser(context.Background(), LinkingContext{
		Profile:     githubProfile(),
		AccountRepo: accountRepo,
		UserRepo:    userRepo,
	})

	require.NoError(t, err)
	assert.Equal(t, user, result.User)
	assert.False(t, result.IsNewUser)
	assert.False(t, result.Linked)
	assert.Empty(t, userRepo.registered)
}

func TestDefaultLinkingStrategy_EmailMatchLinks(t *testing.T) {
	user := &gameshelf.User{ID: uuid.New(), Email: "dev@example.com"}
	accountRepo := &stubLinkingAccountRepo{}
	userRepo := &stubUsers{byEmail: map[string]*gameshelf.User{user.Email: user}}

	strategy := &DefaultLinkingStrategy{AllowSignup: true}
	result, err := strategy.ResolveUser(context.Background(), LinkingContext{
		Profile:     githubProfile(),
		AccountRepo: accountRepo,
		UserRepo:    userRepo,
	})

	require.NoError(t, err)
	assert.Equal(t, user, result.User)
	assert.False(t, result.IsNewUser)
	assert.True(t, result.Linked)

	require.Len(t, accountRepo.upserts, 1)
	assert.Equal(t, user.ID, accountRepo.upserts[0].UserID)
	assert.Equal(t, "github", accountRepo.upserts[0].Provider)
}

func TestDefaultLinkingStrategy_SignsUpUnknownProfile(t *testing.T) {
	accountRepo := &stubLinkingAccountRepo{}
	userRepo := &stubUsers{}

	var hookUser *gameshelf.User
	strategy := &DefaultLinkingStrategy{
		AllowSignup: true,
		OnUserCreated: func(ctx context.Context, user *gameshelf.User, profile *Profile) error {
			hookUser = user
			return nil
		},
	}

	result, err := strategy.ResolveUser(context.Background(), LinkingContext{
		Profile:     githubProfile(),
		AccountRepo: accountRepo,
		UserRepo:    userRepo,
	})

	require.NoError(t, err)
	assert.True(t, result.IsNewUser)
	assert.Equal(t, "dev@example.com", result.User.Email)
	assert.Equal(t, gameshelf.RoleUser, result.User.Role)
	assert.Equal(t, "github", result.User.Provider)
	assert.Len(t, accountRepo.upserts, 1)
	assert.Same(t, result.User, hookUser)
}

func TestDefaultLinkingStrategy_SignupDisabled(t *testing.T) {
	strategy := &DefaultLinkingStrategy{AllowSignup: false}

	_, err := strategy.ResolveUser(context.Background(), LinkingContext{
		Profile:     githubProfile(),
		AccountRepo: &stubLinkingAccountRepo{},
		UserRepo:    &stubUsers{},
	})

	assert.ErrorIs(t, err, ErrSignupNotAllowed)
}

func TestDefaultLinkingStrategy_UnverifiedEmailRejected(t *testing.T) {
	profile := githubProfile()
	profile.EmailVerified = false

	strategy := &DefaultLinkingStrategy{AllowSignup: true, RequireEmailVerified: true}

	_, err := strategy.ResolveUser(context.Background(), LinkingContext{
		Profile:     profile,
		AccountRepo: &stubLinkingAccountRepo{},
		UserRepo:    &stubUsers{},
	})

	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestDefaultLinkingStrategy_NilProfile(t *testing.T) {
	strategy := &DefaultLinkingStrategy{AllowSignup: true}

	_, err := strategy.ResolveUser(context.Background(), LinkingContext{
		AccountRepo: &stubLinkingAccountRepo{},
		UserRepo:    &stubUsers{},
	})

	assert.ErrorIs(t, err, ErrUserInfoFailed)
}

func TestDefaultLinkingStrategy_FallbackDisplayName(t *testing.T) {
	profile := githubProfile()
	profile.Name = ""

	strategy := &DefaultLinkingStrategy{AllowSignup: true}
	result, err := strategy.ResolveUser(context.Background(), LinkingContext{
		Profile:     profile,
		AccountRepo: &stubLinkingAccountRepo{},
		UserRepo:    &stubUsers{},
	})

	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%s user", profile.Provider), result.User.DisplayName)
}
