package gameshelf_test

import (
	"context"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gameshelf/gameshelf"
)

func credentialsUser(t *testing.T, password string) *gameshelf.User {
	t.Helper()
	hash, err := gameshelf.HashPassword(password)
	require.NoError(t, err)

	return &gameshelf.User{
		ID:           uuid.New(),
		Role:         gameshelf.RoleUser,
		DisplayName:  "Test User",
		Email:        "test@example.com",
		PasswordHash: hash,
	}
}

func TestVerifier_MissingCredentials(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "secret"},
		{"blank email", "   ", "secret"},
		{"empty password", "test@example.com", ""},
		{"both empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockUserTracker)
			verifier := gameshelf.NewVerifier(store)

			_, err := verifier.Verify(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, gameshelf.ErrMissingCredentials)
			store.AssertNotCalled(t, "GetByEmail")
		})
	}
}

func TestVerifier_GenericInvalidCredentials(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown account", func(t *testing.T) {
		store := new(MockUserTracker)
		store.On("GetByEmail", ctx, "nobody@example.com").
			Return(nil, repository.NewRecordNotFound()).Once()

		_, err := gameshelf.NewVerifier(store).Verify(ctx, "nobody@example.com", "secret")
		assert.ErrorIs(t, err, gameshelf.ErrInvalidCredentials)
		store.AssertExpectations(t)
	})

	t.Run("oauth only account has no hash", func(t *testing.T) {
		user := credentialsUser(t, "secret")
		user.PasswordHash = ""
		user.Provider = "github"

		store := new(MockUserTracker)
		store.On("GetByEmail", ctx, "test@example.com").Return(user, nil).Once()

		_, err := gameshelf.NewVerifier(store).Verify(ctx, "test@example.com", "secret")
		assert.ErrorIs(t, err, gameshelf.ErrInvalidCredentials)
	})

	t.Run("wrong password tracks the attempt", func(t *testing.T) {
		user := credentialsUser(t, "secret")

		store := new(MockUserTracker)
		store.On("GetByEmail", ctx, "test@example.com").Return(user, nil).Once()
		store.On("TrackAttemptedLogin", ctx, user).Return(nil).Once()

		_, err := gameshelf.NewVerifier(store).Verify(ctx, "test@example.com", "wrong")
		assert.ErrorIs(t, err, gameshelf.ErrInvalidCredentials)
		store.AssertExpectations(t)
	})

	t.Run("messages are indistinguishable", func(t *testing.T) {
		store := new(MockUserTracker)
		store.On("GetByEmail", ctx, mock.Anything).
			Return(nil, repository.NewRecordNotFound())

		_, unknownErr := gameshelf.NewVerifier(store).Verify(ctx, "nobody@example.com", "secret")

		user := credentialsUser(t, "secret")
		store2 := new(MockUserTracker)
		store2.On("GetByEmail", ctx, mock.Anything).Return(user, nil)
		store2.On("TrackAttemptedLogin", ctx, user).Return(nil)

		_, wrongErr := gameshelf.NewVerifier(store2).Verify(ctx, "test@example.com", "wrong")

		assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	})
}

func TestVerifier_Throttling(t *testing.T) {
	ctx := context.Background()

	t.Run("too many attempts inside the window", func(t *testing.T) {
		user := credentialsUser(t, "secret")
		now := time.Now()
		user.LoginAttempts = gameshelf.MaxLoginAttempts + 1
		user.LoginAttemptAt = &now

		store := new(MockUserTracker)
		store.On("GetByEmail", ctx, "test@example.com").Return(user, nil).Once()

		_, err := gameshelf.NewVerifier(store).Verify(ctx, "test@example.com", "secret")
		assert.ErrorIs(t, err, gameshelf.ErrTooManyLoginAttempts)

		var richErr *goerrors.Error
		require.True(t, goerrors.As(err, &richErr))
		assert.Equal(t, goerrors.CategoryRateLimit, richErr.Category)
	})

	t.Run("cooldown expiry resets the counter", func(t *testing.T) {
		user := credentialsUser(t, "secret")
		stale := time.Now().Add(-gameshelf.CoolDownPeriod - time.Hour)
		user.LoginAttempts = gameshelf.MaxLoginAttempts + 3
		user.LoginAttemptAt = &stale

		store := new(MockUserTracker)
		store.On("GetByEmail", ctx, "test@example.com").Return(user, nil).Once()
		store.On("TrackSuccessfulLogin", ctx, user).Return(nil).Once()

		identity, err := gameshelf.NewVerifier(store).Verify(ctx, "test@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), identity.ID())
		store.AssertExpectations(t)
	})
}

func TestVerifier_Success(t *testing.T) {
	ctx := context.Background()
	user := credentialsUser(t, "secret")
	user.Role = gameshelf.RoleAdmin
	user.AvatarURL = "https://cdn.example.com/a.png"

	store := new(MockUserTracker)
	store.On("GetByEmail", ctx, "test@example.com").Return(user, nil).Once()
	store.On("TrackSuccessfulLogin", ctx, user).Return(nil).Once()

	identity, err := gameshelf.NewVerifier(store).Verify(ctx, "test@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, user.ID.String(), identity.ID())
	assert.Equal(t, "Test User", identity.Name())
	assert.Equal(t, "test@example.com", identity.Email())
	assert.Equal(t, "https://cdn.example.com/a.png", identity.Image())
	assert.Equal(t, string(gameshelf.RoleAdmin), identity.Role())
	store.AssertExpectations(t)
}
