package gameshelf_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gameshelf/gameshelf"
)

// MockUserTracker implements gameshelf.UserTracker
type MockUserTracker struct {
	mock.Mock
}

func (m *MockUserTracker) GetByEmail(ctx context.Context, email string) (*gameshelf.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*gameshelf.User)
	return user, args.Error(1)
}

func (m *MockUserTracker) TrackAttemptedLogin(ctx context.Context, user *gameshelf.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserTracker) TrackSuccessfulLogin(ctx context.Context, user *gameshelf.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockAccountSource implements gameshelf.AccountSource
type MockAccountSource struct {
	mock.Mock
}

func (m *MockAccountSource) GetByID(ctx context.Context, id string) (*gameshelf.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*gameshelf.User)
	return user, args.Error(1)
}

// MockVerifier implements gameshelf.CredentialVerifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, email, password string) (gameshelf.Identity, error) {
	args := m.Called(ctx, email, password)
	identity, _ := args.Get(0).(gameshelf.Identity)
	return identity, args.Error(1)
}

type testConfig struct {
	signingKey string
	hours      int
	issuer     string
	audience   []string
}

func (c testConfig) GetSigningKey() string   { return c.signingKey }
func (c testConfig) GetContextKey() string   { return "session" }
func (c testConfig) GetTokenExpiration() int { return c.hours }
func (c testConfig) GetIssuer() string       { return c.issuer }
func (c testConfig) GetAudience() []string   { return c.audience }

func newTestConfig() testConfig {
	return testConfig{
		signingKey: "test-signing-key",
		hours:      1,
		issuer:     "gameshelf-test",
		audience:   []string{"gameshelf"},
	}
}
