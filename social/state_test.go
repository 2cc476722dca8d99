package social

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStateManager(ttl time.Duration) *EncryptedStateManager {
	return NewEncryptedStateManager(
		[]byte("0123456789abcdef0123456789abcdef"),
		[]byte("fedcba9876543210fedcba9876543210"),
		ttl,
	)
}

func TestStateManager_EncryptDecrypt(t *testing.T) {
	sm := testStateManager(10 * time.Minute)

	state := &OAuthState{
		Provider:    "github",
		RedirectURL: "/wishlist",
	}

	encoded, err := sm.Encode(state)
	require.NoError(t, err)

	decoded, err := sm.Decode(encoded)
	require.NoError(t, err)

	assert.Equal(t, state.Provider, decoded.Provider)
	assert.Equal(t, state.RedirectURL, decoded.RedirectURL)
	assert.NotEmpty(t, decoded.Nonce)
	assert.NotZero(t, decoded.ExpiresAt)
}

func TestStateManager_ExpiredState(t *testing.T) {
	sm := testStateManager(-1 * time.Minute)

	encoded, err := sm.Encode(&OAuthState{Provider: "github"})
	require.NoError(t, err)

	_, err = sm.Decode(encoded)
	assert.ErrorIs(t, err, ErrStateExpired)
}

func TestStateManager_TamperedToken(t *testing.T) {
	sm := testStateManager(10 * time.Minute)

	encoded, err := sm.Encode(&OAuthState{Provider: "google"})
	require.NoError(t, err)

	tampered := []byte(encoded)
	tampered[len(tampered)/2] ^= 1

	_, err = sm.Decode(string(tampered))
	assert.Error(t, err)
}

func TestStateManager_WrongKeyFails(t *testing.T) {
	sm := testStateManager(10 * time.Minute)

	encoded, err := sm.Encode(&OAuthState{Provider: "github"})
	require.NoError(t, err)

	other := NewEncryptedStateManager(
		[]byte("00000000000000000000000000000000"),
		[]byte("fedcba9876543210fedcba9876543210"),
		10*time.Minute,
	)

	_, err = other.Decode(encoded)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStateManager_GarbageInput(t *testing.T) {
	sm := testStateManager(10 * time.Minute)

	for _, token := range []string{"", "!!!", "c2hvcnQ"} {
		_, err := sm.Decode(token)
		assert.Error(t, err, "token %q should not decode", token)
	}
}
