package gameshelf

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

// UserTracker is the slice of the users store the verifier needs
type UserTracker interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// MaxLoginAttempts is the maximum number of attempts a user gets in a
// cooldown window
var MaxLoginAttempts = 5

// CoolDownPeriod is the window after which the attempt counter resets
var CoolDownPeriod = 24 * time.Hour

// Verifier validates email/password pairs against the stored hash. It is
// read-only apart from attempt tracking; hashing of new passwords happens
// only at registration.
type Verifier struct {
	store  UserTracker
	logger Logger
}

// NewVerifier will create a new credential Verifier
func NewVerifier(store UserTracker) *Verifier {
	return &Verifier{
		store:  store,
		logger: defLogger{},
	}
}

func (v *Verifier) WithLogger(l Logger) *Verifier {
	v.logger = l
	return v
}

// Verify will find the user by email, compare the candidate password
// against the stored hash, and return the identity projection. Unknown
// account, OAuth-only account, and wrong password all fail with the same
// generic error.
func (v *Verifier) Verify(ctx context.Context, email, password string) (Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := v.store.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) || errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user == nil || !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	if user.LoginAttemptAt != nil && time.Since(*user.LoginAttemptAt) > CoolDownPeriod {
		user.LoginAttempts = 0
	}

	// too many attempts in the window, cool off
	if user.LoginAttempts > MaxLoginAttempts {
		return nil, ErrTooManyLoginAttempts
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if err2 := v.store.TrackAttemptedLogin(ctx, user); err2 != nil {
			return nil, errors.Wrap(err2, errors.CategoryInternal, "failed to track login attempt")
		}
		return nil, ErrInvalidCredentials
	}

	if err := v.store.TrackSuccessfulLogin(ctx, user); err != nil {
		v.logger.Error("failed to track successful login", "error", err)
	}

	return IdentityFromUser(user), nil
}

type authIdentity struct {
	id    string
	name  string
	email string
	image string
	role  Role
}

func (a authIdentity) ID() string    { return a.id }
func (a authIdentity) Name() string  { return a.name }
func (a authIdentity) Email() string { return a.email }
func (a authIdentity) Image() string { return a.image }
func (a authIdentity) Role() string  { return string(a.role) }

var _ Identity = authIdentity{}

// IdentityFromUser projects a user record into an Identity
func IdentityFromUser(user *User) Identity {
	return authIdentity{
		id:    user.ID.String(),
		name:  user.DisplayName,
		email: user.Email,
		image: user.AvatarURL,
		role:  CoerceRole(string(user.Role)),
	}
}
