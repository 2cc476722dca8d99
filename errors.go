package gameshelf

import (
	"github.com/goliatone/go-errors"
)

const (
	TextCodeMissingCredentials = "auth_missing_credentials"
	TextCodeInvalidCredentials = "auth_invalid_credentials"
	TextCodeTooManyAttempts    = "auth_too_many_attempts"
	TextCodeEmailRegistered    = "auth_email_registered"
	TextCodeEmptyPassword      = "auth_empty_password"
	TextCodeTokenExpired       = "auth_token_expired"
	TextCodeTokenMalformed     = "auth_token_malformed"
	TextCodeAccountNotFound    = "account_not_found"
	TextCodeGameExists         = "game_already_exists"
)

// ErrMissingCredentials is returned when email or password is absent.
var ErrMissingCredentials = errors.New("enter email and password", errors.CategoryValidation).
	WithTextCode(TextCodeMissingCredentials).
	WithCode(errors.CodeBadRequest)

// ErrInvalidCredentials is the single generic error for unknown account,
// OAuth-only account, and wrong password. Keeping the message identical
// across those cases avoids leaking which one occurred.
var ErrInvalidCredentials = errors.New("Invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrTooManyLoginAttempts is returned when the attempt counter exceeds the
// window limit.
var ErrTooManyLoginAttempts = errors.New("too many login attempts, try again later", errors.CategoryRateLimit).
	WithTextCode(TextCodeTooManyAttempts)

// ErrEmailAlreadyRegistered is returned by registration on duplicate email.
var ErrEmailAlreadyRegistered = errors.New("email already registered", errors.CategoryConflict).
	WithTextCode(TextCodeEmailRegistered).
	WithCode(errors.CodeConflict)

// ErrNoEmptyString is returned when hashing an empty password.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrTokenExpired is returned for expired session tokens.
var ErrTokenExpired = errors.New("session token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a session token cannot be parsed or
// its signature does not verify.
var ErrTokenMalformed = errors.New("session token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrGameAlreadyExists is returned when a catalog entry would collide
// with an existing slug.
var ErrGameAlreadyExists = errors.New("A game with this title already exists", errors.CategoryConflict).
	WithTextCode(TextCodeGameExists).
	WithCode(errors.CodeConflict)

// ErrAccountNotFound is returned when a referenced account is gone.
var ErrAccountNotFound = errors.New("account not found", errors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeNotFound)
