package gameshelf

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the signed, time-bounded projection of an account
// carried by the session token. It is never persisted server-side; it is
// only invalidated by expiry or re-issuance.
type SessionClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid,omitempty"`
	UserRole Role   `json:"role,omitempty"`
	Provider string `json:"provider,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Image    string `json:"image,omitempty"`
}

// UserID returns the account id, falling back to the token subject
func (c *SessionClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// Role returns the global role carried by the claims
func (c *SessionClaims) Role() Role {
	return c.UserRole
}

// IsAdmin reports whether the claims carry the admin role
func (c *SessionClaims) IsAdmin() bool {
	return c.UserRole == RoleAdmin
}

// Expires returns the expiration time
func (c *SessionClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *SessionClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Clone returns a copy of the claims sharing no mutable state
func (c *SessionClaims) Clone() *SessionClaims {
	if c == nil {
		return nil
	}
	dup := *c
	if len(c.RegisteredClaims.Audience) > 0 {
		dup.RegisteredClaims.Audience = append(jwt.ClaimStrings(nil), c.RegisteredClaims.Audience...)
	}
	return &dup
}
