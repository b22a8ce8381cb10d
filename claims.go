package membership

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the verified contents of a bearer token.
type AuthClaims interface {
	Subject() string
	UserID() string
	IsStaff() bool
	IsSuperuser() bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims. The token is
// self contained: its validity is defined entirely by signature and
// expiry, there is no server-side token state.
type JWTClaims struct {
	jwt.RegisteredClaims
	UID       string `json:"id,omitempty"`
	Staff     bool   `json:"staff,omitempty"`
	Superuser bool   `json:"superuser,omitempty"`
}

var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// IsStaff reports whether the token was issued to a staff account.
func (c *JWTClaims) IsStaff() bool {
	return c.Staff
}

// IsSuperuser reports whether the token was issued to a superuser account.
func (c *JWTClaims) IsSuperuser() bool {
	return c.Superuser
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
