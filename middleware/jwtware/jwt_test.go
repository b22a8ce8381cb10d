package jwtware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticClaims struct {
	subject   string
	staff     bool
	superuser bool
}

func (c staticClaims) Subject() string     { return c.subject }
func (c staticClaims) UserID() string      { return c.subject }
func (c staticClaims) IsStaff() bool       { return c.staff }
func (c staticClaims) IsSuperuser() bool   { return c.superuser }
func (c staticClaims) Expires() time.Time  { return time.Now().Add(time.Hour) }
func (c staticClaims) IssuedAt() time.Time { return time.Now() }

type staticValidator struct{}

func (staticValidator) Validate(string) (AuthClaims, error) {
	return staticClaims{subject: "lex"}, nil
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig(Config{TokenValidator: staticValidator{}})

	assert.Equal(t, "user", cfg.ContextKey)
	assert.Equal(t, defaultTokenLookup, cfg.TokenLookup)
	assert.Equal(t, "Bearer", cfg.AuthScheme)
	assert.NotNil(t, cfg.SuccessHandler)
	assert.NotNil(t, cfg.ErrorHandler)
}

func TestGetDefaultConfig_RequiresValidator(t *testing.T) {
	assert.Panics(t, func() {
		GetDefaultConfig(Config{})
	})
}

func TestGetExtractors(t *testing.T) {
	extractors := GetExtractors("header:Authorization,cookie:user,query:auth_token,param:token")
	assert.Len(t, extractors, 4)

	// unknown sources are skipped
	extractors = GetExtractors("header:Authorization, body:token")
	assert.Len(t, extractors, 1)
}

func TestPerformAuthorizationChecks(t *testing.T) {
	member := staticClaims{subject: "lex"}
	staff := staticClaims{subject: "ops", staff: true}
	root := staticClaims{subject: "root", staff: true, superuser: true}

	require.NoError(t, performAuthorizationChecks(member, Config{}))

	assert.Error(t, performAuthorizationChecks(member, Config{StaffOnly: true}))
	assert.NoError(t, performAuthorizationChecks(staff, Config{StaffOnly: true}))

	assert.Error(t, performAuthorizationChecks(staff, Config{SuperuserOnly: true}))
	assert.NoError(t, performAuthorizationChecks(root, Config{SuperuserOnly: true, StaffOnly: true}))
}
