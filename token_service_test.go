package membership_test

import (
	"testing"
	"time"

	"github.com/damoti/go-membership"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() membership.TokenService {
	return membership.NewTokenService([]byte("test-signing-key"), 24, "test-app", jwt.ClaimStrings{"test-app"}, nil)
}

func TestTokenService_GenerateAndValidate(t *testing.T) {
	svc := newTestTokenService()

	identity := testIdentity{
		id:        "c0f1f569-4a55-43a4-8b5f-16bda8e5e63e",
		username:  "lex",
		email:     "lex@damoti.com",
		staff:     true,
		superuser: false,
	}

	token, err := svc.Generate(identity)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, identity.id, claims.Subject())
	assert.Equal(t, identity.id, claims.UserID())
	assert.True(t, claims.IsStaff())
	assert.False(t, claims.IsSuperuser())
	assert.True(t, claims.Expires().After(time.Now()))
}

func TestTokenService_ExpiredToken(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.SignClaims(&membership.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-app",
			Subject:   "c0f1f569-4a55-43a4-8b5f-16bda8e5e63e",
			Audience:  jwt.ClaimStrings{"test-app"},
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.Error(t, err)
	assert.True(t, membership.IsTokenExpiredError(err))
	assert.False(t, membership.IsMalformedError(err))
}

func TestTokenService_TamperedToken(t *testing.T) {
	svc := newTestTokenService()

	identity := testIdentity{id: "c0f1f569-4a55-43a4-8b5f-16bda8e5e63e"}
	token, err := svc.Generate(identity)
	require.NoError(t, err)

	_, err = svc.Validate(token + "x")
	require.Error(t, err)
	assert.True(t, membership.IsMalformedError(err))
}

func TestTokenService_WrongKey(t *testing.T) {
	svc := newTestTokenService()
	other := membership.NewTokenService([]byte("a-different-key"), 24, "test-app", jwt.ClaimStrings{"test-app"}, nil)

	token, err := other.Generate(testIdentity{id: "c0f1f569-4a55-43a4-8b5f-16bda8e5e63e"})
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.Error(t, err)
	assert.True(t, membership.IsMalformedError(err))
}

func TestTokenService_GarbageInput(t *testing.T) {
	svc := newTestTokenService()

	_, err := svc.Validate("not-a-token")
	require.Error(t, err)
	assert.True(t, membership.IsMalformedError(err))
}
