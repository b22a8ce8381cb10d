package membership_test

import (
	"context"

	"github.com/damoti/go-membership"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/mock"
)

// MockMailer implements membership.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

// MockIdentityProvider implements membership.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (membership.Identity, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(membership.Identity), args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (membership.Identity, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(membership.Identity), args.Error(1)
}

// MockUserStore implements membership.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*membership.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.User), args.Error(1)
}

// MockLoginPayload implements membership.LoginPayload
type MockLoginPayload struct {
	Identifier      string
	Password        string
	ExtendedSession bool
}

func (m MockLoginPayload) GetIdentifier() string {
	return m.Identifier
}

func (m MockLoginPayload) GetPassword() string {
	return m.Password
}

func (m MockLoginPayload) GetExtendedSession() bool {
	return m.ExtendedSession
}

// testIdentity implements membership.Identity
type testIdentity struct {
	id        string
	username  string
	email     string
	staff     bool
	superuser bool
}

func (t testIdentity) ID() string        { return t.id }
func (t testIdentity) Username() string  { return t.username }
func (t testIdentity) Email() string     { return t.email }
func (t testIdentity) IsStaff() bool     { return t.staff }
func (t testIdentity) IsSuperuser() bool { return t.superuser }

// testConfig implements membership.Config
type testConfig struct {
	signingKey            string
	tokenExpiration       int
	extendedTokenDuration int
	issuer                string
	audience              []string
}

func (c testConfig) GetSigningKey() string {
	if c.signingKey == "" {
		return "test-signing-key"
	}
	return c.signingKey
}
func (c testConfig) GetSigningMethod() string        { return "HS256" }
func (c testConfig) GetContextKey() string           { return "user" }
func (c testConfig) GetTokenExpiration() int         { return c.tokenExpiration }
func (c testConfig) GetExtendedTokenDuration() int   { return c.extendedTokenDuration }
func (c testConfig) GetTokenLookup() string          { return "header:Authorization,cookie:user" }
func (c testConfig) GetAuthScheme() string           { return "Bearer" }
func (c testConfig) GetIssuer() string               { return c.issuer }
func (c testConfig) GetAudience() []string           { return c.audience }
func (c testConfig) GetRejectedRouteDefault() string { return "/" }
