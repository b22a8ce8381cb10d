package membership

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// UserStore is the slice of the users repository the provider needs.
type UserStore interface {
	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error)
}

// UserProvider resolves identities against the users store. Every failure
// mode of VerifyIdentity collapses into ErrInvalidCredentials so callers
// cannot distinguish an unknown account from a wrong password or an
// inactive account.
type UserProvider struct {
	store  UserStore
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user, compare the password, and return the identity.
func (u UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			// Burn a hash comparison anyway so response timing does not
			// betray whether the account exists.
			_ = ComparePasswordAndHash(password, unknownUserHash)
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return NewIdentityFromUser(user), nil
}

// FindIdentityByIdentifier resolves an identity without checking a
// password. Inactive users are reported as not found.
func (u UserProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return NewIdentityFromUser(user), nil
}

// unknownUserHash is a bcrypt hash of a random throwaway value, compared
// against when the account does not exist.
var unknownUserHash = func() string {
	pwd, err := GeneratePassword(32)
	if err != nil {
		pwd = "throwaway-timing-pad"
	}
	h, err := HashPassword(pwd)
	if err != nil {
		return ""
	}
	return h
}()
