package membership_test

import (
	"context"
	"strings"
	"testing"

	"github.com/damoti/go-membership"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo membership.RepositoryManager, email string) *membership.User {
	t.Helper()

	hash, err := membership.HashPassword("figs87sd&s8")
	require.NoError(t, err)

	user, err := repo.Users().CreateWithUsername(context.Background(), &membership.User{
		Email:        email,
		FirstName:    "Lex",
		LastName:     "Berezhny",
		PasswordHash: hash,
		IsActive:     true,
	})
	require.NoError(t, err)
	return user
}

func TestResetPassword_Notified(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()
	seedWelcomeTemplate(t, repo)
	seedUser(t, repo, "lex@damoti.com")

	var sentBody string
	mailer := new(MockMailer)
	mailer.On("Send", mock.Anything, "lex@damoti.com", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sentBody = args.String(3)
		}).
		Return(nil)

	dispatcher := membership.NewNotificationDispatcher(repo, mailer)
	handler := membership.NewResetPasswordHandler(repo, dispatcher, nil)

	var res *membership.ResetPasswordResponse
	err := handler.Execute(ctx, membership.ResetPasswordMessage{
		Identifier: "lex",
		OnResponse: func(r *membership.ResetPasswordResponse) {
			res = r
		},
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, membership.UserNotified, res.Stage)

	// the response carries no password, only the email does
	password := passwordFromEmail(t, sentBody)
	assert.Len(t, password, membership.DefaultPasswordLength)

	// old password no longer works, new one does
	user, err := repo.Users().GetByIdentifier(ctx, "lex")
	require.NoError(t, err)
	assert.Error(t, membership.ComparePasswordAndHash("figs87sd&s8", user.PasswordHash))
	assert.NoError(t, membership.ComparePasswordAndHash(password, user.PasswordHash))

	mailer.AssertExpectations(t)
}

func TestResetPassword_UnknownIdentifier(t *testing.T) {
	_, repo := setupTestDB(t)

	handler := membership.NewResetPasswordHandler(repo, nil, nil)

	err := handler.Execute(context.Background(), membership.ResetPasswordMessage{
		Identifier: "nobody",
	})
	require.Error(t, err)
	assert.True(t, repository.IsRecordNotFound(err))
}

func TestResetPassword_EmailFailureKeepsNewPassword(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()
	seedWelcomeTemplate(t, repo)
	seedUser(t, repo, "lex@damoti.com")

	var sentBody string
	mailer := new(MockMailer)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sentBody = args.String(3)
		}).
		Return(errors.New("relay down", errors.CategoryOperation))

	dispatcher := membership.NewNotificationDispatcher(repo, mailer)
	handler := membership.NewResetPasswordHandler(repo, dispatcher, nil)

	var res *membership.ResetPasswordResponse
	err := handler.Execute(ctx, membership.ResetPasswordMessage{
		Identifier: "lex@damoti.com",
		OnResponse: func(r *membership.ResetPasswordResponse) {
			res = r
		},
	})
	require.NoError(t, err)

	assert.Equal(t, membership.PasswordWasReset, res.Stage)

	// the hash was replaced even though the notification failed
	user, err := repo.Users().GetByIdentifier(ctx, "lex")
	require.NoError(t, err)
	assert.Error(t, membership.ComparePasswordAndHash("figs87sd&s8", user.PasswordHash))
	assert.NoError(t, membership.ComparePasswordAndHash(passwordFromEmail(t, sentBody), user.PasswordHash))
}

// passwordFromEmail pulls the generated password out of the rendered
// welcome body seeded by seedWelcomeTemplate.
func passwordFromEmail(t *testing.T, body string) string {
	t.Helper()

	const marker = "your password is "
	i := strings.Index(body, marker)
	require.GreaterOrEqual(t, i, 0)
	password := strings.TrimSuffix(body[i+len(marker):], ".")
	require.NotEmpty(t, password)
	return password
}
