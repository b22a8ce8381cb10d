package membership_test

import (
	"context"
	"testing"

	"github.com/damoti/go-membership"
	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func seedWelcomeTemplate(t *testing.T, repo membership.RepositoryManager) {
	t.Helper()
	_, err := repo.EmailTemplates().Create(context.Background(), &membership.EmailTemplate{
		Name:    membership.WelcomeEmailName,
		Subject: "Welcome {{.user.FirstName}}",
		Body:    "Hi {{.user.FirstName}}, your username is {{.user.Username}} and your password is {{.password}}.",
	})
	require.NoError(t, err)
}

func TestDispatcher_SendWelcomeEmail(t *testing.T) {
	db, repo := setupTestDB(t)
	ctx := context.Background()
	seedWelcomeTemplate(t, repo)

	user, err := repo.Users().CreateWithUsername(ctx, &membership.User{
		Email:        "lex@damoti.com",
		FirstName:    "Lex",
		PasswordHash: "x",
	})
	require.NoError(t, err)

	mailer := new(MockMailer)
	mailer.On("Send", mock.Anything, "lex@damoti.com",
		"Welcome Lex",
		"Hi Lex, your username is lex and your password is hunter2secret.",
	).Return(nil)

	dispatcher := membership.NewNotificationDispatcher(repo, mailer)
	require.NoError(t, dispatcher.SendWelcomeEmail(ctx, user, "hunter2secret"))

	mailer.AssertExpectations(t)

	// delivery is recorded in the audit log
	var sent []*membership.SentEmail
	require.NoError(t, db.NewSelect().Model(&sent).Scan(ctx))
	require.Len(t, sent, 1)
	assert.Equal(t, membership.WelcomeEmailName, sent[0].Name)
	assert.Equal(t, user.ID, sent[0].RecipientID)
	assert.Contains(t, sent[0].Text, "hunter2secret")
}

func TestDispatcher_MissingTemplate(t *testing.T) {
	_, repo := setupTestDB(t)
	ctx := context.Background()

	user := &membership.User{Email: "lex@damoti.com"}

	mailer := new(MockMailer)
	dispatcher := membership.NewNotificationDispatcher(repo, mailer)

	err := dispatcher.Send(ctx, "no-such-template", user, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, membership.ErrTemplateNotFound))
	mailer.AssertNotCalled(t, "Send")
}

func TestDispatcher_UnknownPlaceholder(t *testing.T) {
	db, repo := setupTestDB(t)
	ctx := context.Background()

	_, err := repo.EmailTemplates().Create(ctx, &membership.EmailTemplate{
		Name:    "broken",
		Subject: "Hello",
		Body:    "Your voucher code is {{.voucher}}.",
	})
	require.NoError(t, err)

	user, err := repo.Users().CreateWithUsername(ctx, &membership.User{
		Email:        "lex@damoti.com",
		PasswordHash: "x",
	})
	require.NoError(t, err)

	mailer := new(MockMailer)
	dispatcher := membership.NewNotificationDispatcher(repo, mailer)

	err = dispatcher.Send(ctx, "broken", user, nil)
	require.Error(t, err)

	// nothing was delivered and nothing was recorded
	mailer.AssertNotCalled(t, "Send")
	var sent []*membership.SentEmail
	require.NoError(t, db.NewSelect().Model(&sent).Scan(ctx))
	assert.Empty(t, sent)
}

func TestDispatcher_MailerFailureSkipsAudit(t *testing.T) {
	db, repo := setupTestDB(t)
	ctx := context.Background()
	seedWelcomeTemplate(t, repo)

	user, err := repo.Users().CreateWithUsername(ctx, &membership.User{
		Email:        "lex@damoti.com",
		FirstName:    "Lex",
		PasswordHash: "x",
	})
	require.NoError(t, err)

	mailer := new(MockMailer)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("relay down", errors.CategoryOperation))

	dispatcher := membership.NewNotificationDispatcher(repo, mailer)
	err = dispatcher.SendWelcomeEmail(ctx, user, "hunter2secret")
	require.Error(t, err)

	var sent []*membership.SentEmail
	require.NoError(t, db.NewSelect().Model(&sent).Scan(ctx))
	assert.Empty(t, sent)
}
