package membership

import (
	"context"
	"strings"
	"text/template"

	"github.com/goliatone/go-errors"
)

// NotificationDispatcher renders a stored email template against a user
// and delivers the result, recording every delivery in the audit log.
type NotificationDispatcher struct {
	repo   RepositoryManager
	mailer Mailer
	logger Logger
}

type NotificationDispatcherOption func(*NotificationDispatcher) *NotificationDispatcher

func WithDispatcherLogger(logger Logger) NotificationDispatcherOption {
	return func(d *NotificationDispatcher) *NotificationDispatcher {
		if logger != nil {
			d.logger = logger
		}
		return d
	}
}

func NewNotificationDispatcher(repo RepositoryManager, mailer Mailer, opts ...NotificationDispatcherOption) *NotificationDispatcher {
	d := &NotificationDispatcher{
		repo:   repo,
		mailer: mailer,
		logger: defLogger{},
	}

	for _, opt := range opts {
		d = opt(d)
	}

	return d
}

// Send looks up the named template, renders subject and body with the
// user plus any extra values, delivers the message, and appends an audit
// record. A placeholder the template names but the data does not carry is
// an error, not an empty string.
func (d *NotificationDispatcher) Send(ctx context.Context, templateName string, user *User, extra map[string]any) error {
	if user == nil {
		return errors.New("recipient user is required", errors.CategoryBadInput)
	}

	tpl, err := d.repo.EmailTemplates().GetByName(ctx, templateName)
	if err != nil {
		return err
	}

	data := map[string]any{
		"user": user,
	}
	for k, v := range extra {
		data[k] = v
	}

	subject, err := renderTemplate(templateName+":subject", tpl.Subject, data)
	if err != nil {
		return err
	}

	body, err := renderTemplate(templateName+":body", tpl.Body, data)
	if err != nil {
		return err
	}

	if err := d.mailer.Send(ctx, user.Email, subject, body); err != nil {
		return err
	}

	record := &SentEmail{
		Name:        templateName,
		Text:        body,
		RecipientID: user.ID,
	}

	if _, err := d.repo.SentEmails().Append(ctx, record); err != nil {
		d.logger.Error("Failed to record sent email", "template", templateName, "error", err)
		return errors.Wrap(err, errors.CategoryInternal, "failed to record sent email")
	}

	d.logger.Info("Dispatched email", "template", templateName, "recipient", user.Email)

	return nil
}

// SendWelcomeEmail delivers the reserved welcome template, passing the
// cleartext password through so the message can include it.
func (d *NotificationDispatcher) SendWelcomeEmail(ctx context.Context, user *User, password string) error {
	return d.Send(ctx, WelcomeEmailName, user, map[string]any{
		"password": password,
	})
}

func renderTemplate(name, text string, data map[string]any) (string, error) {
	tpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryValidation, "invalid email template").
			WithMetadata(map[string]any{"template": name})
	}

	var b strings.Builder
	if err := tpl.Execute(&b, data); err != nil {
		return "", errors.Wrap(err, errors.CategoryValidation, "failed to render email template").
			WithMetadata(map[string]any{"template": name})
	}

	return b.String(), nil
}
