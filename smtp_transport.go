package membership

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strings"

	"github.com/goliatone/go-errors"
)

// Mailer delivers a single rendered message to a recipient address.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPClient is the slice of *smtp.Client we use, kept as an interface so
// tests can run without a live server.
type SMTPClient interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// SMTPTransport dials the configured relay, upgrades with STARTTLS, and
// authenticates with PLAIN auth.
type SMTPTransport struct {
	host     string
	port     string
	username string
	password string
	from     string
	logger   Logger

	// connect is swapped out in tests
	connect func() (SMTPClient, error)
}

type SMTPTransportOption func(*SMTPTransport) *SMTPTransport

func WithSMTPLogger(logger Logger) SMTPTransportOption {
	return func(t *SMTPTransport) *SMTPTransport {
		if logger != nil {
			t.logger = logger
		}
		return t
	}
}

func NewSMTPTransport(host, port, username, password, from string, opts ...SMTPTransportOption) *SMTPTransport {
	t := &SMTPTransport{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		logger:   defLogger{},
	}

	t.connect = t.dial

	for _, opt := range opts {
		t = opt(t)
	}

	return t
}

// From returns the envelope sender address.
func (t *SMTPTransport) From() string {
	return t.from
}

func (t *SMTPTransport) dial() (SMTPClient, error) {
	addr := net.JoinHostPort(t.host, t.port)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to dial SMTP server")
	}

	client, err := smtp.NewClient(conn, t.host)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to create SMTP client")
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		client.Close()
		return nil, errors.New("SMTP server does not support STARTTLS", errors.CategoryOperation)
	}

	tlsConfig := &tls.Config{
		ServerName: t.host,
		MinVersion: tls.VersionTLS12,
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		client.Close()
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to start TLS")
	}

	auth := smtp.PlainAuth("", t.username, t.password, t.host)
	if err := client.Auth(auth); err != nil {
		client.Close()
		return nil, errors.Wrap(err, errors.CategoryOperation, "SMTP auth failed")
	}

	return client, nil
}

// Send delivers one message. The body is treated as plain text.
func (t *SMTPTransport) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "context cancelled before SMTP delivery")
	}

	client, err := t.connect()
	if err != nil {
		t.logger.Error("SMTP connect failed", "error", err)
		return err
	}
	defer client.Close()

	if err := client.Mail(t.from); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "SMTP MAIL FROM rejected")
	}

	if err := client.Rcpt(to); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "SMTP RCPT TO rejected").
			WithMetadata(map[string]any{"recipient": to})
	}

	w, err := client.Data()
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "SMTP DATA rejected")
	}

	if _, err := w.Write([]byte(assembleMessage(t.from, to, subject, body))); err != nil {
		w.Close()
		return errors.Wrap(err, errors.CategoryOperation, "failed to write message body")
	}

	if err := w.Close(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to finalize message body")
	}

	return client.Quit()
}

func assembleMessage(from, to, subject, body string) string {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.String()
}

// String keeps the password out of debug output.
func (t *SMTPTransport) String() string {
	return fmt.Sprintf("smtp://%s@%s:%s", t.username, t.host, t.port)
}

var _ Mailer = (*SMTPTransport)(nil)
