package membership

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// WelcomeEmailName is the reserved template name used for the message sent
// to freshly created accounts.
const WelcomeEmailName = "welcome-email"

// User is the membership identity record. Email is the canonical login
// identifier; username is derived from it by the allocator and is never
// set directly by callers.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string    `bun:"email,notnull,unique" json:"email,omitempty"`
	Username      string    `bun:"username,notnull,unique" json:"username,omitempty"`
	FirstName     string    `bun:"first_name" json:"first_name,omitempty"`
	LastName      string    `bun:"last_name" json:"last_name,omitempty"`
	PasswordHash  string    `bun:"password_hash" json:"-"`
	IsStaff       bool      `bun:"is_staff" json:"is_staff,omitempty"`
	IsActive      bool      `bun:"is_active" json:"is_active,omitempty"`
	IsSuperuser   bool      `bun:"is_superuser" json:"is_superuser,omitempty"`
	DateJoined    time.Time `bun:"date_joined,nullzero" json:"date_joined,omitempty"`
}

// FullName returns first and last name joined with a space.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// ShortName returns the short display name for the user.
func (u *User) ShortName() string {
	return u.FirstName
}

// NormalizeEmail lower-cases the domain portion of an email address. The
// local part is left untouched, it is case sensitive per RFC 5321.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// EmailTemplate is a named, admin-managed message template. Subject and
// Body may reference the recipient as {{.user.X}} and any keyword context
// supplied at send time, e.g. {{.password}}.
type EmailTemplate struct {
	bun.BaseModel `bun:"table:email_templates,alias:tpl"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string    `bun:"name,notnull,unique" json:"name,omitempty"`
	Subject       string    `bun:"subject,notnull" json:"subject,omitempty"`
	Body          string    `bun:"body,notnull" json:"body,omitempty"`
}

// SentEmail is the append-only audit record written once per dispatched
// message. Rows are never updated or deleted.
type SentEmail struct {
	bun.BaseModel `bun:"table:sent_emails,alias:sem"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string    `bun:"name,notnull" json:"name,omitempty"`
	Text          string    `bun:"text,notnull" json:"text,omitempty"`
	RecipientID   uuid.UUID `bun:"recipient_id,notnull,type:uuid" json:"recipient_id,omitempty"`
	Recipient     *User     `bun:"rel:belongs-to,join:recipient_id=id" json:"recipient,omitempty"`
	SentAt        time.Time `bun:"sent_at,nullzero,default:current_timestamp" json:"sent_at,omitempty"`
}
