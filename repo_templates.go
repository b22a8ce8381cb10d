package membership

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// EmailTemplates stores admin-managed message templates. Templates are
// read-only to everything but the admin surface.
type EmailTemplates interface {
	repository.Repository[*EmailTemplate]

	GetByName(ctx context.Context, name string) (*EmailTemplate, error)
	GetByNameTx(ctx context.Context, tx bun.IDB, name string) (*EmailTemplate, error)
	GetWelcomeEmail(ctx context.Context) (*EmailTemplate, error)
}

type emailTemplates struct {
	repository.Repository[*EmailTemplate]
	db *bun.DB
}

var _ EmailTemplates = (*emailTemplates)(nil)

func NewEmailTemplatesRepository(db *bun.DB) EmailTemplates {
	repo := repository.NewRepository[*EmailTemplate](db, repository.ModelHandlers[*EmailTemplate]{
		NewRecord: func() *EmailTemplate { return &EmailTemplate{} },
		GetID: func(t *EmailTemplate) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *EmailTemplate, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})

	return &emailTemplates{
		Repository: repo,
		db:         db,
	}
}

func (r *emailTemplates) Create(ctx context.Context, record *EmailTemplate, criteria ...repository.InsertCriteria) (*EmailTemplate, error) {
	return r.CreateTx(ctx, r.db, record, criteria...)
}

func (r *emailTemplates) CreateTx(ctx context.Context, tx bun.IDB, record *EmailTemplate, criteria ...repository.InsertCriteria) (*EmailTemplate, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (r *emailTemplates) GetByName(ctx context.Context, name string) (*EmailTemplate, error) {
	return r.GetByNameTx(ctx, r.db, name)
}

func (r *emailTemplates) GetByNameTx(ctx context.Context, tx bun.IDB, name string) (*EmailTemplate, error) {
	record := &EmailTemplate{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.name = ?", name).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrTemplateNotFound.WithMetadata(map[string]any{
				"name": name,
			})
		}
		return nil, err
	}

	return record, nil
}

func (r *emailTemplates) GetWelcomeEmail(ctx context.Context) (*EmailTemplate, error) {
	return r.GetByName(ctx, WelcomeEmailName)
}

// SentEmails is the append-only audit log of dispatched messages.
type SentEmails interface {
	repository.Repository[*SentEmail]

	Append(ctx context.Context, record *SentEmail) (*SentEmail, error)
	AppendTx(ctx context.Context, tx bun.IDB, record *SentEmail) (*SentEmail, error)
}

type sentEmails struct {
	repository.Repository[*SentEmail]
	db *bun.DB
}

var _ SentEmails = (*sentEmails)(nil)

func NewSentEmailsRepository(db *bun.DB) SentEmails {
	repo := repository.NewRepository[*SentEmail](db, repository.ModelHandlers[*SentEmail]{
		NewRecord: func() *SentEmail { return &SentEmail{} },
		GetID: func(s *SentEmail) uuid.UUID {
			if s == nil {
				return uuid.Nil
			}
			return s.ID
		},
		SetID: func(s *SentEmail, id uuid.UUID) {
			if s != nil {
				s.ID = id
			}
		},
	})

	return &sentEmails{
		Repository: repo,
		db:         db,
	}
}

func (r *sentEmails) Append(ctx context.Context, record *SentEmail) (*SentEmail, error) {
	return r.AppendTx(ctx, r.db, record)
}

func (r *sentEmails) AppendTx(ctx context.Context, tx bun.IDB, record *SentEmail) (*SentEmail, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.SentAt.IsZero() {
		record.SentAt = time.Now()
	}
	return r.Repository.CreateTx(ctx, tx, record)
}
