package membership

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// ResetPasswordMessage asks for a user's password to be replaced with a
// freshly generated one. The new password reaches the user through the
// welcome email, it is never echoed back to the caller.
type ResetPasswordMessage struct {
	Identifier string `json:"identifier"`

	OnResponse func(*ResetPasswordResponse)
}

func (e ResetPasswordMessage) Type() string { return "user.reset_password" }

// PasswordWasReset is the stage reached when the hash was replaced but
// the notification did not go out.
const PasswordWasReset = "reset"

type ResetPasswordResponse struct {
	User  *User  `json:"user"`
	Stage string `json:"stage"`
}

type ResetPasswordHandler struct {
	repo       RepositoryManager
	dispatcher *NotificationDispatcher
	logger     Logger
}

func NewResetPasswordHandler(repo RepositoryManager, dispatcher *NotificationDispatcher, logger Logger) *ResetPasswordHandler {
	if logger == nil {
		logger = defLogger{}
	}
	return &ResetPasswordHandler{
		repo:       repo,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (h *ResetPasswordHandler) Execute(ctx context.Context, event ResetPasswordMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ResetPasswordHandler) execute(ctx context.Context, event ResetPasswordMessage) error {
	password, err := GeneratePassword(DefaultPasswordLength)
	if err != nil {
		return err
	}

	var user *User

	txCtx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err = h.repo.RunInTx(txCtx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err = h.repo.Users().GetByIdentifierTx(ctx, tx, event.Identifier)
		if err != nil {
			return err
		}

		hash, err := HashPassword(password)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		if err := h.repo.Users().ResetPasswordTx(ctx, tx, user.ID, hash); err != nil {
			return err
		}

		user.PasswordHash = hash
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "password reset transaction failed")
	}

	response := &ResetPasswordResponse{
		User:  user,
		Stage: PasswordWasReset,
	}

	if h.dispatcher != nil {
		if err := h.dispatcher.SendWelcomeEmail(ctx, user, password); err != nil {
			h.logger.Error("Welcome email failed after password reset", "user", user.Username, "error", err)
		} else {
			response.Stage = UserNotified
		}
	}

	if event.OnResponse != nil {
		event.OnResponse(response)
	}

	return nil
}
