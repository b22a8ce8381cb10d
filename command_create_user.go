package membership

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Stages a create user command can reach.
const (
	UserCreated  = "created"
	UserNotified = "notified"
)

// CreateUserMessage carries the admin supplied fields for a new account.
// When GeneratePassword is set the password fields are ignored and a
// random password is produced instead.
type CreateUserMessage struct {
	Email            string `json:"email"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Password1        string `json:"password1"`
	Password2        string `json:"password2"`
	GeneratePassword bool   `json:"generate_password"`
	SendWelcomeEmail bool   `json:"send_welcome_email"`

	OnResponse func(*CreateUserResponse)
}

func (e CreateUserMessage) Type() string { return "user.create" }

// CreateUserResponse reports the created user and how far the command
// got. Stage is UserNotified only when the welcome email went out.
type CreateUserResponse struct {
	User     *User  `json:"user"`
	Password string `json:"-"`
	Stage    string `json:"stage"`
}

type CreateUserHandler struct {
	repo       RepositoryManager
	dispatcher *NotificationDispatcher
	logger     Logger
}

func NewCreateUserHandler(repo RepositoryManager, dispatcher *NotificationDispatcher, logger Logger) *CreateUserHandler {
	if logger == nil {
		logger = defLogger{}
	}
	return &CreateUserHandler{
		repo:       repo,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (h *CreateUserHandler) Execute(ctx context.Context, event CreateUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user creation",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *CreateUserHandler) execute(ctx context.Context, event CreateUserMessage) error {
	password, err := h.resolvePassword(event)
	if err != nil {
		return err
	}

	user := &User{
		Email:     event.Email,
		FirstName: event.FirstName,
		LastName:  event.LastName,
		IsActive:  true,
	}

	hash, err := HashPassword(password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user.PasswordHash = hash

	// Each allocation attempt is its own atomic insert. Wrapping the loop
	// in a transaction would abort it on the first unique violation.
	createCtx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if user, err = h.repo.Users().CreateWithUsername(createCtx, user); err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "user creation failed")
	}

	response := &CreateUserResponse{
		User:     user,
		Password: password,
		Stage:    UserCreated,
	}

	// delivery failures do not undo the account, the admin can resend
	if event.SendWelcomeEmail && h.dispatcher != nil {
		if err := h.dispatcher.SendWelcomeEmail(ctx, user, password); err != nil {
			h.logger.Error("Welcome email failed after user creation", "user", user.Username, "error", err)
		} else {
			response.Stage = UserNotified
		}
	}

	if event.OnResponse != nil {
		event.OnResponse(response)
	}

	return nil
}

// resolvePassword either generates a random password or cross checks the
// two supplied fields against each other and the policy.
func (h *CreateUserHandler) resolvePassword(event CreateUserMessage) (string, error) {
	if event.GeneratePassword {
		return GeneratePassword(DefaultPasswordLength)
	}

	if event.Password1 == "" {
		return "", goerrors.New("password is required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	if event.Password1 != event.Password2 {
		return "", goerrors.New("the two password fields didn't match", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	candidate := &User{
		Email:     event.Email,
		Username:  localPart(event.Email),
		FirstName: event.FirstName,
		LastName:  event.LastName,
	}

	if err := ValidatePassword(event.Password1, candidate); err != nil {
		return "", err
	}

	return event.Password1, nil
}
