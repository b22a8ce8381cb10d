package membership

import (
	"fmt"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
)

// LoginFailureMessage is shown for every failed form login, whatever the
// actual reason, so the page does not reveal which accounts exist.
const LoginFailureMessage = "Please enter a correct email address and password."

// InvalidCredentialsDetail is the API counterpart of LoginFailureMessage.
const InvalidCredentialsDetail = "Invalid credentials."

func GetRouterSession(c router.Context, key string) (*SessionObject, error) {
	raw := c.Locals(key)
	if raw == nil {
		return nil, ErrUnableToFindSession
	}

	claims, ok := raw.(AuthClaims)
	if claims == nil || !ok {
		return nil, ErrUnableToDecodeSession
	}

	return sessionFromAuthClaims(claims)
}

func RegisterMembershipRoutes[T any](app router.Router[T], opts ...MembershipControllerOption) {

	controller := NewMembershipController(opts...)

	protected := controller.Guard.ProtectedRoute(controller.Config, controller.PageAuthErrorHandler)
	apiGuard := controller.Guard.ProtectedRoute(controller.Config, controller.APIAuthErrorHandler)
	staffGuard := controller.Guard.StaffRoute(controller.Config, controller.PageAuthErrorHandler)

	app.
		Get(controller.Routes.Login,
			controller.LoginShow,
		).
		SetName("sign-in.get")

	app.
		Post(
			controller.Routes.Login,
			controller.LoginPost,
		).
		SetName("sign-in.post")

	app.Post(controller.Routes.Logout, controller.LogOut).SetName("sign-out.post")

	app.Get(controller.Routes.Account, controller.AccountShow, protected).
		SetName("account.get")

	app.Post(controller.Routes.APILogin, controller.APILogin).
		SetName("api.sign-in.post")
	app.Get(controller.Routes.APIAccount, controller.APIAccount, apiGuard).
		SetName("api.account.get")

	app.Get(controller.Routes.AdminNewUser, controller.AdminNewUserShow, staffGuard).
		SetName("admin.users-new.get")
	app.Post(controller.Routes.AdminNewUser, controller.AdminNewUserCreate, staffGuard).
		SetName("admin.users-new.post")

	app.Post(fmt.Sprintf("%s/:id/reset-password", controller.Routes.AdminUsers), controller.AdminResetPassword, staffGuard).
		SetName("admin.users-reset.post")
}

type MembershipControllerRoutes struct {
	Login        string
	Logout       string
	Account      string
	APILogin     string
	APIAccount   string
	AdminUsers   string
	AdminNewUser string
}

type MembershipControllerViews struct {
	Login        string
	Account      string
	AdminNewUser string
}

type MembershipController struct {
	Debug                bool
	Logger               Logger
	Repo                 RepositoryManager
	Routes               *MembershipControllerRoutes
	Views                *MembershipControllerViews
	Auther               HTTPAuthenticator
	Auth                 Authenticator
	Dispatcher           *NotificationDispatcher
	Config               Config
	Guard                Middleware
	ErrorHandler         router.ErrorHandler
	PageAuthErrorHandler router.ErrorHandler
	APIAuthErrorHandler  router.ErrorHandler
}

type MembershipControllerOption func(*MembershipController) *MembershipController

func WithControllerLogger(logger Logger) MembershipControllerOption {
	return func(c *MembershipController) *MembershipController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithRepository(repo RepositoryManager) MembershipControllerOption {
	return func(c *MembershipController) *MembershipController {
		c.Repo = repo
		return c
	}
}

func WithAuther(auther HTTPAuthenticator) MembershipControllerOption {
	return func(c *MembershipController) *MembershipController {
		c.Auther = auther
		return c
	}
}

func WithAuthenticator(auth Authenticator) MembershipControllerOption {
	return func(c *MembershipController) *MembershipController {
		c.Auth = auth
		return c
	}
}

func WithGuard(guard Middleware) MembershipControllerOption {
	return func(c *MembershipController) *MembershipController {
		c.Guard = guard
		return c
	}
}

func WithConfig(cfg Config) MembershipControllerOption {
	return func(c *MembershipController) *MembershipController {
		c.Config = cfg
		return c
	}
}

func WithDispatcher(dispatcher *NotificationDispatcher) MembershipControllerOption {
	return func(c *MembershipController) *MembershipController {
		c.Dispatcher = dispatcher
		return c
	}
}

func WithDebug(debug bool) MembershipControllerOption {
	return func(c *MembershipController) *MembershipController {
		c.Debug = debug
		return c
	}
}

func NewMembershipController(opts ...MembershipControllerOption) *MembershipController {
	c := &MembershipController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		Routes: &MembershipControllerRoutes{
			Login:        "/login",
			Logout:       "/logout",
			Account:      "/account",
			APILogin:     "/api/login",
			APIAccount:   "/api/account",
			AdminUsers:   "/admin/users",
			AdminNewUser: "/admin/users/new",
		},
		Views: &MembershipControllerViews{
			Login:        "login",
			Account:      "account",
			AdminNewUser: "admin_user_new",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in membership controller...")
	}

	if c.Auther == nil {
		panic("Missing HTTPAuthenticator in membership controller...")
	}

	if c.Auth == nil {
		panic("Missing Authenticator in membership controller...")
	}

	if c.Guard == nil {
		panic("Missing route guard in membership controller...")
	}

	if c.Config == nil {
		panic("Missing Config in membership controller...")
	}

	if c.PageAuthErrorHandler == nil {
		c.PageAuthErrorHandler = c.pageAuthError
	}

	if c.APIAuthErrorHandler == nil {
		c.APIAuthErrorHandler = c.apiAuthError
	}

	return c
}

func (a *MembershipController) LoginShow(ctx router.Context) error {
	return ctx.Render(a.Views.Login, MergeTemplateData(ctx, router.ViewContext{
		"errors": nil,
		"record": nil,
		"next":   SanitizeNext(ctx.Query("next", "")),
	}))
}

// LoginRequest payload
type LoginRequest struct {
	Identifier string `form:"identifier" json:"identifier"`
	Password   string `form:"password" json:"password"`
	RememberMe bool   `form:"remember_me" json:"remember_me"`
	Next       string `form:"next" json:"next"`
}

// GetIdentifier returns the identifier
func (r LoginRequest) GetIdentifier() string {
	return r.Identifier
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// GetExtendedSession reports if the session should outlive the default
func (r LoginRequest) GetExtendedSession() bool {
	return r.RememberMe
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Identifier,
			validation.Required,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *MembershipController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)
	errs := map[string]string{}

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("Login parse payload", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.Render(a.Views.Login, router.ViewContext{
			"record":     payload,
			"validation": FormatValidationErrorToMap(err),
			"next":       SanitizeNext(payload.Next),
		})
	}

	if a.Debug {
		a.Logger.Debug("Login attempt", "identifier", payload.Identifier)
	}

	if err := a.Auther.Login(ctx, payload); err != nil {
		errs["authentication"] = LoginFailureMessage
		return ctx.Render(a.Views.Login, router.ViewContext{
			"errors": errs,
			"record": payload,
			"next":   SanitizeNext(payload.Next),
		})
	}

	redirect := SanitizeNext(payload.Next)
	if redirect == "" {
		redirect = a.Auther.GetRedirect(ctx, "/")
	}

	return ctx.Redirect(redirect, router.StatusSeeOther)
}

func (a *MembershipController) LogOut(ctx router.Context) error {
	a.Auther.Logout(ctx)
	return ctx.Redirect(a.Routes.Login, router.StatusSeeOther)
}

func (a *MembershipController) AccountShow(ctx router.Context) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return a.PageAuthErrorHandler(ctx, err)
	}

	return ctx.Render(a.Views.Account, MergeTemplateData(ctx, router.ViewContext{
		"user":     user,
		"username": user.Username,
	}))
}

// APILoginRequest is the JSON login payload. Username carries the
// canonical login identifier, normally the account email.
type APILoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r APILoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *MembershipController) APILogin(ctx router.Context) error {
	payload := new(APILoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("API login parse payload", "error", err)
		return ctx.JSON(router.StatusBadRequest, newDetailResponse("Malformed request body."))
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(fiber.StatusUnprocessableEntity, newDetailResponse(InvalidCredentialsDetail))
	}

	token, err := a.Auth.Login(ctx.Context(), payload.Username, payload.Password)
	if err != nil {
		return ctx.JSON(fiber.StatusUnprocessableEntity, newDetailResponse(InvalidCredentialsDetail))
	}

	return ctx.JSON(router.StatusOK, map[string]string{"token": token})
}

func (a *MembershipController) APIAccount(ctx router.Context) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return a.APIAuthErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{"username": user.Username})
}

// CreateUserPayload is the admin new user form
type CreateUserPayload struct {
	Email            string `form:"email" json:"email"`
	FirstName        string `form:"first_name" json:"first_name"`
	LastName         string `form:"last_name" json:"last_name"`
	Password1        string `form:"password1" json:"password1"`
	Password2        string `form:"password2" json:"password2"`
	GeneratePassword bool   `form:"generate_password" json:"generate_password"`
	SendWelcomeEmail bool   `form:"send_welcome_email" json:"send_welcome_email"`
}

// Validate will validate the payload. Password cross checks live in the
// command handler because they depend on the generate flag.
func (r CreateUserPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.FirstName, validation.Length(0, 150)),
		validation.Field(&r.LastName, validation.Length(0, 150)),
	)
}

func (a *MembershipController) AdminNewUserShow(ctx router.Context) error {
	return ctx.Render(a.Views.AdminNewUser, MergeTemplateData(ctx, router.ViewContext{
		"errors": map[string]string{},
		"record": CreateUserPayload{
			GeneratePassword: true,
			SendWelcomeEmail: true,
		},
	}))
}

func (a *MembershipController) AdminNewUserCreate(ctx router.Context) error {
	payload := new(CreateUserPayload)

	if err := ctx.Bind(payload); err != nil {
		errs := map[string]string{}
		errs["form"] = "Failed to parse form"
		a.Logger.Error("Create user parse payload", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.AdminNewUser, router.ViewContext{
			"errors": errs,
			"record": payload,
		})
	}

	if err := payload.Validate(); err != nil {
		errs := FormatValidationErrorToMap(err)
		a.Logger.Error("Create user validate payload", "error", err)

		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error validating payload",
		}).Render(a.Views.AdminNewUser, router.ViewContext{
			"record":     payload,
			"validation": errs,
		})
	}

	var res *CreateUserResponse

	req := CreateUserMessage{
		Email:            payload.Email,
		FirstName:        payload.FirstName,
		LastName:         payload.LastName,
		Password1:        payload.Password1,
		Password2:        payload.Password2,
		GeneratePassword: payload.GeneratePassword,
		SendWelcomeEmail: payload.SendWelcomeEmail,
		OnResponse: func(resp *CreateUserResponse) {
			res = resp
		},
	}

	createUser := NewCreateUserHandler(a.Repo, a.Dispatcher, a.Logger)
	if err := createUser.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("Create user error", "error", err)

		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error creating user",
		}).Render(a.Views.AdminNewUser, router.ViewContext{
			"record": payload,
			"errors": []string{err.Error()},
		})
	}

	if a.Debug {
		a.Logger.Debug("Create user response", "response", print.MaybePrettyJSON(res))
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "User created",
	}).Redirect(a.Routes.AdminUsers, fiber.StatusSeeOther)
}

func (a *MembershipController) AdminResetPassword(ctx router.Context) error {
	identifier := ctx.Param("id", "")

	req := ResetPasswordMessage{
		Identifier: identifier,
	}

	resetPassword := NewResetPasswordHandler(a.Repo, a.Dispatcher, a.Logger)
	if err := resetPassword.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("Reset password error", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error resetting password",
		}).Redirect(a.Routes.AdminUsers, fiber.StatusSeeOther)
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Password reset, the user has been emailed",
	}).Redirect(a.Routes.AdminUsers, fiber.StatusSeeOther)
}

// currentUser resolves the request's validated claims to a stored user. A
// valid token is not enough on its own, the account behind it must still
// be active.
func (a *MembershipController) currentUser(ctx router.Context) (*User, error) {
	claims, ok := GetRouterClaims(ctx, a.Config.GetContextKey())
	if !ok {
		return nil, ErrUnableToFindSession
	}

	user, err := a.Repo.Users().GetActiveByIdentifier(ctx.Context(), claims.UserID())
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (a *MembershipController) pageAuthError(ctx router.Context, err error) error {
	a.Logger.Info("Page auth error, redirecting to login", "error", err, "path", ctx.OriginalURL())

	target := a.Routes.Login
	if next := SanitizeNext(ctx.OriginalURL()); next != "" {
		target += "?next=" + url.QueryEscape(next)
	}

	statusCode := router.StatusSeeOther
	if ctx.Method() == string(router.GET) {
		statusCode = fiber.StatusFound
	}

	return ctx.Redirect(target, statusCode)
}

func (a *MembershipController) apiAuthError(ctx router.Context, err error) error {
	return ctx.JSON(router.StatusUnauthorized, newDetailResponse("Authentication credentials were not provided or are invalid."))
}

type detailMessage struct {
	Msg string `json:"msg"`
}

type detailResponse struct {
	Detail []detailMessage `json:"detail"`
}

func newDetailResponse(msgs ...string) detailResponse {
	out := detailResponse{Detail: make([]detailMessage, 0, len(msgs))}
	for _, msg := range msgs {
		out.Detail = append(out.Detail, detailMessage{Msg: msg})
	}
	return out
}

// FormatValidationErrorToMap flattens ozzo field errors into a template
// friendly map.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	if verrs, ok := err.(validation.Errors); ok {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}

	out["error"] = err.Error()
	return out
}

func defaultErrHandler(c router.Context, err error) error {
	return c.Render("errors/500", router.ViewContext{
		"message": err.Error(),
	})
}
