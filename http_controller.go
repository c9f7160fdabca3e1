package authapi

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// AuthControllerRoutes are the paths the controller mounts.
type AuthControllerRoutes struct {
	Login string
	Me    string
}

// AuthController exposes the two REST operations: POST login and GET me.
type AuthController struct {
	Logger Logger
	Auther Authenticator
	Routes *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Login: "/login",
			Me:    "/me",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

func WithAuther(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

// RegisterAuthRoutes mounts the controller on a fiber router.
func RegisterAuthRoutes(app fiber.Router, opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Get(controller.Routes.Me, controller.CurrentUser)

	return controller
}

// LoginRequest payload
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

var _ LoginPayload = (*LoginRequest)(nil)

// GetUsername returns the username
func (r LoginRequest) GetUsername() string {
	return r.Username
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// LoginPost handles POST /login. Validation failures never reach the
// directory; the 400/401/500 split mirrors the error taxonomy.
func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Debug("LoginPost unable to parse body", "error", err)
		return a.renderError(c, ErrMissingCredentials)
	}

	payload.Username = strings.TrimSpace(payload.Username)
	payload.Password = strings.TrimSpace(payload.Password)

	if err := payload.Validate(); err != nil {
		return a.renderError(c, ErrMissingCredentials)
	}

	return a.login(c, payload)
}

// login runs the credential exchange for any LoginPayload shape.
func (a *AuthController) login(c *fiber.Ctx, payload LoginPayload) error {
	result, err := a.Auther.Login(c.Context(), payload.GetUsername(), payload.GetPassword())
	if err != nil {
		a.Logger.Info("LoginPost rejected", "username", payload.GetUsername())
		return a.renderError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// CurrentUser handles GET /me.
func (a *AuthController) CurrentUser(c *fiber.Ctx) error {
	user, err := a.Auther.CurrentUser(c.Context(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return a.renderError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

// renderError resolves a failure at the operation boundary into a response
// status plus machine readable code. Nothing is retried.
func (a *AuthController) renderError(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithTextCode("server_error").
			WithCode(errors.CodeInternal)
	}

	status := richErr.Code
	if status == 0 {
		status = fiber.StatusInternalServerError
	}

	if status >= fiber.StatusInternalServerError {
		a.Logger.Error("request failed",
			"code", richErr.TextCode,
			"category", richErr.Category,
			"error", richErr.Message,
		)
	}

	return c.Status(status).JSON(fiber.Map{
		"code":    richErr.TextCode,
		"message": richErr.Message,
	})
}
