package authapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// DefaultContextKey is where Protected stores validated claims in the
// request locals.
const DefaultContextKey = "user"

// ProtectedConfig tunes the route protection middleware.
type ProtectedConfig struct {
	Validator    TokenValidator
	ContextKey   string
	AuthScheme   string
	ErrorHandler fiber.ErrorHandler
}

// Protected returns a middleware that validates the request's bearer token
// and stores the decoded claims in ctx.Locals under ContextKey. Handlers
// behind it can assume a verified, unexpired token from the right issuer.
func Protected(cfg ProtectedConfig) fiber.Handler {
	if cfg.Validator == nil {
		panic("Missing TokenValidator in protected middleware...")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = DefaultAuthScheme
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultProtectedErrorHandler
	}

	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(strings.Replace(c.Get(fiber.HeaderAuthorization), cfg.AuthScheme, "", 1))
		if raw == "" {
			return cfg.ErrorHandler(c, ErrInvalidCredentials)
		}

		claims, err := cfg.Validator.Validate(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, claims)

		return c.Next()
	}
}

// ClaimsFromContext retrieves claims stored by Protected.
func ClaimsFromContext(c *fiber.Ctx, key string) (*Claims, bool) {
	if key == "" {
		key = DefaultContextKey
	}

	claims, ok := c.Locals(key).(*Claims)
	if !ok || claims == nil {
		return nil, false
	}

	return claims, true
}

func defaultProtectedErrorHandler(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryAuth, "Invalid authentication token").
			WithTextCode("jwt_invalid").
			WithCode(errors.CodeUnauthorized)
	}

	status := richErr.Code
	if status == 0 {
		status = fiber.StatusUnauthorized
	}

	return c.Status(status).JSON(fiber.Map{
		"code":    richErr.TextCode,
		"message": richErr.Message,
	})
}
