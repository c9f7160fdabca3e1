package authapi

import (
	"github.com/goliatone/go-errors"
)

// ErrMissingSigningKey is returned when the signing secret has not been
// provisioned. This is a server misconfiguration, not a client error.
var ErrMissingSigningKey = errors.New("required signing key not configured", errors.CategoryInternal).
	WithTextCode("missing_key").
	WithCode(errors.CodeInternal)

// ErrMissingCredentials is returned when username or password is empty
// after trimming.
var ErrMissingCredentials = errors.New("username or password is missing", errors.CategoryBadInput).
	WithTextCode("missing_data").
	WithCode(errors.CodeBadRequest)

// ErrInvalidCredentials is the single rejection for any credential failure.
// Unknown user and wrong password are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid username or password", errors.CategoryAuth).
	WithTextCode("invalid_credentials").
	WithCode(errors.CodeUnauthorized)

// ErrTokenInvalid covers malformed tokens, tampered payloads, and signature
// mismatches.
var ErrTokenInvalid = errors.New("invalid token provided", errors.CategoryAuth).
	WithTextCode("jwt_invalid").
	WithCode(errors.CodeForbidden)

// ErrInvalidIssuer is returned when a token carries an issuer claim that
// does not match the verifying service. It shares the jwt_invalid wire code
// with ErrTokenInvalid so callers cannot probe for issuer details.
var ErrInvalidIssuer = errors.New("invalid token issuer", errors.CategoryAuth).
	WithTextCode("jwt_invalid").
	WithCode(errors.CodeForbidden)

// ErrTokenExpired is returned when the expiry claim is at or before the
// verification clock reading.
var ErrTokenExpired = errors.New("token has expired", errors.CategoryAuth).
	WithTextCode("jwt_expired").
	WithCode(errors.CodeUnauthorized)

// ErrInvalidUser is returned when a token validates but its subject no
// longer resolves in the user directory.
var ErrInvalidUser = errors.New("invalid user ID", errors.CategoryBadInput).
	WithTextCode("user_error").
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the directory level rejection for a
// password that does not match the stored hash.
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithTextCode("invalid_credentials").
	WithCode(errors.CodeUnauthorized)

// ErrTooManyLoginAttempts is returned when an account is cooling down after
// repeated failures. Externally it folds into invalid_credentials.
var ErrTooManyLoginAttempts = errors.New("too many login attempts", errors.CategoryAuth).
	WithTextCode("invalid_credentials").
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode("user_error").
	WithCode(errors.CodeNotFound)

// ErrNoEmptyString rejects empty input where a value is required.
var ErrNoEmptyString = errors.New("value must not be an empty string", errors.CategoryValidation).
	WithTextCode("missing_data").
	WithCode(errors.CodeBadRequest)

// IsCredentialRejection reports whether err is one of the directory level
// failures that must surface as invalid_credentials.
func IsCredentialRejection(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrMismatchedHashAndPassword) ||
		errors.Is(err, ErrTooManyLoginAttempts) ||
		errors.Is(err, ErrIdentityNotFound) ||
		errors.IsNotFound(err)
}
