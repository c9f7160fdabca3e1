package authapi

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserData is the user payload embedded in tokens and returned by the API.
// Field names match the wire format: username, email, name, roles.
type UserData struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Roles    []string `json:"roles"`
}

// Claims is the structured token payload. Registered claims carry issuer,
// issuance, expiry, and subject; Data carries the user snapshot taken at
// login time. Claims are immutable once signed.
type Claims struct {
	jwt.RegisteredClaims
	Data UserData `json:"data"`

	// issuerPresent records whether the decoded payload carried an iss key
	// at all. RegisteredClaims cannot tell "iss":"" apart from no iss, and
	// only an entirely absent claim escapes the issuer check.
	issuerPresent bool
}

// UnmarshalJSON decodes the claim set and records iss key presence.
func (c *Claims) UnmarshalJSON(b []byte) error {
	type plain Claims
	if err := json.Unmarshal(b, (*plain)(c)); err != nil {
		return err
	}

	keys := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &keys); err != nil {
		return err
	}
	_, c.issuerPresent = keys["iss"]

	return nil
}

// Subject returns the subject claim, the stable user identifier.
func (c *Claims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Issuer returns the issuer claim.
func (c *Claims) Issuer() string {
	return c.RegisteredClaims.Issuer
}

// Expires returns the expiration time, zero when the claim is absent.
func (c *Claims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time, zero when the claim is absent.
func (c *Claims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// HasRole checks the embedded user snapshot for a role.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Data.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// UserDataFromUser builds the wire payload from a directory record.
func UserDataFromUser(user *User) UserData {
	if user == nil {
		return UserData{}
	}
	return UserData{
		Username: user.Username,
		Email:    user.Email,
		Name:     user.DisplayName,
		Roles:    append([]string(nil), user.Roles...),
	}
}
