package authapi_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	authapi "github.com/goliatone/go-auth-api"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *authapi.User {
	return &authapi.User{
		ID:          uuid.MustParse("c2a7f1e4-81a9-4f5a-9d5e-2f8f8f3d1b11"),
		Username:    "alice",
		Email:       "alice@example.com",
		DisplayName: "Alice Liddell",
		Roles:       []string{"editor", "author"},
	}
}

func newService(key, issuer string) *authapi.TokenService {
	return authapi.NewTokenService([]byte(key), issuer, 3600, nil)
}

func textCode(t *testing.T, err error) string {
	t.Helper()
	var richErr *goerrors.Error
	require.True(t, errors.As(err, &richErr), "expected rich error, got %v", err)
	return richErr.TextCode
}

func TestTokenService_Generate(t *testing.T) {
	service := newService("test-signing-key", "https://example.test")

	t.Run("round trips through validate", func(t *testing.T) {
		user := testUser()

		token, claims, err := service.Generate(user)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		decoded, err := service.Validate(token)
		require.NoError(t, err)

		assert.Equal(t, user.ID.String(), decoded.Subject())
		assert.Equal(t, "https://example.test", decoded.Issuer())
		assert.Equal(t, claims.Data, decoded.Data)
		assert.Equal(t, []string{"editor", "author"}, decoded.Data.Roles)
	})

	t.Run("expiry is issuance plus fixed TTL", func(t *testing.T) {
		_, claims, err := service.Generate(testUser())
		require.NoError(t, err)

		assert.Equal(t, time.Hour, claims.Expires().Sub(claims.IssuedAt()))
	})

	t.Run("nil user is rejected", func(t *testing.T) {
		_, _, err := service.Generate(nil)
		assert.Error(t, err)
	})

	t.Run("empty signing key is a configuration error", func(t *testing.T) {
		unconfigured := newService("", "https://example.test")

		_, _, err := unconfigured.Generate(testUser())
		require.Error(t, err)
		assert.Equal(t, "missing_key", textCode(t, err))
	})
}

func TestTokenService_Validate(t *testing.T) {
	service := newService("test-signing-key", "https://example.test")

	t.Run("tampered token fails with jwt_invalid", func(t *testing.T) {
		token, _, err := service.Generate(testUser())
		require.NoError(t, err)

		for _, pos := range []int{0, len(token) / 2, len(token) - 1} {
			mutated := []byte(token)
			if mutated[pos] == 'A' {
				mutated[pos] = 'B'
			} else {
				mutated[pos] = 'A'
			}

			_, err := service.Validate(string(mutated))
			require.Error(t, err, "flipped char at %d should fail", pos)
			assert.Equal(t, "jwt_invalid", textCode(t, err))
		}
	})

	t.Run("wrong key fails with jwt_invalid", func(t *testing.T) {
		token, _, err := service.Generate(testUser())
		require.NoError(t, err)

		other := newService("a-different-key", "https://example.test")

		_, err = other.Validate(token)
		require.Error(t, err)
		assert.Equal(t, "jwt_invalid", textCode(t, err))
	})

	t.Run("garbage fails with jwt_invalid", func(t *testing.T) {
		_, err := service.Validate("garbage")
		require.Error(t, err)
		assert.Equal(t, "jwt_invalid", textCode(t, err))
	})

	t.Run("unsigned token is rejected", func(t *testing.T) {
		claims := &authapi.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:  "https://example.test",
				Subject: "someone",
			},
		}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.Validate(unsigned)
		require.Error(t, err)
		assert.Equal(t, "jwt_invalid", textCode(t, err))
	})

	t.Run("expired token fails with jwt_expired", func(t *testing.T) {
		now := time.Now()
		claims := &authapi.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "https://example.test",
				Subject:   "someone",
				IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
				ExpiresAt: jwt.NewNumericDate(now.Add(-time.Second)),
			},
		}
		token, err := service.SignClaims(claims)
		require.NoError(t, err)

		_, err = service.Validate(token)
		require.Error(t, err)
		assert.True(t, errors.Is(err, authapi.ErrTokenExpired))
		assert.Equal(t, "jwt_expired", textCode(t, err))
	})

	t.Run("expiry just ahead of the clock still validates", func(t *testing.T) {
		claims := &authapi.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "https://example.test",
				Subject:   "someone",
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(2 * time.Second)),
			},
		}
		token, err := service.SignClaims(claims)
		require.NoError(t, err)

		_, err = service.Validate(token)
		require.NoError(t, err)

		time.Sleep(2100 * time.Millisecond)

		_, err = service.Validate(token)
		assert.True(t, errors.Is(err, authapi.ErrTokenExpired))
	})

	t.Run("issuer mismatch fails regardless of expiry", func(t *testing.T) {
		now := time.Now()

		for name, exp := range map[string]*jwt.NumericDate{
			"unexpired": jwt.NewNumericDate(now.Add(time.Hour)),
			"expired":   jwt.NewNumericDate(now.Add(-time.Hour)),
		} {
			claims := &authapi.Claims{
				RegisteredClaims: jwt.RegisteredClaims{
					Issuer:    "https://evil.test",
					Subject:   "someone",
					ExpiresAt: exp,
				},
			}
			token, err := service.SignClaims(claims)
			require.NoError(t, err)

			_, err = service.Validate(token)
			require.Error(t, err, name)
			assert.True(t, errors.Is(err, authapi.ErrInvalidIssuer), name)
			assert.Equal(t, "jwt_invalid", textCode(t, err), name)
		}
	})

	t.Run("present but empty issuer is still compared", func(t *testing.T) {
		// RegisteredClaims omits an empty iss on marshal, so build the
		// payload from a map to keep the key in the token.
		raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"iss": "",
			"sub": "someone",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		token, err := raw.SignedString([]byte("test-signing-key"))
		require.NoError(t, err)

		_, err = service.Validate(token)
		require.Error(t, err)
		assert.True(t, errors.Is(err, authapi.ErrInvalidIssuer))
		assert.Equal(t, "jwt_invalid", textCode(t, err))
	})

	t.Run("absent issuer and expiry carry no constraint", func(t *testing.T) {
		claims := &authapi.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject: "someone",
			},
			Data: authapi.UserData{Username: "alice"},
		}
		token, err := service.SignClaims(claims)
		require.NoError(t, err)

		decoded, err := service.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "someone", decoded.Subject())
		assert.True(t, decoded.Expires().IsZero())
	})

	t.Run("validate with empty key fails closed", func(t *testing.T) {
		token, _, err := service.Generate(testUser())
		require.NoError(t, err)

		unconfigured := newService("", "https://example.test")

		_, err = unconfigured.Validate(token)
		require.Error(t, err)
		assert.Equal(t, "jwt_invalid", textCode(t, err))
	})
}
