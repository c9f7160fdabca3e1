package authapi

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// DefaultTokenExpiration is the fixed token TTL in seconds.
const DefaultTokenExpiration = 3600

// TokenService signs and verifies compact tokens with a single symmetric
// algorithm (HS256). It is the only component that touches the signing key;
// everything here is a pure function of its inputs plus the wall clock.
type TokenService struct {
	signingKey      []byte
	issuer          string
	tokenExpiration int
	logger          Logger
}

// NewTokenService creates a new TokenService instance. tokenExpiration is in
// seconds; zero or negative falls back to DefaultTokenExpiration.
func NewTokenService(signingKey []byte, issuer string, tokenExpiration int, logger Logger) *TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	if tokenExpiration <= 0 {
		tokenExpiration = DefaultTokenExpiration
	}
	return &TokenService{
		signingKey:      signingKey,
		issuer:          issuer,
		tokenExpiration: tokenExpiration,
		logger:          logger,
	}
}

// Generate builds a fresh claim set for a user and signs it. Each call
// produces exactly one Claims value: iss is the configured issuer, iat is
// now, exp is now plus the fixed TTL, sub is the user's stable identifier.
func (ts *TokenService) Generate(user *User) (string, *Claims, error) {
	if user == nil {
		return "", nil, errors.New("user must not be nil", errors.CategoryInternal)
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ts.tokenExpiration) * time.Second)),
		},
		Data: UserDataFromUser(user),
	}

	token, err := ts.SignClaims(claims)
	if err != nil {
		return "", nil, err
	}

	return token, claims, nil
}

// SignClaims signs an arbitrary claim set using the configured signing key.
func (ts *TokenService) SignClaims(claims *Claims) (string, error) {
	if len(ts.signingKey) == 0 {
		return "", ErrMissingSigningKey
	}
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and verifies a caller supplied token string, failing fast
// at the first problem: structure/signature, then issuer, then expiry.
//
// Issuer and expiry checks apply only when the respective claim is present;
// a token that omits them carries no constraint. Expiry has no leeway
// window and must be strictly in the future.
func (ts *TokenService) Validate(tokenString string) (*Claims, error) {
	if len(ts.signingKey) == 0 {
		return nil, ErrTokenInvalid
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			// Signature already checked; expiry is the only remaining
			// failure, but issuer mismatch outranks it.
			if claims := expiredClaims(token); claims != nil && ts.issuerMismatch(claims) {
				return nil, ErrInvalidIssuer
			}
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenInvalid.Category, ErrTokenInvalid.Message).
			WithTextCode(ErrTokenInvalid.TextCode).
			WithCode(ErrTokenInvalid.Code)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService validate could not decode claims")
		return nil, ErrTokenInvalid
	}

	if ts.issuerMismatch(claims) {
		return nil, ErrInvalidIssuer
	}

	return claims, nil
}

// issuerMismatch applies the permissive-by-omission policy: an absent issuer
// claim is no constraint, a present one must match exactly. Presence, not
// emptiness, is what matters: "iss":"" is a present claim and compares like
// any other value.
func (ts *TokenService) issuerMismatch(claims *Claims) bool {
	return claims.issuerPresent && claims.RegisteredClaims.Issuer != ts.issuer
}

// expiredClaims recovers the parsed claims from a token that failed only
// time based validation. jwt.ParseWithClaims still populates them.
func expiredClaims(token *jwt.Token) *Claims {
	if token == nil {
		return nil
	}
	claims, _ := token.Claims.(*Claims)
	return claims
}
