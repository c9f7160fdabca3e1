package authapi

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
)

// DefaultAuthScheme is the marker stripped from Authorization header values.
const DefaultAuthScheme = "Bearer"

// LoginResult is the success payload of a login: the signed token plus the
// user snapshot that was embedded in it.
type LoginResult struct {
	Token string   `json:"token"`
	User  UserData `json:"user"`
}

// Auther orchestrates login and identity lookup over a UserDirectory and a
// TokenService. It holds no per request state; the signing key is loaded
// once and treated as immutable.
type Auther struct {
	directory    UserDirectory
	signingKey   []byte
	issuer       string
	authScheme   string
	logger       Logger
	tokenService *TokenService
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(directory UserDirectory, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetIssuer(),
		opts.GetTokenExpiration(),
		defLogger{},
	)

	authScheme := opts.GetAuthScheme()
	if authScheme == "" {
		authScheme = DefaultAuthScheme
	}

	return &Auther{
		directory:    directory,
		signingKey:   []byte(opts.GetSigningKey()),
		issuer:       opts.GetIssuer(),
		authScheme:   authScheme,
		logger:       defLogger{},
		tokenService: tokenService,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	s.tokenService = NewTokenService(
		s.signingKey,
		s.issuer,
		s.tokenService.tokenExpiration,
		logger,
	)
	return s
}

// WithTokenService swaps the token service, mostly useful to control clocks
// or TTLs in tests.
func (s *Auther) WithTokenService(ts *TokenService) *Auther {
	s.tokenService = ts
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() *TokenService {
	return s.tokenService
}

// Login verifies credentials and issues a signed token. Credential
// rejections are folded into a single invalid_credentials failure so the
// response never reveals whether the username exists.
func (s *Auther) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	if len(s.signingKey) == 0 {
		s.logger.Error("Login rejected, signing key not configured")
		return nil, ErrMissingSigningKey
	}

	user, err := s.directory.Authenticate(ctx, username, password)
	if err != nil {
		if IsCredentialRejection(err) {
			s.logger.Info("Login rejected", "username", username)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Login directory error", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "credential verification failed")
	}

	token, claims, err := s.tokenService.Generate(user)
	if err != nil {
		s.logger.Error("Login token generation failed", "error", err)
		return nil, err
	}

	return &LoginResult{
		Token: token,
		User:  claims.Data,
	}, nil
}

// CurrentUser resolves an Authorization header to the live directory record
// of the token's subject. The record is re-fetched, not read from the
// token, so profile and role changes apply before the token expires.
func (s *Auther) CurrentUser(ctx context.Context, authorizationHeader string) (*UserData, error) {
	token := s.TokenFromHeader(authorizationHeader)
	if token == "" {
		return nil, ErrInvalidCredentials
	}

	claims, err := s.tokenService.Validate(token)
	if err != nil {
		s.logger.Info("CurrentUser token validation failed", "error", err)
		return nil, err
	}

	user, err := s.directory.FindByID(ctx, claims.Subject())
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) || errors.IsNotFound(err) {
			s.logger.Warn("CurrentUser subject no longer resolvable", "sub", claims.Subject())
			return nil, ErrInvalidUser
		}
		s.logger.Error("CurrentUser directory error", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "identity lookup failed")
	}

	data := UserDataFromUser(user)
	return &data, nil
}

// TokenFromHeader strips the auth scheme marker and surrounding whitespace
// from a raw Authorization header value.
func (s *Auther) TokenFromHeader(header string) string {
	return strings.TrimSpace(strings.Replace(header, s.authScheme, "", 1))
}
