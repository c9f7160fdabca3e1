package authapi_test

import (
	"context"

	authapi "github.com/goliatone/go-auth-api"
	"github.com/stretchr/testify/mock"
)

// MockUserDirectory implements authapi.UserDirectory
type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) Authenticate(ctx context.Context, username, password string) (*authapi.User, error) {
	args := m.Called(ctx, username, password)
	user, _ := args.Get(0).(*authapi.User)
	return user, args.Error(1)
}

func (m *MockUserDirectory) FindByID(ctx context.Context, id string) (*authapi.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*authapi.User)
	return user, args.Error(1)
}

// MockLogger implements authapi.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// TestConfig is a plain authapi.Config implementation for tests.
type TestConfig struct {
	SigningKey      string
	Issuer          string
	TokenExpiration int
	ContextKey      string
	AuthScheme      string
}

func (c TestConfig) GetSigningKey() string   { return c.SigningKey }
func (c TestConfig) GetIssuer() string       { return c.Issuer }
func (c TestConfig) GetTokenExpiration() int { return c.TokenExpiration }
func (c TestConfig) GetContextKey() string   { return c.ContextKey }
func (c TestConfig) GetAuthScheme() string   { return c.AuthScheme }

func newTestConfig() TestConfig {
	return TestConfig{
		SigningKey:      "test-signing-key",
		Issuer:          "https://example.test",
		TokenExpiration: 3600,
		ContextKey:      "user",
		AuthScheme:      "Bearer",
	}
}
