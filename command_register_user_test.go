package authapi_test

import (
	"context"
	"database/sql"
	"testing"

	authapi "github.com/goliatone/go-auth-api"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// stubManager runs transaction bodies against an in-memory stubUsers; the
// zero bun.Tx is never touched by the stub repository.
type stubManager struct {
	users *stubUsers
}

func newStubManager() *stubManager {
	return &stubManager{users: newStubUsers()}
}

func (m *stubManager) Validate() error { return nil }
func (m *stubManager) MustValidate()   {}

func (m *stubManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

func (m *stubManager) Users() authapi.Users { return m.users }

func TestRegisterUserHandler(t *testing.T) {
	t.Run("registers user with hashed password", func(t *testing.T) {
		repo := newStubManager()
		handler := authapi.NewRegisterUserHandler(repo)

		user, err := handler.Execute(context.Background(), authapi.RegisterUserMessage{
			Username:    "alice",
			Email:       "alice@example.com",
			DisplayName: "Alice Liddell",
			Roles:       []string{"editor"},
			Password:    "s3cr3t-passphrase",
		})
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, []string{"editor"}, user.Roles)
		assert.NotEqual(t, "s3cr3t-passphrase", user.PasswordHash)
		assert.NoError(t, authapi.ComparePasswordAndHash("s3cr3t-passphrase", user.PasswordHash))

		stored, err := repo.users.GetByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Same(t, user, stored)
	})

	t.Run("username falls back to email local part", func(t *testing.T) {
		repo := newStubManager()
		handler := authapi.NewRegisterUserHandler(repo)

		user, err := handler.Execute(context.Background(), authapi.RegisterUserMessage{
			Email:    "bob@example.com",
			Password: "hunter2hunter2",
		})
		require.NoError(t, err)
		assert.Equal(t, "bob", user.Username)
	})

	t.Run("hashid derives a stable ID from the email", func(t *testing.T) {
		repo := newStubManager()
		handler := authapi.NewRegisterUserHandler(repo)

		user, err := handler.Execute(context.Background(), authapi.RegisterUserMessage{
			Email:     "carol@example.com",
			Password:  "hunter2hunter2",
			UseHashid: true,
		})
		require.NoError(t, err)

		want, err := hashid.NewUUID("carol@example.com")
		require.NoError(t, err)
		assert.Equal(t, want, user.ID)
	})

	t.Run("empty password parks the account behind an unusable hash", func(t *testing.T) {
		repo := newStubManager()
		handler := authapi.NewRegisterUserHandler(repo)

		user, err := handler.Execute(context.Background(), authapi.RegisterUserMessage{
			Email: "dave@example.com",
		})
		require.NoError(t, err)
		require.NotEmpty(t, user.PasswordHash)

		assert.Error(t, authapi.ComparePasswordAndHash("", user.PasswordHash))
	})

	t.Run("cancelled context is refused up front", func(t *testing.T) {
		repo := newStubManager()
		handler := authapi.NewRegisterUserHandler(repo)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := handler.Execute(ctx, authapi.RegisterUserMessage{
			Email:    "erin@example.com",
			Password: "hunter2hunter2",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)

		var richErr *errors.Error
		require.True(t, errors.As(err, &richErr))
		assert.Equal(t, errors.CategoryOperation, richErr.Category)
	})
}
