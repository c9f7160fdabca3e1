package authapi_test

import (
	"testing"

	authapi "github.com/goliatone/go-auth-api"
	"github.com/stretchr/testify/assert"
)

func TestUserHasRole(t *testing.T) {
	user := testUser()

	assert.True(t, user.HasRole("editor"))
	assert.True(t, user.HasRole("author"))
	assert.False(t, user.HasRole("administrator"))
	assert.False(t, user.HasRole(""))

	t.Run("no roles", func(t *testing.T) {
		bare := &authapi.User{Username: "bob"}
		assert.False(t, bare.HasRole("subscriber"))
	})
}
