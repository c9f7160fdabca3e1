package authapi_test

import (
	"testing"
	"time"

	authapi "github.com/goliatone/go-auth-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholdPeriod(t *testing.T) {
	recent := time.Now().Add(-1 * time.Hour)
	stale := time.Now().Add(-48 * time.Hour)

	within, err := authapi.IsWithinThresholdPeriod(recent, "24h")
	require.NoError(t, err)
	assert.True(t, within)

	within, err = authapi.IsWithinThresholdPeriod(stale, "24h")
	require.NoError(t, err)
	assert.False(t, within)

	outside, err := authapi.IsOutsideThresholdPeriod(stale, "24h")
	require.NoError(t, err)
	assert.True(t, outside)

	outside, err = authapi.IsOutsideThresholdPeriod(recent, "24h")
	require.NoError(t, err)
	assert.False(t, outside)

	t.Run("bad duration pattern", func(t *testing.T) {
		_, err := authapi.IsWithinThresholdPeriod(recent, "one day")
		assert.Error(t, err)

		_, err = authapi.IsOutsideThresholdPeriod(recent, "one day")
		assert.Error(t, err)
	})
}
