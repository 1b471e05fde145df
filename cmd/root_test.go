package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "migrate"} {
		c, _, err := RootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, c.Name())
	}
}

func TestPortFlagOverridesConfig(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORE_FAILURE_POLICY", "")
	t.Setenv("LOG_FORMAT", "")
	t.Cleanup(func() { port = "" })

	require.NoError(t, RootCmd.PersistentFlags().Set("port", "9100"))

	cfg := mustLoadConfig()
	assert.Equal(t, "9100", cfg.Port)
}
