package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	c := &Config{
		Mode:           "backend",
		CredentialFile: "./.schooldesk/credentials",
	}
	c.Backend.URL = "http://localhost:8000/api"
	c.Backend.Timeout = 10 * time.Second
	c.Local.File = "./.schooldesk/accounts.db"
	c.Local.Migrations = "./migrations"
	c.Local.Secret = []byte("secret")
	c.Local.Exp = 24 * time.Hour
	return c
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("unknown mode", func(t *testing.T) {
		c := validConfig()
		c.Mode = "offline"

		err := c.Validate()

		require.Error(t, err)
		assert.Contains(t, FormatValidationErrors(err), "mode")
	})

	t.Run("bad backend url", func(t *testing.T) {
		c := validConfig()
		c.Backend.URL = "not a url"

		require.Error(t, c.Validate())
	})

	t.Run("missing credential file", func(t *testing.T) {
		c := validConfig()
		c.CredentialFile = ""

		err := c.Validate()

		require.Error(t, err)
		assert.Contains(t, FormatValidationErrors(err), "required")
	})
}

func TestBase64Encoded(t *testing.T) {
	var b Base64Encoded

	require.NoError(t, b.UnmarshalText([]byte("c2VjcmV0")))
	assert.Equal(t, []byte("secret"), []byte(b))

	require.Error(t, b.UnmarshalText([]byte("%%%")))
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "backend", config.Mode)
	assert.Equal(t, "http://localhost:8000/api", config.Backend.URL)
	assert.Equal(t, 10*time.Second, config.Backend.Timeout)
	assert.NotEmpty(t, config.Local.Secret)
	require.NoError(t, config.Validate())
}
