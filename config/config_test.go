package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		path := writeConfigFile(t, `
database:
  dsn: "host=localhost dbname=pushtest"
push:
  vapid_public_key: pub
  vapid_private_key: priv
  subject: mailto:ops@example.com
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 3000, cfg.Server.Port)
		assert.Equal(t, 3600, cfg.Push.TTL)
		assert.Equal(t, 5*time.Second, cfg.Push.DeliveryTimeout())
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing file is fine when env provides the values", func(t *testing.T) {
		t.Setenv("PUSH_VAPID_PUBLIC_KEY", "env-pub")
		t.Setenv("PUSH_VAPID_PRIVATE_KEY", "env-priv")
		t.Setenv("PUSH_VAPID_SUBJECT", "mailto:env@example.com")
		t.Setenv("DATABASE_DSN", "host=env dbname=pushtest")

		cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "env-pub", cfg.Push.PublicKey)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		path := writeConfigFile(t, `
server:
  port: 8080
push:
  vapid_public_key: file-pub
  vapid_private_key: file-priv
  subject: mailto:file@example.com
database:
  dsn: "host=file dbname=pushtest"
`)
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("PUSH_VAPID_PUBLIC_KEY", "env-pub")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "env-pub", cfg.Push.PublicKey)
		assert.Equal(t, "file-priv", cfg.Push.PrivateKey)
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Database: DatabaseConfig{DSN: "host=localhost"},
			Push: PushConfig{
				PublicKey:  "pub",
				PrivateKey: "priv",
				Subject:    "mailto:ops@example.com",
			},
		}
	}

	t.Run("complete config passes", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("missing VAPID keys", func(t *testing.T) {
		cfg := base()
		cfg.Push.PrivateKey = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing subject", func(t *testing.T) {
		cfg := base()
		cfg.Push.Subject = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing DSN", func(t *testing.T) {
		cfg := base()
		cfg.Database.DSN = ""
		assert.Error(t, cfg.Validate())
	})
}
