package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "reports", cfg.Storage.Bucket)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, 4, cfg.Worker.Size)
		assert.False(t, cfg.Scheduler.Enabled)
		assert.Equal(t, "@every 5m", cfg.Scheduler.Spec)
	})

	t.Run("Environment overrides", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("WORKER_SIZE", "8")
		t.Setenv("SCHEDULER_ENABLED", "true")

		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, 8, cfg.Worker.Size)
		assert.True(t, cfg.Scheduler.Enabled)
	})

	t.Run("Dotenv file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_NAME=cache-test.db\nLOG_FORMAT=console\n"), 0o600))
		t.Cleanup(func() {
			os.Unsetenv("DATABASE_NAME")
			os.Unsetenv("LOG_FORMAT")
		})

		cfg, err := LoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "cache-test.db", cfg.Database.Name)
		assert.Equal(t, "console", cfg.Log.Format)
	})
}
