package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default configuration", func(t *testing.T) {
		cfg, err := Load()

		require.NoError(t, err)
		assert.NotNil(t, cfg)

		// Check server defaults
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 8000, cfg.Server.Port)
		assert.Equal(t, "release", cfg.Server.Mode)
		assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)

		// Check log defaults
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Empty(t, cfg.Log.File.Path)
		assert.Equal(t, 100, cfg.Log.File.MaxSizeMB)

		// Check model defaults
		assert.Equal(t, DefaultModelName, cfg.Model.Name)
		assert.Equal(t, BackendHuggingFace, cfg.Model.Backend)
		assert.Equal(t, "https://huggingface.co", cfg.Model.HubURL)
		assert.Equal(t, "https://api-inference.huggingface.co", cfg.Model.InferenceURL)
		assert.Equal(t, "Grab to airport", cfg.Model.WarmupText)
		assert.Equal(t, 30*time.Second, cfg.Model.Timeout)

		assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
		assert.False(t, cfg.Security.SSLRedirect)
	})

	t.Run("reads from environment variables", func(t *testing.T) {
		t.Setenv("CLASSIFIER_SERVER_PORT", "9090")
		t.Setenv("CLASSIFIER_MODEL_BACKEND", "keyword")
		t.Setenv("CLASSIFIER_MODEL_TIMEOUT", "5s")
		t.Setenv("CLASSIFIER_LOG_LEVEL", "debug")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, BackendKeyword, cfg.Model.Backend)
		assert.Equal(t, 5*time.Second, cfg.Model.Timeout)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("reads from config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "classifier.yaml")
		content := []byte("model:\n  backend: remote\n  endpoint: http://sidecar:8000\nlog:\n  format: console\n")
		require.NoError(t, os.WriteFile(path, content, 0o600))
		t.Setenv("CLASSIFIER_CONFIG_FILE", path)

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, BackendRemote, cfg.Model.Backend)
		assert.Equal(t, "http://sidecar:8000", cfg.Model.Endpoint)
		assert.Equal(t, "console", cfg.Log.Format)
	})

	t.Run("rejects unknown backend", func(t *testing.T) {
		t.Setenv("CLASSIFIER_MODEL_BACKEND", "onnx")

		cfg, err := Load()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid config")
	})

	t.Run("rejects invalid port", func(t *testing.T) {
		t.Setenv("CLASSIFIER_SERVER_PORT", "70000")

		_, err := Load()

		assert.Error(t, err)
	})

	t.Run("rejects missing explicit config file", func(t *testing.T) {
		t.Setenv("CLASSIFIER_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

		_, err := Load()

		assert.Error(t, err)
	})
}
