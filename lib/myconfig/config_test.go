package myconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
		assert.Equal(t, 2*time.Second, cfg.ConfirmationDelay)
		assert.True(t, cfg.IsDevelopment())
	})

	t.Run("Environment overrides", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("CONFIRMATION_DELAY", "500ms")
		t.Setenv("ENVIRONMENT", "production")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, "http://localhost:9090", cfg.BaseURL)
		assert.Equal(t, 500*time.Millisecond, cfg.ConfirmationDelay)
		assert.False(t, cfg.IsDevelopment())
	})

	t.Run("From file", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "printshop.yaml")
		err := os.WriteFile(filename, []byte("port: \"7070\"\ncatalog_file: /tmp/products.json\nconfirmation_delay: 3s\n"), 0o600)
		require.NoError(t, err)

		cfg, err := Load(filename)
		require.NoError(t, err)
		assert.Equal(t, "7070", cfg.Port)
		assert.Equal(t, "/tmp/products.json", cfg.CatalogFile)
		assert.Equal(t, 3*time.Second, cfg.ConfirmationDelay)
	})

	t.Run("Base url", func(t *testing.T) {
		t.Setenv("BASE_URL", "https://shop.example.com/")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "https://shop.example.com", cfg.BaseURL)
	})

	t.Run("Invalid delay", func(t *testing.T) {
		t.Setenv("CONFIRMATION_DELAY", "0s")

		_, err := Load("")
		assert.Error(t, err)
	})
}
