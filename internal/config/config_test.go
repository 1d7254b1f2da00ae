package config

import (
	"os"
	"path/filepath"
	"testing"

	"touristhub/internal/models"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  name: touristhub\n"))
	assert.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "local", cfg.Gateway.Mode)
	assert.Equal(t, "memory", cfg.Shim.Backend)
	assert.Equal(t, 30, cfg.Gateway.SessionPollSeconds)
	assert.Equal(t, "exports", cfg.Exports.Path)
	assert.Equal(t, float64(10), cfg.Server.RateLimit.RPS)

	settings := cfg.SiteSettings()
	assert.Equal(t, "TouristHub", settings.SiteName)
	assert.Equal(t, models.DefaultMaxGuests, settings.MaxGuests)
	assert.Equal(t, models.DefaultAdvanceBookingDays, settings.AdvanceBooking)
}

func TestLoadEnvExpansion(t *testing.T) {
	t.Setenv("TEST_GATEWAY_URL", "https://store.example.com")

	cfg, err := Load(writeConfig(t, `
gateway:
  mode: remote
  base_url: ${TEST_GATEWAY_URL}
`))
	assert.NoError(t, err)
	assert.Equal(t, "https://store.example.com", cfg.Gateway.BaseURL)
}

func TestValidate(t *testing.T) {
	t.Run("remote mode requires base url", func(t *testing.T) {
		_, err := Load(writeConfig(t, "gateway:\n  mode: remote\n"))
		assert.ErrorContains(t, err, "base_url")
	})

	t.Run("unknown gateway mode rejected", func(t *testing.T) {
		_, err := Load(writeConfig(t, "gateway:\n  mode: carrier-pigeon\n"))
		assert.ErrorContains(t, err, "unknown gateway mode")
	})

	t.Run("redis shim requires address", func(t *testing.T) {
		_, err := Load(writeConfig(t, "shim:\n  backend: redis\n"))
		assert.ErrorContains(t, err, "redis.address")
	})

	t.Run("failover shim requires both backends", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
shim:
  backend: failover
  sqlite:
    path: data/cache.db
`))
		assert.ErrorContains(t, err, "redis.address")
	})

	t.Run("negative settings rejected", func(t *testing.T) {
		_, err := Load(writeConfig(t, "settings:\n  max_guests: -1\n"))
		assert.ErrorContains(t, err, "settings limits")
	})
}

func TestValidateCatalog(t *testing.T) {
	t.Run("bundled defaults validate", func(t *testing.T) {
		catalog := &models.Catalog{
			Tours:        models.DefaultTours(),
			Destinations: models.DefaultDestinations(),
		}
		assert.NoError(t, ValidateCatalog(catalog))
	})

	t.Run("duplicate tour ids rejected", func(t *testing.T) {
		catalog := &models.Catalog{Tours: []models.Tour{
			{ID: "tour-1", Name: "A"},
			{ID: "tour-1", Name: "B"},
		}}
		assert.ErrorContains(t, ValidateCatalog(catalog), "duplicate tour ID")
	})

	t.Run("empty destination id rejected", func(t *testing.T) {
		catalog := &models.Catalog{Destinations: []models.Destination{{Name: "Fjords"}}}
		assert.ErrorContains(t, ValidateCatalog(catalog), "empty ID")
	})
}
