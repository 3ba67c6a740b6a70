package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_GeocodingConfig(t *testing.T) {
	os.Setenv("GOOGLE_MAPS_API_KEY", "google-key")
	os.Setenv("MAPBOX_API_KEY", "mapbox-key")
	os.Setenv("GEOCODING_TIMEOUT_SECONDS", "7")
	defer func() {
		os.Unsetenv("GOOGLE_MAPS_API_KEY")
		os.Unsetenv("MAPBOX_API_KEY")
		os.Unsetenv("GEOCODING_TIMEOUT_SECONDS")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "google-key", cfg.Geocoding.GoogleAPIKey)
	assert.Equal(t, "mapbox-key", cfg.Geocoding.MapboxAPIKey)
	assert.Equal(t, 7, cfg.Geocoding.TimeoutSeconds)
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("GOOGLE_MAPS_API_KEY")
	os.Unsetenv("SEARCH_DEFAULT_PAGE_SIZE")
	os.Unsetenv("NOMINATIM_BASE_URL")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "", cfg.Geocoding.GoogleAPIKey)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geocoding.NominatimBaseURL)
	assert.Equal(t, 4, cfg.Geocoding.TimeoutSeconds)
	assert.Equal(t, 20, cfg.Search.DefaultPageSize)
	assert.Equal(t, 100, cfg.Search.MaxPageSize)
	assert.Equal(t, "http://localhost:8108", cfg.Typesense.URL)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	os.Setenv("SEARCH_DEFAULT_PAGE_SIZE", "not-a-number")
	defer os.Unsetenv("SEARCH_DEFAULT_PAGE_SIZE")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 20, cfg.Search.DefaultPageSize)
}
