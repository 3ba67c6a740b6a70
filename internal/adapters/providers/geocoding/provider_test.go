package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hashemselim/findabatherapy/internal/domain/providers"
	"github.com/Hashemselim/findabatherapy/pkg/config"
)

func TestGoogleProvider_Geocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Austin, TX, USA", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "Austin, TX, USA",
				"address_components": [
					{"long_name": "Austin", "types": ["locality", "political"]},
					{"long_name": "Texas", "types": ["administrative_area_level_1", "political"]},
					{"long_name": "United States", "types": ["country", "political"]}
				],
				"geometry": {"location": {"lat": 30.2672, "lng": -97.7431}}
			}]
		}`))
	}))
	defer server.Close()

	provider := NewGoogleProviderWithOptions("test-key", server.URL, server.Client())
	addr, err := provider.Geocode(context.Background(), "Austin, TX, USA")
	require.NoError(t, err)

	assert.Equal(t, "Austin, TX, USA", addr.FormattedAddress)
	assert.Equal(t, "Austin", addr.City)
	assert.Equal(t, "Texas", addr.State)
	assert.Equal(t, "United States", addr.Country)
	assert.InDelta(t, 30.2672, addr.Coordinates.Latitude, 1e-6)
	assert.InDelta(t, -97.7431, addr.Coordinates.Longitude, 1e-6)
}

func TestGoogleProvider_ZeroResultsIsNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer server.Close()

	provider := NewGoogleProviderWithOptions("test-key", server.URL, server.Client())
	_, err := provider.Geocode(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, providers.ErrNoMatch)
}

func TestGoogleProvider_DeniedIsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "The provided API key is invalid."}`))
	}))
	defer server.Close()

	provider := NewGoogleProviderWithOptions("bad-key", server.URL, server.Client())
	_, err := provider.Geocode(context.Background(), "Austin, TX")
	require.Error(t, err)
	assert.NotErrorIs(t, err, providers.ErrNoMatch)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestMapboxProvider_Geocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token", r.URL.Query().Get("access_token"))

		w.Write([]byte(`{
			"features": [{
				"id": "place.1234",
				"text": "Austin",
				"place_name": "Austin, Texas, United States",
				"center": [-97.7431, 30.2672],
				"context": [
					{"id": "region.5678", "text": "Texas"},
					{"id": "country.91011", "text": "United States"}
				]
			}]
		}`))
	}))
	defer server.Close()

	provider := NewMapboxProviderWithOptions("token", server.URL, server.Client())
	addr, err := provider.Geocode(context.Background(), "Austin, TX")
	require.NoError(t, err)

	assert.Equal(t, "Austin, Texas, United States", addr.FormattedAddress)
	assert.Equal(t, "Austin", addr.City)
	assert.Equal(t, "Texas", addr.State)
	assert.Equal(t, "United States", addr.Country)
	// Mapbox center is [lng, lat]; make sure the axes were not swapped.
	assert.InDelta(t, 30.2672, addr.Coordinates.Latitude, 1e-6)
	assert.InDelta(t, -97.7431, addr.Coordinates.Longitude, 1e-6)
}

func TestMapboxProvider_EmptyFeaturesIsNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features": []}`))
	}))
	defer server.Close()

	provider := NewMapboxProviderWithOptions("token", server.URL, server.Client())
	_, err := provider.Geocode(context.Background(), "nowhere")
	assert.ErrorIs(t, err, providers.ErrNoMatch)
}

func TestNominatimProvider_Geocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Write([]byte(`[{
			"lat": "30.2672",
			"lon": "-97.7431",
			"display_name": "Austin, Travis County, Texas, United States",
			"address": {
				"city": "Austin",
				"state": "Texas",
				"postcode": "78701",
				"country": "United States"
			}
		}]`))
	}))
	defer server.Close()

	provider := NewNominatimProviderWithOptions(server.URL, server.Client())
	addr, err := provider.Geocode(context.Background(), "Austin, TX")
	require.NoError(t, err)

	assert.Equal(t, "Austin", addr.City)
	assert.Equal(t, "Texas", addr.State)
	assert.Equal(t, "78701", addr.PostalCode)
	assert.InDelta(t, 30.2672, addr.Coordinates.Latitude, 1e-6)
}

func TestNominatimProvider_TownFallsBackAsCity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{
			"lat": "30.5083",
			"lon": "-97.6789",
			"display_name": "Round Rock, Williamson County, Texas, United States",
			"address": {"town": "Round Rock", "state": "Texas", "country": "United States"}
		}]`))
	}))
	defer server.Close()

	provider := NewNominatimProviderWithOptions(server.URL, server.Client())
	addr, err := provider.Geocode(context.Background(), "Round Rock, TX")
	require.NoError(t, err)
	assert.Equal(t, "Round Rock", addr.City)
}

func TestNominatimProvider_EmptyArrayIsNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	provider := NewNominatimProviderWithOptions(server.URL, server.Client())
	_, err := provider.Geocode(context.Background(), "nowhere")
	assert.ErrorIs(t, err, providers.ErrNoMatch)
}

func TestNewProviderFromConfig_Precedence(t *testing.T) {
	cases := []struct {
		name     string
		cfg      config.GeocodingConfig
		expected string
	}{
		{"google wins", config.GeocodingConfig{GoogleAPIKey: "g", MapboxAPIKey: "m", NominatimEnabled: true}, "google"},
		{"mapbox next", config.GeocodingConfig{MapboxAPIKey: "m", NominatimEnabled: true}, "mapbox"},
		{"nominatim last", config.GeocodingConfig{NominatimEnabled: true}, "nominatim"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider := NewProviderFromConfig(tc.cfg)
			require.NotNil(t, provider)
			assert.Equal(t, tc.expected, provider.Name())
		})
	}
}

func TestNewProviderFromConfig_NoneConfigured(t *testing.T) {
	assert.Nil(t, NewProviderFromConfig(config.GeocodingConfig{}))
}
