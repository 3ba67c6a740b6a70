package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hashemselim/findabatherapy/internal/api/handlers"
	"github.com/Hashemselim/findabatherapy/internal/application/services"
	"github.com/Hashemselim/findabatherapy/internal/domain/providers"
	"github.com/Hashemselim/findabatherapy/pkg/geo"
)

type staticProvider struct {
	result *providers.GeocodedAddress
	err    error
}

func (p *staticProvider) Name() string { return "static" }

func (p *staticProvider) Geocode(ctx context.Context, address string) (*providers.GeocodedAddress, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

func TestGeocodeFound(t *testing.T) {
	provider := &staticProvider{result: &providers.GeocodedAddress{
		FormattedAddress: "Austin, TX, USA",
		City:             "Austin",
		State:            "TX",
		Coordinates:      geo.Coordinates{Latitude: 30.2672, Longitude: -97.7431},
	}}
	geocoder := services.NewGeocodingService(provider, nil, time.Second, nil)
	handler := handlers.NewGeocodingHandler(geocoder)

	req := httptest.NewRequest(http.MethodGet, "/api/geocode?address=Austin%2C+TX", nil)
	rec := httptest.NewRecorder()
	handler.Geocode(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Found  bool                       `json:"found"`
		Result *providers.GeocodedAddress `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Found)
	require.NotNil(t, body.Result)
	assert.Equal(t, "Austin", body.Result.City)
}

func TestGeocodeNotFound(t *testing.T) {
	provider := &staticProvider{err: providers.ErrNoMatch}
	geocoder := services.NewGeocodingService(provider, nil, time.Second, nil)
	handler := handlers.NewGeocodingHandler(geocoder)

	req := httptest.NewRequest(http.MethodGet, "/api/geocode?address=Nowhereville", nil)
	rec := httptest.NewRecorder()
	handler.Geocode(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Found bool `json:"found"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Found)
}

func TestGeocodeMissingAddress(t *testing.T) {
	geocoder := services.NewGeocodingService(nil, nil, time.Second, nil)
	handler := handlers.NewGeocodingHandler(geocoder)

	req := httptest.NewRequest(http.MethodGet, "/api/geocode", nil)
	rec := httptest.NewRecorder()
	handler.Geocode(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
