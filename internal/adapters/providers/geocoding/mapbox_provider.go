package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Hashemselim/findabatherapy/internal/domain/providers"
	"github.com/Hashemselim/findabatherapy/pkg/geo"
)

const mapboxGeocodeURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// MapboxProvider implements GeocodingProvider using the Mapbox
// Geocoding API.
type MapboxProvider struct {
	accessToken string
	httpClient  *http.Client
	baseURL     string
}

// NewMapboxProvider creates a new Mapbox geocoding provider.
func NewMapboxProvider(accessToken string) providers.GeocodingProvider {
	return NewMapboxProviderWithOptions(accessToken, mapboxGeocodeURL, nil)
}

// NewMapboxProviderWithOptions allows overriding base URL and HTTP client (used for tests).
func NewMapboxProviderWithOptions(accessToken, baseURL string, httpClient *http.Client) providers.GeocodingProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = mapboxGeocodeURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &MapboxProvider{
		accessToken: accessToken,
		httpClient:  httpClient,
		baseURL:     baseURL,
	}
}

// Name identifies the provider in logs.
func (m *MapboxProvider) Name() string { return "mapbox" }

// Geocode resolves a free-text address.
func (m *MapboxProvider) Geocode(ctx context.Context, address string) (*providers.GeocodedAddress, error) {
	if m.accessToken == "" {
		return nil, fmt.Errorf("mapbox access token is required")
	}

	params := url.Values{}
	params.Set("access_token", m.accessToken)
	params.Set("limit", "1")
	params.Set("types", "address,place,postcode,region")

	reqURL := fmt.Sprintf("%s/%s.json?%s", m.baseURL, url.PathEscape(address), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var payload mapboxGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	if len(payload.Features) == 0 {
		return nil, providers.ErrNoMatch
	}

	feature := payload.Features[0]
	if len(feature.Center) != 2 {
		return nil, fmt.Errorf("geocode response missing center coordinates")
	}

	addr := &providers.GeocodedAddress{
		FormattedAddress: feature.PlaceName,
		// Mapbox orders center as [longitude, latitude].
		Coordinates: geo.Coordinates{
			Latitude:  feature.Center[1],
			Longitude: feature.Center[0],
		},
	}

	// The feature itself may be the city/postcode/region; the rest of
	// the hierarchy comes from the context list, identified by id prefix.
	assignMapboxComponent(addr, feature.ID, feature.Text)
	for _, c := range feature.Context {
		assignMapboxComponent(addr, c.ID, c.Text)
	}

	return addr, nil
}

func assignMapboxComponent(addr *providers.GeocodedAddress, id, text string) {
	switch {
	case strings.HasPrefix(id, "place."):
		addr.City = text
	case strings.HasPrefix(id, "region."):
		addr.State = text
	case strings.HasPrefix(id, "postcode."):
		addr.PostalCode = text
	case strings.HasPrefix(id, "country."):
		addr.Country = text
	}
}

type mapboxGeocodeResponse struct {
	Features []mapboxFeature `json:"features"`
}

type mapboxFeature struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	PlaceName string          `json:"place_name"`
	Center    []float64       `json:"center"`
	Context   []mapboxContext `json:"context"`
}

type mapboxContext struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}
