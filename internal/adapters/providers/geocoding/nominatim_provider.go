package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Hashemselim/findabatherapy/internal/domain/providers"
	"github.com/Hashemselim/findabatherapy/pkg/geo"
)

const nominatimUserAgent = "findabatherapy/1.0 (search backend)"

// NominatimProvider implements GeocodingProvider using a Nominatim
// (OpenStreetMap) instance. Keyless; the public instance rate-limits
// aggressively, so production deployments point BaseURL at a self-hosted
// instance.
type NominatimProvider struct {
	httpClient *http.Client
	baseURL    string
}

// NewNominatimProvider creates a new Nominatim geocoding provider.
func NewNominatimProvider(baseURL string) providers.GeocodingProvider {
	return NewNominatimProviderWithOptions(baseURL, nil)
}

// NewNominatimProviderWithOptions allows overriding the HTTP client (used for tests).
func NewNominatimProviderWithOptions(baseURL string, httpClient *http.Client) providers.GeocodingProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &NominatimProvider{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// Name identifies the provider in logs.
func (n *NominatimProvider) Name() string { return "nominatim" }

// Geocode resolves a free-text address.
func (n *NominatimProvider) Geocode(ctx context.Context, address string) (*providers.GeocodedAddress, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")

	reqURL := fmt.Sprintf("%s/search?%s", n.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", nominatimUserAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	if len(results) == 0 {
		return nil, providers.ErrNoMatch
	}

	result := results[0]
	lat, err := strconv.ParseFloat(result.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in geocode response: %w", err)
	}
	lng, err := strconv.ParseFloat(result.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in geocode response: %w", err)
	}

	return &providers.GeocodedAddress{
		FormattedAddress: result.DisplayName,
		City:             result.Address.cityEquivalent(),
		State:            result.Address.State,
		PostalCode:       result.Address.Postcode,
		Country:          result.Address.Country,
		Coordinates: geo.Coordinates{
			Latitude:  lat,
			Longitude: lng,
		},
	}, nil
}

type nominatimResult struct {
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
}

type nominatimAddress struct {
	City     string `json:"city"`
	Town     string `json:"town"`
	Village  string `json:"village"`
	County   string `json:"county"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

// cityEquivalent picks the most specific populated-place field
// Nominatim returned; which one is present depends on the OSM place
// classification.
func (a nominatimAddress) cityEquivalent() string {
	for _, v := range []string{a.City, a.Town, a.Village, a.County} {
		if v != "" {
			return v
		}
	}
	return ""
}
