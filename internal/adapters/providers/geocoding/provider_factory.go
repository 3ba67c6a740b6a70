package geocoding

import (
	"github.com/Hashemselim/findabatherapy/internal/domain/providers"
	"github.com/Hashemselim/findabatherapy/pkg/config"
)

// NewProviderFromConfig selects the one geocoding provider this process
// will use, by credential precedence: Google, then Mapbox, then
// Nominatim. Returns nil when nothing is configured; the resolver then
// answers every lookup with "not resolved" instead of guessing.
//
// One provider per process, no per-call fallback chain.
func NewProviderFromConfig(cfg config.GeocodingConfig) providers.GeocodingProvider {
	if cfg.GoogleAPIKey != "" {
		return NewGoogleProvider(cfg.GoogleAPIKey)
	}
	if cfg.MapboxAPIKey != "" {
		return NewMapboxProvider(cfg.MapboxAPIKey)
	}
	if cfg.NominatimEnabled {
		return NewNominatimProvider(cfg.NominatimBaseURL)
	}
	return nil
}
