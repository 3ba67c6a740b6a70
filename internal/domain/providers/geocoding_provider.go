package providers

import (
	"context"
	"errors"

	"github.com/Hashemselim/findabatherapy/pkg/geo"
)

// ErrNoMatch is returned by a geocoding provider that answered
// successfully but found nothing for the query. Transport and auth
// failures are returned as ordinary wrapped errors so callers can tell
// the two apart.
var ErrNoMatch = errors.New("no match for address")

// GeocodingProvider converts a free-text location description into
// coordinates. Each implementation owns its provider-specific request
// building and response parsing; nothing provider-shaped leaks out.
type GeocodingProvider interface {
	// Name identifies the provider in logs
	Name() string

	// Geocode resolves an address, city/state, or ZIP string
	Geocode(ctx context.Context, address string) (*GeocodedAddress, error)
}

// GeocodedAddress is the canonical geocoding result shape
type GeocodedAddress struct {
	FormattedAddress string          `json:"formatted_address"`
	City             string          `json:"city,omitempty"`
	State            string          `json:"state,omitempty"`
	PostalCode       string          `json:"postal_code,omitempty"`
	Country          string          `json:"country,omitempty"`
	Coordinates      geo.Coordinates `json:"coordinates"`
}
