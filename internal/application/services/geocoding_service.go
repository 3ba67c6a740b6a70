package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Hashemselim/findabatherapy/internal/domain/providers"
	"github.com/Hashemselim/findabatherapy/internal/infrastructure/observability"
)

const (
	geocodeCachePrefix     = "geo:v1:"
	geocodeCacheTTLSeconds = 60 * 60 * 24 * 30
	defaultGeocodeTimeout  = 4 * time.Second
)

// GeocodingService resolves free-text location input into coordinates.
// It fronts the one configured provider with a cache and absorbs every
// failure mode: callers get a result or nil, never an error. A search
// that cannot resolve its location proceeds without one.
type GeocodingService struct {
	provider providers.GeocodingProvider
	cache    providers.CacheProvider
	timeout  time.Duration
	metrics  *observability.Metrics
}

// NewGeocodingService creates a new geocoding service. provider may be
// nil when no credentials are configured; every resolve then answers
// nil without a network call.
func NewGeocodingService(provider providers.GeocodingProvider, cache providers.CacheProvider, timeout time.Duration, metrics *observability.Metrics) *GeocodingService {
	if timeout <= 0 {
		timeout = defaultGeocodeTimeout
	}
	return &GeocodingService{
		provider: provider,
		cache:    cache,
		timeout:  timeout,
		metrics:  metrics,
	}
}

// Resolve geocodes a free-text address, city/state, or ZIP string.
// Returns nil for blank input, unconfigured provider, no match, or
// provider failure.
func (s *GeocodingService) Resolve(ctx context.Context, query string) *providers.GeocodedAddress {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil
	}

	cacheKey := geocodeCachePrefix + hashKey(strings.ToLower(trimmed))
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		return cached
	}

	if s.provider == nil {
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	addr, err := s.provider.Geocode(callCtx, trimmed)
	observability.RecordGeocode(ctx, s.metrics, s.provider.Name(), err == nil)
	if err != nil {
		logger := observability.LoggerFromContext(ctx)
		if errors.Is(err, providers.ErrNoMatch) {
			logger.Debug().Str("query", trimmed).Msg("geocoding found no match")
		} else {
			logger.Warn().Err(err).Str("provider", s.provider.Name()).Msg("geocoding provider call failed")
		}
		return nil
	}

	// Only a fully successful resolution is cached; cancelled or failed
	// calls leave no trace.
	s.toCache(ctx, cacheKey, addr)
	return addr
}

// ResolveCityState geocodes a city/state pair.
func (s *GeocodingService) ResolveCityState(ctx context.Context, city, state string) *providers.GeocodedAddress {
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	if city == "" || state == "" {
		return nil
	}
	return s.Resolve(ctx, fmt.Sprintf("%s, %s, USA", city, state))
}

// ResolveZip geocodes a ZIP code.
func (s *GeocodingService) ResolveZip(ctx context.Context, zip string) *providers.GeocodedAddress {
	zip = strings.TrimSpace(zip)
	if zip == "" {
		return nil
	}
	return s.Resolve(ctx, fmt.Sprintf("%s, USA", zip))
}

func (s *GeocodingService) fromCache(ctx context.Context, key string) *providers.GeocodedAddress {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.Get(ctx, key)
	if err != nil || len(cached) == 0 {
		return nil
	}
	var addr providers.GeocodedAddress
	if err := json.Unmarshal(cached, &addr); err != nil {
		return nil
	}
	if !addr.Coordinates.Valid() {
		return nil
	}
	return &addr
}

func (s *GeocodingService) toCache(ctx context.Context, key string, addr *providers.GeocodedAddress) {
	if s.cache == nil || addr == nil {
		return
	}
	payload, err := json.Marshal(addr)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, key, payload, geocodeCacheTTLSeconds)
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
