package services

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Hashemselim/findabatherapy/internal/domain/entities"
	"github.com/Hashemselim/findabatherapy/internal/domain/providers"
	"github.com/Hashemselim/findabatherapy/internal/domain/repositories"
	"github.com/Hashemselim/findabatherapy/internal/infrastructure/observability"
	"github.com/Hashemselim/findabatherapy/pkg/geo"
)

// Allowed values per closed facet dimension. Unknown values are
// silently dropped; one bad value never fails the request.
var allowedFacetValues = map[string]map[string]bool{
	entities.FacetPositionType: {
		entities.PositionBCBA:             true,
		entities.PositionBCaBA:            true,
		entities.PositionRBT:              true,
		entities.PositionBT:               true,
		entities.PositionClinicalDirector: true,
		entities.PositionOther:            true,
	},
	entities.FacetEmploymentType: {
		entities.EmploymentFullTime: true,
		entities.EmploymentPartTime: true,
		entities.EmploymentContract: true,
		entities.EmploymentPerDiem:  true,
	},
	entities.FacetRemote: {
		"true":  true,
		"false": true,
	},
	entities.FacetServiceMode: {
		entities.ServiceModeInHome:      true,
		entities.ServiceModeInClinic:    true,
		entities.ServiceModeTelehealth:  true,
		entities.ServiceModeSchoolBased: true,
	},
}

var postedWithinWindows = map[string]time.Duration{
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
	"90d": 90 * 24 * time.Hour,
}

// FilterService compiles a raw search request into canonical
// SearchFilters. It owns the whole request contract: every field is
// optional and every malformed value degrades instead of erroring.
type FilterService struct {
	geocoder        *GeocodingService
	insurance       repositories.InsuranceRepository
	defaultPageSize int
	maxPageSize     int
	now             func() time.Time
}

// NewFilterService creates a new filter service. insurance may be nil;
// insurance facet values are then passed through un-validated.
func NewFilterService(geocoder *GeocodingService, insurance repositories.InsuranceRepository, defaultPageSize, maxPageSize int) *FilterService {
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	if maxPageSize < defaultPageSize {
		maxPageSize = 100
	}
	return &FilterService{
		geocoder:        geocoder,
		insurance:       insurance,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		now:             time.Now,
	}
}

// Compile parses and validates raw query parameters into SearchFilters.
// A location string that cannot be geocoded produces filters without a
// center; the rest of the request is unaffected.
func (s *FilterService) Compile(ctx context.Context, params url.Values) entities.SearchFilters {
	filters := entities.SearchFilters{
		Facets:   map[string][]string{},
		Sort:     entities.SortRelevance,
		Page:     1,
		PageSize: s.defaultPageSize,
	}

	filters.Query = strings.TrimSpace(params.Get("q"))
	filters.City = strings.TrimSpace(params.Get("city"))
	filters.State = normalizeState(params.Get("state"))

	s.compileLocation(ctx, params, &filters)
	s.compileFacets(ctx, params, &filters)

	if v := strings.TrimSpace(params.Get("radius")); v != "" {
		if radius, err := strconv.ParseFloat(v, 64); err == nil && radius > 0 {
			filters.RadiusMiles = &radius
		}
	}

	if window, ok := postedWithinWindows[strings.TrimSpace(params.Get("postedWithin"))]; ok {
		cutoff := s.now().Add(-window)
		filters.PostedAfter = &cutoff
	}

	sortParam := entities.SortKey(strings.TrimSpace(params.Get("sort")))
	switch sortParam {
	case entities.SortRelevance, entities.SortDistance, entities.SortRecency, entities.SortSalary:
		filters.Sort = sortParam
	default:
		// Distance becomes the default ordering once a center exists and
		// the caller expressed no preference.
		if filters.Center != nil {
			filters.Sort = entities.SortDistance
		}
	}

	if v, err := strconv.Atoi(params.Get("page")); err == nil && v > 1 {
		filters.Page = v
	}
	if v, err := strconv.Atoi(params.Get("pageSize")); err == nil && v > 0 {
		if v > s.maxPageSize {
			v = s.maxPageSize
		}
		filters.PageSize = v
	}

	return filters
}

func (s *FilterService) compileLocation(ctx context.Context, params url.Values, filters *entities.SearchFilters) {
	// Explicit coordinates (a map-pin selection) win over free text and
	// skip geocoding entirely.
	latStr, lngStr := params.Get("lat"), params.Get("lng")
	if latStr != "" && lngStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat == nil && errLng == nil {
			coords := geo.Coordinates{Latitude: lat, Longitude: lng}
			if coords.Valid() {
				filters.Center = &coords
				return
			}
		}
	}

	if s.geocoder == nil {
		return
	}

	var resolved *providers.GeocodedAddress
	switch {
	case strings.TrimSpace(params.Get("location")) != "":
		resolved = s.geocoder.Resolve(ctx, params.Get("location"))
	case filters.City != "" && filters.State != "":
		resolved = s.geocoder.ResolveCityState(ctx, filters.City, filters.State)
	case strings.TrimSpace(params.Get("zip")) != "":
		resolved = s.geocoder.ResolveZip(ctx, params.Get("zip"))
	default:
		return
	}

	if resolved == nil {
		return
	}

	coords := resolved.Coordinates
	filters.Center = &coords
	if filters.City == "" {
		filters.City = resolved.City
	}
	if filters.State == "" {
		filters.State = normalizeState(resolved.State)
	}
}

func (s *FilterService) compileFacets(ctx context.Context, params url.Values, filters *entities.SearchFilters) {
	for dimension, allowed := range allowedFacetValues {
		values := collectValues(params, dimension)
		kept := make([]string, 0, len(values))
		for _, v := range values {
			if allowed[v] {
				kept = append(kept, v)
			}
		}
		if len(kept) > 0 {
			filters.Facets[dimension] = kept
		}
	}

	insuranceValues := collectValues(params, entities.FacetInsurance)
	if len(insuranceValues) == 0 {
		return
	}
	for i, v := range insuranceValues {
		insuranceValues[i] = strings.ToLower(v)
	}
	if known := s.knownInsuranceSlugs(ctx); known != nil {
		kept := insuranceValues[:0]
		for _, v := range insuranceValues {
			if known[v] {
				kept = append(kept, v)
			}
		}
		insuranceValues = kept
	}
	if len(insuranceValues) > 0 {
		filters.Facets[entities.FacetInsurance] = insuranceValues
	}
}

// knownInsuranceSlugs returns nil when the carrier list is unavailable,
// in which case validation fails open and values pass through.
func (s *FilterService) knownInsuranceSlugs(ctx context.Context) map[string]bool {
	if s.insurance == nil {
		return nil
	}
	slugs, err := s.insurance.ListActiveSlugs(ctx)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to load insurance slugs for facet validation")
		return nil
	}
	known := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		known[strings.ToLower(slug)] = true
	}
	return known
}

// collectValues gathers a multi-value parameter, accepting both
// repeated keys and comma-separated lists.
func collectValues(params url.Values, key string) []string {
	var out []string
	for _, raw := range params[key] {
		for _, part := range strings.Split(raw, ",") {
			if v := strings.TrimSpace(part); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func normalizeState(state string) string {
	state = strings.TrimSpace(state)
	if len(state) == 2 {
		return strings.ToUpper(state)
	}
	return state
}
