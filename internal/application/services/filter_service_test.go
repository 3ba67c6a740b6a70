package services

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hashemselim/findabatherapy/internal/domain/entities"
	"github.com/Hashemselim/findabatherapy/internal/domain/repositories"
)

type stubInsuranceRepo struct {
	slugs []string
	err   error
}

func (s *stubInsuranceRepo) GetBySlug(ctx context.Context, slug string) (*entities.InsuranceProvider, error) {
	return nil, errors.New("not implemented")
}

func (s *stubInsuranceRepo) ListActive(ctx context.Context) ([]*entities.InsuranceProvider, error) {
	return nil, errors.New("not implemented")
}

func (s *stubInsuranceRepo) ListActiveSlugs(ctx context.Context) ([]string, error) {
	return s.slugs, s.err
}

func newTestFilterService(geocoder *stubGeocoder, insurance *stubInsuranceRepo) *FilterService {
	var resolver *GeocodingService
	if geocoder != nil {
		resolver = NewGeocodingService(geocoder, nil, time.Second, nil)
	}
	var repo repositories.InsuranceRepository
	if insurance != nil {
		repo = insurance
	}
	return NewFilterService(resolver, repo, 20, 100)
}

func TestCompileExplicitCoordinatesSkipGeocoding(t *testing.T) {
	geocoder := &stubGeocoder{name: "stub", result: austinAddress()}
	svc := newTestFilterService(geocoder, nil)

	filters := svc.Compile(context.Background(), url.Values{
		"lat":      {"30.2672"},
		"lng":      {"-97.7431"},
		"location": {"Austin, TX"},
	})

	require.NotNil(t, filters.Center)
	assert.InDelta(t, 30.2672, filters.Center.Latitude, 0.0001)
	assert.Equal(t, 0, geocoder.calls, "explicit lat/lng must win over free text")
}

func TestCompileInvalidCoordinatesFallBackToGeocoding(t *testing.T) {
	geocoder := &stubGeocoder{name: "stub", result: austinAddress()}
	svc := newTestFilterService(geocoder, nil)

	filters := svc.Compile(context.Background(), url.Values{
		"lat":      {"999"},
		"lng":      {"-97.7431"},
		"location": {"Austin, TX"},
	})

	require.NotNil(t, filters.Center)
	assert.Equal(t, 1, geocoder.calls)
	assert.Equal(t, "Austin", filters.City)
	assert.Equal(t, "TX", filters.State)
}

func TestCompileCityStateResolution(t *testing.T) {
	geocoder := &stubGeocoder{name: "stub", result: austinAddress()}
	svc := newTestFilterService(geocoder, nil)

	filters := svc.Compile(context.Background(), url.Values{
		"city":  {"Austin"},
		"state": {"tx"},
	})

	require.NotNil(t, filters.Center)
	assert.Equal(t, "TX", filters.State)
}

func TestCompileFailedGeocodeDegrades(t *testing.T) {
	geocoder := &stubGeocoder{name: "stub", err: errors.New("timeout")}
	svc := newTestFilterService(geocoder, nil)

	filters := svc.Compile(context.Background(), url.Values{
		"location":     {"Austin, TX"},
		"positionType": {"BCBA"},
		"radius":       {"25"},
	})

	assert.Nil(t, filters.Center)
	assert.Equal(t, []string{"BCBA"}, filters.Facets[entities.FacetPositionType])
	assert.Equal(t, entities.SortRelevance, filters.Sort)
}

func TestCompileFacetValidation(t *testing.T) {
	svc := newTestFilterService(nil, nil)

	filters := svc.Compile(context.Background(), url.Values{
		"positionType":   {"BCBA,RBT", "DROP_TABLE"},
		"employmentType": {"FULL_TIME"},
		"remote":         {"true", "maybe"},
		"serviceMode":    {"IN_HOME", "UNDERWATER"},
	})

	assert.ElementsMatch(t, []string{"BCBA", "RBT"}, filters.Facets[entities.FacetPositionType])
	assert.Equal(t, []string{"FULL_TIME"}, filters.Facets[entities.FacetEmploymentType])
	assert.Equal(t, []string{"true"}, filters.Facets[entities.FacetRemote])
	assert.Equal(t, []string{"IN_HOME"}, filters.Facets[entities.FacetServiceMode])
}

func TestCompileInsuranceValidatedAgainstKnownSlugs(t *testing.T) {
	insurance := &stubInsuranceRepo{slugs: []string{"aetna", "bcbs"}}
	svc := newTestFilterService(nil, insurance)

	filters := svc.Compile(context.Background(), url.Values{
		"insurance": {"Aetna", "unknowncare"},
	})

	assert.Equal(t, []string{"aetna"}, filters.Facets[entities.FacetInsurance])
}

func TestCompileInsuranceFailsOpenOnRepoError(t *testing.T) {
	insurance := &stubInsuranceRepo{err: errors.New("db down")}
	svc := newTestFilterService(nil, insurance)

	filters := svc.Compile(context.Background(), url.Values{
		"insurance": {"aetna"},
	})

	assert.Equal(t, []string{"aetna"}, filters.Facets[entities.FacetInsurance])
}

func TestCompilePostedWithin(t *testing.T) {
	svc := newTestFilterService(nil, nil)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	filters := svc.Compile(context.Background(), url.Values{"postedWithin": {"7d"}})
	require.NotNil(t, filters.PostedAfter)
	assert.Equal(t, now.Add(-7*24*time.Hour), *filters.PostedAfter)

	filters = svc.Compile(context.Background(), url.Values{"postedWithin": {"2weeks"}})
	assert.Nil(t, filters.PostedAfter)
}

func TestCompileSortDefaults(t *testing.T) {
	geocoder := &stubGeocoder{name: "stub", result: austinAddress()}

	tests := []struct {
		name   string
		params url.Values
		want   entities.SortKey
	}{
		{"no center defaults to relevance", url.Values{}, entities.SortRelevance},
		{"center defaults to distance", url.Values{"location": {"Austin, TX"}}, entities.SortDistance},
		{"explicit sort wins over center", url.Values{"location": {"Austin, TX"}, "sort": {"salary"}}, entities.SortSalary},
		{"unknown sort falls back", url.Values{"sort": {"alphabetical"}}, entities.SortRelevance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestFilterService(geocoder, nil)
			filters := svc.Compile(context.Background(), tt.params)
			assert.Equal(t, tt.want, filters.Sort)
		})
	}
}

func TestCompilePaginationClamps(t *testing.T) {
	svc := newTestFilterService(nil, nil)

	tests := []struct {
		name         string
		params       url.Values
		wantPage     int
		wantPageSize int
	}{
		{"defaults", url.Values{}, 1, 20},
		{"explicit", url.Values{"page": {"3"}, "pageSize": {"50"}}, 3, 50},
		{"negative page", url.Values{"page": {"-2"}}, 1, 20},
		{"oversized pageSize", url.Values{"pageSize": {"5000"}}, 1, 100},
		{"garbage", url.Values{"page": {"first"}, "pageSize": {"lots"}}, 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filters := svc.Compile(context.Background(), tt.params)
			assert.Equal(t, tt.wantPage, filters.Page)
			assert.Equal(t, tt.wantPageSize, filters.PageSize)
		})
	}
}

func TestCompileRadius(t *testing.T) {
	svc := newTestFilterService(nil, nil)

	filters := svc.Compile(context.Background(), url.Values{"radius": {"25"}})
	require.NotNil(t, filters.RadiusMiles)
	assert.Equal(t, 25.0, *filters.RadiusMiles)

	filters = svc.Compile(context.Background(), url.Values{"radius": {"-5"}})
	assert.Nil(t, filters.RadiusMiles)

	filters = svc.Compile(context.Background(), url.Values{"radius": {"close"}})
	assert.Nil(t, filters.RadiusMiles)
}
