package database

import (
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hashemselim/findabatherapy/internal/domain/entities"
	"github.com/Hashemselim/findabatherapy/internal/domain/repositories"
	"github.com/Hashemselim/findabatherapy/pkg/geo"
)

func candidateSQL(t *testing.T, q repositories.CandidateQuery, facets map[string]facetColumn) string {
	t.Helper()
	ds := goqu.Dialect("postgres").From("job_postings").Where(goqu.Ex{"is_active": true})
	ds = applyCandidateQuery(ds, q, facets)
	sql, _, err := ds.ToSQL()
	require.NoError(t, err)
	return sql
}

func TestApplyCandidateQueryBoundingBox(t *testing.T) {
	box := geo.BoundingBoxAround(geo.Coordinates{Latitude: 30.2672, Longitude: -97.7431}, 25)
	sql := candidateSQL(t, repositories.CandidateQuery{Box: &box}, jobFacetColumns)

	assert.Contains(t, sql, `"latitude" IS NOT NULL`)
	assert.Contains(t, sql, `"latitude" BETWEEN`)
	assert.Contains(t, sql, `"longitude" BETWEEN`)
}

func TestApplyCandidateQueryStateFallback(t *testing.T) {
	sql := candidateSQL(t, repositories.CandidateQuery{State: "TX"}, jobFacetColumns)

	assert.Contains(t, sql, `"state" = 'TX'`)
	assert.NotContains(t, sql, "BETWEEN")
}

func TestApplyCandidateQueryFacets(t *testing.T) {
	sql := candidateSQL(t, repositories.CandidateQuery{
		Facets: map[string][]string{
			entities.FacetPositionType: {entities.PositionBCBA, entities.PositionRBT},
			entities.FacetRemote:       {"true"},
			entities.FacetServiceMode:  {entities.ServiceModeInHome},
		},
	}, jobFacetColumns)

	assert.Contains(t, sql, `"position_type" IN ('BCBA', 'RBT')`)
	assert.Contains(t, sql, `"remote" IS TRUE`)
	assert.Contains(t, sql, "service_modes &&")
}

func TestApplyCandidateQueryIgnoresUnknownDimension(t *testing.T) {
	sql := candidateSQL(t, repositories.CandidateQuery{
		Facets: map[string][]string{"shoeSize": {"12"}},
	}, jobFacetColumns)

	assert.NotContains(t, sql, "shoeSize")
}

func TestApplyCandidateQueryListingInsuranceFacet(t *testing.T) {
	sql := candidateSQL(t, repositories.CandidateQuery{
		Facets: map[string][]string{entities.FacetInsurance: {"aetna", "bcbs"}},
	}, listingFacetColumns)

	assert.Contains(t, sql, "accepted_insurance &&")
}

func TestJobRecordRoundTripFields(t *testing.T) {
	salaryMax := 95000.0
	job := &entities.JobPosting{
		ID:             "job-1",
		ListingID:      "listing-1",
		Title:          "BCBA",
		PositionType:   entities.PositionBCBA,
		EmploymentType: entities.EmploymentFullTime,
		ServiceModes:   []string{entities.ServiceModeInClinic},
		Location:       &geo.Coordinates{Latitude: 30.2672, Longitude: -97.7431},
		SalaryMax:      &salaryMax,
		IsActive:       true,
		PostedAt:       time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	record := jobRecord(job)

	assert.Equal(t, "job-1", record["id"])
	lat := record["latitude"]
	require.NotNil(t, lat)
	assert.Contains(t, record, "service_modes")
	assert.Contains(t, record, "salary_max")
}
