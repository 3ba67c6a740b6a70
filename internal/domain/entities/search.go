package entities

import (
	"time"

	"github.com/Hashemselim/findabatherapy/pkg/geo"
)

// SortKey selects the primary ordering of a result set.
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortDistance  SortKey = "distance"
	SortRecency   SortKey = "recency"
	SortSalary    SortKey = "salary"
)

// Facet dimension names as they appear in the search request contract.
const (
	FacetPositionType   = "positionType"
	FacetEmploymentType = "employmentType"
	FacetRemote         = "remote"
	FacetInsurance      = "insurance"
	FacetServiceMode    = "serviceMode"
)

// SearchFilters is the canonical filter descriptor the filter compiler
// produces from a raw request. Facet values are OR-ed within a
// dimension and AND-ed across dimensions.
type SearchFilters struct {
	Center      *geo.Coordinates    `json:"center,omitempty"`
	RadiusMiles *float64            `json:"radius_miles,omitempty"`
	City        string              `json:"city,omitempty"`
	State       string              `json:"state,omitempty"`
	Query       string              `json:"query,omitempty"`
	Facets      map[string][]string `json:"facets"`
	PostedAfter *time.Time          `json:"posted_after,omitempty"`
	Sort        SortKey             `json:"sort"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
}

// RankedResult pairs a record with its distance from the resolved
// search center. DistanceMiles is nil when no center was resolved.
type RankedResult[T any] struct {
	Record        T        `json:"record"`
	DistanceMiles *float64 `json:"distance_miles,omitempty"`
}

// SearchPage is one page of ranked results plus the metadata the
// pagination UI needs.
type SearchPage[T any] struct {
	Results    []RankedResult[T] `json:"results"`
	TotalCount int               `json:"total_count"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
}

// SearchEvent captures one executed search for analytics
type SearchEvent struct {
	ID            string           `json:"id" db:"id"`
	Query         string           `json:"query" db:"query"`
	LocationQuery string           `json:"location_query" db:"location_query"`
	Center        *geo.Coordinates `json:"center,omitempty" db:"-"`
	ResultCount   int              `json:"result_count" db:"result_count"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
}

// InsuranceProvider represents an insurance carrier accepted by
// listings
type InsuranceProvider struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
