package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Hashemselim/findabatherapy/internal/domain/entities"
	"github.com/Hashemselim/findabatherapy/internal/domain/repositories"
	"github.com/Hashemselim/findabatherapy/internal/infrastructure/observability"
	"github.com/Hashemselim/findabatherapy/pkg/geo"
)

// candidateLimit caps how many prefiltered records the engine ranks in
// memory for a single request.
const candidateLimit = 2000

// Candidate wraps one record with the attributes the ranking engine
// sorts and filters on. Facets holds the record's own values per
// dimension, matched against the request's facet selections.
type Candidate[T any] struct {
	Record    T
	ID        string
	Location  *geo.Coordinates
	Recency   time.Time
	Salary    *float64
	Relevance float64
	Facets    map[string][]string
}

type scoredCandidate[T any] struct {
	cand     Candidate[T]
	distance *float64
}

// rankAndPaginate runs the full in-memory pipeline: facet predicates,
// exact distance cut, sort with deterministic tie-breaks, and the page
// slice. TotalCount reflects the filtered set, not the page.
func rankAndPaginate[T any](candidates []Candidate[T], filters entities.SearchFilters) *entities.SearchPage[T] {
	scored := make([]scoredCandidate[T], 0, len(candidates))
	for _, cand := range candidates {
		if !matchesFacets(cand.Facets, filters.Facets) {
			continue
		}
		if filters.PostedAfter != nil && cand.Recency.Before(*filters.PostedAfter) {
			continue
		}

		var distance *float64
		if filters.Center != nil && cand.Location != nil {
			d := geo.Distance(*filters.Center, *cand.Location)
			distance = &d
		}
		if filters.RadiusMiles != nil && filters.Center != nil {
			// The bounding box overshoots; the exact distance decides.
			// Records without coordinates cannot satisfy a radius.
			if distance == nil || *distance > *filters.RadiusMiles {
				continue
			}
		}
		scored = append(scored, scoredCandidate[T]{cand: cand, distance: distance})
	}

	sortKey := filters.Sort
	if sortKey == entities.SortDistance && filters.Center == nil {
		sortKey = entities.SortRelevance
	}
	if sortKey == entities.SortDistance {
		// Coordinate-less records have no position in a distance ordering.
		withCoords := scored[:0]
		for _, sc := range scored {
			if sc.distance != nil {
				withCoords = append(withCoords, sc)
			}
		}
		scored = withCoords
	}

	sort.Slice(scored, func(i, j int) bool {
		return lessCandidates(scored[i], scored[j], sortKey)
	})

	page, pageSize := filters.Page, filters.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start > len(scored) {
		start = len(scored)
	}
	end := start + pageSize
	if end > len(scored) {
		end = len(scored)
	}

	results := make([]entities.RankedResult[T], 0, end-start)
	for _, sc := range scored[start:end] {
		results = append(results, entities.RankedResult[T]{
			Record:        sc.cand.Record,
			DistanceMiles: sc.distance,
		})
	}

	return &entities.SearchPage[T]{
		Results:    results,
		TotalCount: len(scored),
		Page:       page,
		PageSize:   pageSize,
	}
}

// matchesFacets applies AND across dimensions, OR within a dimension's
// value set.
func matchesFacets(record, requested map[string][]string) bool {
	for dimension, wanted := range requested {
		if len(wanted) == 0 {
			continue
		}
		have := record[dimension]
		matched := false
		for _, w := range wanted {
			for _, h := range have {
				if w == h {
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func lessCandidates[T any](a, b scoredCandidate[T], key entities.SortKey) bool {
	switch key {
	case entities.SortDistance:
		if *a.distance != *b.distance {
			return *a.distance < *b.distance
		}
	case entities.SortRecency:
		if !a.cand.Recency.Equal(b.cand.Recency) {
			return a.cand.Recency.After(b.cand.Recency)
		}
	case entities.SortSalary:
		as, bs := a.cand.Salary, b.cand.Salary
		switch {
		case as != nil && bs == nil:
			return true
		case as == nil && bs != nil:
			return false
		case as != nil && bs != nil && *as != *bs:
			return *as > *bs
		}
	default:
		if a.cand.Relevance != b.cand.Relevance {
			return a.cand.Relevance > b.cand.Relevance
		}
	}
	if !a.cand.Recency.Equal(b.cand.Recency) {
		return a.cand.Recency.After(b.cand.Recency)
	}
	return a.cand.ID < b.cand.ID
}

// candidateQueryFor pushes the coarse, index-friendly part of the
// filters down to the record store. The state narrowing only applies
// when no center was resolved.
func candidateQueryFor(filters entities.SearchFilters) repositories.CandidateQuery {
	query := repositories.CandidateQuery{
		Facets:      filters.Facets,
		PostedAfter: filters.PostedAfter,
		Limit:       candidateLimit,
	}
	if filters.Center != nil && filters.RadiusMiles != nil {
		box := geo.BoundingBoxAround(*filters.Center, *filters.RadiusMiles)
		query.Box = &box
	} else if filters.Center == nil && filters.State != "" {
		query.State = filters.State
	}
	return query
}

// JobSearchService executes job searches end to end: candidate fetch,
// relevance lookup, ranking, and analytics.
type JobSearchService struct {
	jobs      repositories.JobRepository
	index     repositories.SearchIndexRepository
	analytics *SearchAnalyticsService
}

// NewJobSearchService creates a new job search service. index and
// analytics may be nil; the corresponding steps are skipped.
func NewJobSearchService(jobs repositories.JobRepository, index repositories.SearchIndexRepository, analytics *SearchAnalyticsService) *JobSearchService {
	return &JobSearchService{jobs: jobs, index: index, analytics: analytics}
}

// Search runs the ranking pipeline over job postings. A record-store
// failure is the only hard error; everything else degrades.
func (s *JobSearchService) Search(ctx context.Context, filters entities.SearchFilters) (*entities.SearchPage[*entities.JobPosting], error) {
	jobs, err := s.jobs.FindCandidates(ctx, candidateQueryFor(filters))
	if err != nil {
		return nil, err
	}

	scores, scoresApplied := s.relevanceScores(ctx, filters.Query)

	candidates := make([]Candidate[*entities.JobPosting], 0, len(jobs))
	for _, job := range jobs {
		score, indexed := scores[job.ID]
		if scoresApplied && !indexed {
			continue
		}
		candidates = append(candidates, Candidate[*entities.JobPosting]{
			Record:    job,
			ID:        job.ID,
			Location:  job.Location,
			Recency:   job.PostedAt,
			Salary:    jobSalary(job),
			Relevance: score,
			Facets:    jobFacetValues(job),
		})
	}

	result := rankAndPaginate(candidates, filters)
	s.recordSearch(ctx, filters, result.TotalCount)
	return result, nil
}

// relevanceScores fetches opaque text scores for the query. On index
// failure the query constraint is dropped and all candidates rank with
// relevance zero.
func (s *JobSearchService) relevanceScores(ctx context.Context, query string) (map[string]float64, bool) {
	if query == "" || s.index == nil {
		return nil, false
	}
	scores, err := s.index.JobScores(ctx, query, candidateLimit)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("query", query).Msg("job relevance lookup failed, ranking without text scores")
		return nil, false
	}
	byID := make(map[string]float64, len(scores))
	for _, ts := range scores {
		byID[ts.ID] = ts.Score
	}
	return byID, true
}

func (s *JobSearchService) recordSearch(ctx context.Context, filters entities.SearchFilters, resultCount int) {
	if s.analytics == nil {
		return
	}
	event := &entities.SearchEvent{
		ID:            uuid.NewString(),
		Query:         filters.Query,
		LocationQuery: locationLabel(filters),
		Center:        filters.Center,
		ResultCount:   resultCount,
		CreatedAt:     time.Now().UTC(),
	}
	s.analytics.RecordAsync(context.WithoutCancel(ctx), event)
}

func jobSalary(job *entities.JobPosting) *float64 {
	if job.SalaryMax != nil {
		return job.SalaryMax
	}
	return job.SalaryMin
}

func jobFacetValues(job *entities.JobPosting) map[string][]string {
	return map[string][]string{
		entities.FacetPositionType:   {job.PositionType},
		entities.FacetEmploymentType: {job.EmploymentType},
		entities.FacetRemote:         {strconv.FormatBool(job.Remote)},
		entities.FacetServiceMode:    job.ServiceModes,
	}
}

func locationLabel(filters entities.SearchFilters) string {
	if filters.City != "" && filters.State != "" {
		return filters.City + ", " + filters.State
	}
	if filters.State != "" {
		return filters.State
	}
	return filters.City
}

// ListingSearchService executes provider directory searches with the
// same ranking pipeline as jobs.
type ListingSearchService struct {
	listings  repositories.ListingRepository
	index     repositories.SearchIndexRepository
	analytics *SearchAnalyticsService
}

// NewListingSearchService creates a new listing search service.
func NewListingSearchService(listings repositories.ListingRepository, index repositories.SearchIndexRepository, analytics *SearchAnalyticsService) *ListingSearchService {
	return &ListingSearchService{listings: listings, index: index, analytics: analytics}
}

// Search runs the ranking pipeline over provider listings. Listings
// have no posting timestamp or salary; recency falls back to the last
// update time and salary sorting degrades to the tie-break chain.
func (s *ListingSearchService) Search(ctx context.Context, filters entities.SearchFilters) (*entities.SearchPage[*entities.Listing], error) {
	listings, err := s.listings.FindCandidates(ctx, candidateQueryFor(filters))
	if err != nil {
		return nil, err
	}

	scores, scoresApplied := s.relevanceScores(ctx, filters.Query)

	candidates := make([]Candidate[*entities.Listing], 0, len(listings))
	for _, listing := range listings {
		score, indexed := scores[listing.ID]
		if scoresApplied && !indexed {
			continue
		}
		candidates = append(candidates, Candidate[*entities.Listing]{
			Record:    listing,
			ID:        listing.ID,
			Location:  listing.Location,
			Recency:   listing.UpdatedAt,
			Relevance: score,
			Facets:    listingFacetValues(listing),
		})
	}

	result := rankAndPaginate(candidates, filters)
	s.recordSearch(ctx, filters, result.TotalCount)
	return result, nil
}

func (s *ListingSearchService) relevanceScores(ctx context.Context, query string) (map[string]float64, bool) {
	if query == "" || s.index == nil {
		return nil, false
	}
	scores, err := s.index.ListingScores(ctx, query, candidateLimit)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("query", query).Msg("listing relevance lookup failed, ranking without text scores")
		return nil, false
	}
	byID := make(map[string]float64, len(scores))
	for _, ts := range scores {
		byID[ts.ID] = ts.Score
	}
	return byID, true
}

func (s *ListingSearchService) recordSearch(ctx context.Context, filters entities.SearchFilters, resultCount int) {
	if s.analytics == nil {
		return
	}
	event := &entities.SearchEvent{
		ID:            uuid.NewString(),
		Query:         filters.Query,
		LocationQuery: locationLabel(filters),
		Center:        filters.Center,
		ResultCount:   resultCount,
		CreatedAt:     time.Now().UTC(),
	}
	s.analytics.RecordAsync(context.WithoutCancel(ctx), event)
}

func listingFacetValues(listing *entities.Listing) map[string][]string {
	return map[string][]string{
		entities.FacetInsurance:   lowercaseAll(listing.AcceptedInsurance),
		entities.FacetServiceMode: listing.ServiceModes,
	}
}

func lowercaseAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
