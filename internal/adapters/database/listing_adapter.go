package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/Hashemselim/findabatherapy/internal/domain/entities"
	"github.com/Hashemselim/findabatherapy/internal/domain/repositories"
	"github.com/Hashemselim/findabatherapy/internal/infrastructure/clients/postgres"
	apperrors "github.com/Hashemselim/findabatherapy/pkg/errors"
	"github.com/Hashemselim/findabatherapy/pkg/geo"
)

// ListingAdapter implements ListingRepository on Postgres
type ListingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewListingAdapter creates a new listing adapter
func NewListingAdapter(client *postgres.Client) repositories.ListingRepository {
	return &ListingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var listingColumns = []interface{}{
	"id", "name", "slug", "description", "street", "city", "state", "zip_code",
	"country", "latitude", "longitude", "phone_number", "email", "website",
	"accepted_insurance", "service_modes", "plan_tier", "is_active",
	"created_at", "updated_at",
}

// listingFacetColumns maps request facet dimensions to listing columns.
// Insurance slugs are stored lowercased so the equality is exact.
var listingFacetColumns = map[string]facetColumn{
	entities.FacetInsurance:   {name: "accepted_insurance", array: true},
	entities.FacetServiceMode: {name: "service_modes", array: true},
}

// Create creates a new listing
func (a *ListingAdapter) Create(ctx context.Context, listing *entities.Listing) error {
	query, args, err := a.db.Insert("listings").Rows(listingRecord(listing)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create listing", err)
	}

	return nil
}

// GetByID retrieves a listing by ID
func (a *ListingAdapter) GetByID(ctx context.Context, id string) (*entities.Listing, error) {
	return a.getByField(ctx, "id", id)
}

// GetBySlug retrieves a listing by its URL slug
func (a *ListingAdapter) GetBySlug(ctx context.Context, slug string) (*entities.Listing, error) {
	return a.getByField(ctx, "slug", slug)
}

// GetByIDs retrieves multiple listings by their IDs
func (a *ListingAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Listing, error) {
	if len(ids) == 0 {
		return []*entities.Listing{}, nil
	}

	query, args, err := a.db.Select(listingColumns...).
		From("listings").
		Where(goqu.Ex{"id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryListings(ctx, query, args)
}

// Update updates a listing
func (a *ListingAdapter) Update(ctx context.Context, listing *entities.Listing) error {
	listing.UpdatedAt = time.Now().UTC()

	record := listingRecord(listing)
	delete(record, "id")
	delete(record, "created_at")

	query, args, err := a.db.Update("listings").
		Set(record).
		Where(goqu.Ex{"id": listing.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update listing", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("listing with id %s not found", listing.ID))
	}

	return nil
}

// Deactivate marks a listing inactive (soft delete)
func (a *ListingAdapter) Deactivate(ctx context.Context, id string) error {
	query, args, err := a.db.Update("listings").
		Set(goqu.Record{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to deactivate listing", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("listing with id %s not found", id))
	}

	return nil
}

// List retrieves active listings ordered by creation time
func (a *ListingAdapter) List(ctx context.Context, limit, offset int) ([]*entities.Listing, error) {
	ds := a.db.Select(listingColumns...).
		From("listings").
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.I("created_at").Desc())

	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryListings(ctx, query, args)
}

// FindCandidates runs the coarse prefilter for the ranking engine.
func (a *ListingAdapter) FindCandidates(ctx context.Context, candidateQuery repositories.CandidateQuery) ([]*entities.Listing, error) {
	ds := a.db.Select(listingColumns...).
		From("listings").
		Where(goqu.Ex{"is_active": true})

	ds = applyCandidateQuery(ds, candidateQuery, listingFacetColumns)

	limit := candidateQuery.Limit
	if limit <= 0 {
		limit = 1000
	}
	ds = ds.Order(goqu.I("updated_at").Desc()).Limit(uint(limit))

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build candidate query", err)
	}

	return a.queryListings(ctx, query, args)
}

func (a *ListingAdapter) getByField(ctx context.Context, field, value string) (*entities.Listing, error) {
	query, args, err := a.db.Select(listingColumns...).
		From("listings").
		Where(goqu.Ex{field: value}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	listing, err := scanListing(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("listing with %s %s not found", field, value))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get listing", err)
	}

	return listing, nil
}

func (a *ListingAdapter) queryListings(ctx context.Context, query string, args []interface{}) ([]*entities.Listing, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query listings", err)
	}
	defer rows.Close()

	listings := []*entities.Listing{}
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan listing", err)
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating listings", err)
	}

	return listings, nil
}

func scanListing(row rowScanner) (*entities.Listing, error) {
	listing := &entities.Listing{}
	var lat, lng sql.NullFloat64

	err := row.Scan(
		&listing.ID,
		&listing.Name,
		&listing.Slug,
		&listing.Description,
		&listing.Address.Street,
		&listing.Address.City,
		&listing.Address.State,
		&listing.Address.ZipCode,
		&listing.Address.Country,
		&lat,
		&lng,
		&listing.PhoneNumber,
		&listing.Email,
		&listing.Website,
		pq.Array(&listing.AcceptedInsurance),
		pq.Array(&listing.ServiceModes),
		&listing.PlanTier,
		&listing.IsActive,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lng.Valid {
		listing.Location = &geo.Coordinates{Latitude: lat.Float64, Longitude: lng.Float64}
	}

	return listing, nil
}

func listingRecord(listing *entities.Listing) goqu.Record {
	return goqu.Record{
		"id":                 listing.ID,
		"name":               listing.Name,
		"slug":               listing.Slug,
		"description":        listing.Description,
		"street":             listing.Address.Street,
		"city":               listing.Address.City,
		"state":              listing.Address.State,
		"zip_code":           listing.Address.ZipCode,
		"country":            listing.Address.Country,
		"latitude":           nullFloat(coordinateLat(listing.Location)),
		"longitude":          nullFloat(coordinateLng(listing.Location)),
		"phone_number":       listing.PhoneNumber,
		"email":              listing.Email,
		"website":            listing.Website,
		"accepted_insurance": pq.Array(listing.AcceptedInsurance),
		"service_modes":      pq.Array(listing.ServiceModes),
		"plan_tier":          listing.PlanTier,
		"is_active":          listing.IsActive,
		"created_at":         listing.CreatedAt,
		"updated_at":         listing.UpdatedAt,
	}
}
