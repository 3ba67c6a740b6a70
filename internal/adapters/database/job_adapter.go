package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/Hashemselim/findabatherapy/internal/domain/entities"
	"github.com/Hashemselim/findabatherapy/internal/domain/repositories"
	"github.com/Hashemselim/findabatherapy/internal/infrastructure/clients/postgres"
	apperrors "github.com/Hashemselim/findabatherapy/pkg/errors"
	"github.com/Hashemselim/findabatherapy/pkg/geo"
)

// JobAdapter implements JobRepository on Postgres
type JobAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewJobAdapter creates a new job posting adapter
func NewJobAdapter(client *postgres.Client) repositories.JobRepository {
	return &JobAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var jobColumns = []interface{}{
	"id", "listing_id", "title", "description", "position_type", "employment_type",
	"remote", "service_modes", "city", "state", "zip_code", "latitude", "longitude",
	"salary_min", "salary_max", "is_active", "posted_at", "updated_at",
}

// Create creates a new job posting
func (a *JobAdapter) Create(ctx context.Context, job *entities.JobPosting) error {
	query, args, err := a.db.Insert("job_postings").Rows(jobRecord(job)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create job posting", err)
	}

	return nil
}

// GetByID retrieves a job posting by ID
func (a *JobAdapter) GetByID(ctx context.Context, id string) (*entities.JobPosting, error) {
	query, args, err := a.db.Select(jobColumns...).
		From("job_postings").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	job, err := scanJob(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("job posting with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get job posting", err)
	}

	return job, nil
}

// GetByIDs retrieves multiple job postings by their IDs
func (a *JobAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.JobPosting, error) {
	if len(ids) == 0 {
		return []*entities.JobPosting{}, nil
	}

	query, args, err := a.db.Select(jobColumns...).
		From("job_postings").
		Where(goqu.Ex{"id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryJobs(ctx, query, args)
}

// Update updates a job posting
func (a *JobAdapter) Update(ctx context.Context, job *entities.JobPosting) error {
	job.UpdatedAt = time.Now().UTC()

	record := jobRecord(job)
	delete(record, "id")
	delete(record, "posted_at")

	query, args, err := a.db.Update("job_postings").
		Set(record).
		Where(goqu.Ex{"id": job.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update job posting", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("job posting with id %s not found", job.ID))
	}

	return nil
}

// Deactivate marks a job posting inactive (soft delete)
func (a *JobAdapter) Deactivate(ctx context.Context, id string) error {
	query, args, err := a.db.Update("job_postings").
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
		return apperrors.NewInternalError("failed to deactivate job posting", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("job posting with id %s not found", id))
	}

	return nil
}

// List retrieves active job postings ordered by posting time
func (a *JobAdapter) List(ctx context.Context, limit, offset int) ([]*entities.JobPosting, error) {
	ds := a.db.Select(jobColumns...).
		From("job_postings").
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.I("posted_at").Desc())

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

	return a.queryJobs(ctx, query, args)
}

// FindCandidates runs the coarse prefilter for the ranking engine. The
// bounding box comparison is plain column ranges so it stays on the
// (latitude, longitude) index.
func (a *JobAdapter) FindCandidates(ctx context.Context, candidateQuery repositories.CandidateQuery) ([]*entities.JobPosting, error) {
	ds := a.db.Select(jobColumns...).
		From("job_postings").
		Where(goqu.Ex{"is_active": true})

	ds = applyCandidateQuery(ds, candidateQuery, jobFacetColumns)

	if candidateQuery.PostedAfter != nil {
		ds = ds.Where(goqu.I("posted_at").Gte(*candidateQuery.PostedAfter))
	}

	limit := candidateQuery.Limit
	if limit <= 0 {
		limit = 1000
	}
	ds = ds.Order(goqu.I("posted_at").Desc()).Limit(uint(limit))

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build candidate query", err)
	}

	return a.queryJobs(ctx, query, args)
}

func (a *JobAdapter) queryJobs(ctx context.Context, query string, args []interface{}) ([]*entities.JobPosting, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query job postings", err)
	}
	defer rows.Close()

	jobs := []*entities.JobPosting{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan job posting", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating job postings", err)
	}

	return jobs, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*entities.JobPosting, error) {
	job := &entities.JobPosting{}
	var lat, lng, salaryMin, salaryMax sql.NullFloat64

	err := row.Scan(
		&job.ID,
		&job.ListingID,
		&job.Title,
		&job.Description,
		&job.PositionType,
		&job.EmploymentType,
		&job.Remote,
		pq.Array(&job.ServiceModes),
		&job.City,
		&job.State,
		&job.ZipCode,
		&lat,
		&lng,
		&salaryMin,
		&salaryMax,
		&job.IsActive,
		&job.PostedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lng.Valid {
		job.Location = &geo.Coordinates{Latitude: lat.Float64, Longitude: lng.Float64}
	}
	if salaryMin.Valid {
		job.SalaryMin = &salaryMin.Float64
	}
	if salaryMax.Valid {
		job.SalaryMax = &salaryMax.Float64
	}

	return job, nil
}

func jobRecord(job *entities.JobPosting) goqu.Record {
	record := goqu.Record{
		"id":              job.ID,
		"listing_id":      job.ListingID,
		"title":           job.Title,
		"description":     job.Description,
		"position_type":   job.PositionType,
		"employment_type": job.EmploymentType,
		"remote":          job.Remote,
		"service_modes":   pq.Array(job.ServiceModes),
		"city":            job.City,
		"state":           job.State,
		"zip_code":        job.ZipCode,
		"latitude":        nullFloat(coordinateLat(job.Location)),
		"longitude":       nullFloat(coordinateLng(job.Location)),
		"salary_min":      nullFloat(job.SalaryMin),
		"salary_max":      nullFloat(job.SalaryMax),
		"is_active":       job.IsActive,
		"posted_at":       job.PostedAt,
		"updated_at":      job.UpdatedAt,
	}
	return record
}

// jobFacetColumns maps request facet dimensions to job posting columns.
var jobFacetColumns = map[string]facetColumn{
	entities.FacetPositionType:   {name: "position_type"},
	entities.FacetEmploymentType: {name: "employment_type"},
	entities.FacetRemote:         {name: "remote", boolean: true},
	entities.FacetServiceMode:    {name: "service_modes", array: true},
}

type facetColumn struct {
	name    string
	boolean bool
	array   bool
}

// applyCandidateQuery translates the engine's coarse prefilter into
// WHERE clauses shared by the job and listing adapters.
func applyCandidateQuery(ds *goqu.SelectDataset, q repositories.CandidateQuery, facetColumns map[string]facetColumn) *goqu.SelectDataset {
	if q.Box != nil {
		ds = ds.Where(
			goqu.I("latitude").IsNotNull(),
			goqu.I("latitude").Between(goqu.Range(q.Box.MinLat, q.Box.MaxLat)),
			goqu.I("longitude").Between(goqu.Range(q.Box.MinLng, q.Box.MaxLng)),
		)
	}
	if q.State != "" {
		ds = ds.Where(goqu.Ex{"state": q.State})
	}

	for dimension, values := range q.Facets {
		if len(values) == 0 {
			continue
		}
		column, ok := facetColumns[dimension]
		if !ok {
			continue
		}
		switch {
		case column.array:
			ds = ds.Where(goqu.L(column.name+" && ?", pq.Array(values)))
		case column.boolean:
			// Multiple values for a boolean dimension filter nothing.
			if len(values) == 1 {
				ds = ds.Where(goqu.Ex{column.name: values[0] == "true"})
			}
		default:
			ds = ds.Where(goqu.Ex{column.name: values})
		}
	}

	return ds
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func coordinateLat(c *geo.Coordinates) *float64 {
	if c == nil {
		return nil
	}
	return &c.Latitude
}

func coordinateLng(c *geo.Coordinates) *float64 {
	if c == nil {
		return nil
	}
	return &c.Longitude
}
