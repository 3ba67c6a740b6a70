package search

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/Hashemselim/findabatherapy/internal/domain/entities"
	"github.com/Hashemselim/findabatherapy/internal/domain/repositories"
	tsclient "github.com/Hashemselim/findabatherapy/internal/infrastructure/clients/typesense"
)

const (
	jobsCollection     = "job_postings"
	listingsCollection = "listings"
)

// TypesenseAdapter implements SearchIndexRepository. It only answers
// relevance questions; records themselves stay in Postgres.
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.SearchIndexRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures both collections exist
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	if err := a.ensureCollection(ctx, jobsSchema()); err != nil {
		return err
	}
	return a.ensureCollection(ctx, listingsSchema())
}

func (a *TypesenseAdapter) ensureCollection(ctx context.Context, schema *api.CollectionSchema) error {
	_, err := a.client.Client().Collection(schema.Name).Retrieve(ctx)
	if err == nil {
		return nil
	}

	if _, err := a.client.Client().Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create typesense collection %s: %w", schema.Name, err)
	}
	return nil
}

func jobsSchema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: jobsCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "title", Type: "string"},
			{Name: "description", Type: "string"},
			{Name: "position_type", Type: "string", Facet: pointer.True()},
			{Name: "city", Type: "string"},
			{Name: "state", Type: "string", Facet: pointer.True()},
			{Name: "is_active", Type: "bool"},
			{Name: "posted_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("posted_at"),
	}
}

func listingsSchema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: listingsCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "description", Type: "string"},
			{Name: "city", Type: "string"},
			{Name: "state", Type: "string", Facet: pointer.True()},
			{Name: "is_active", Type: "bool"},
			{Name: "updated_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("updated_at"),
	}
}

// IndexJob upserts one job posting document
func (a *TypesenseAdapter) IndexJob(ctx context.Context, job *entities.JobPosting) error {
	document := map[string]interface{}{
		"id":            job.ID,
		"title":         job.Title,
		"description":   job.Description,
		"position_type": job.PositionType,
		"city":          job.City,
		"state":         job.State,
		"is_active":     job.IsActive,
		"posted_at":     job.PostedAt.Unix(),
	}

	if _, err := a.client.Client().Collection(jobsCollection).Documents().Upsert(ctx, document); err != nil {
		return fmt.Errorf("failed to index job posting: %w", err)
	}
	return nil
}

// DeleteJob removes a job posting from the index
func (a *TypesenseAdapter) DeleteJob(ctx context.Context, id string) error {
	if _, err := a.client.Client().Collection(jobsCollection).Document(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete job posting from index: %w", err)
	}
	return nil
}

// JobScores returns relevance scores for job postings matching the query
func (a *TypesenseAdapter) JobScores(ctx context.Context, query string, limit int) ([]repositories.TextScore, error) {
	return a.scores(ctx, jobsCollection, "title,description,city", query, limit)
}

// IndexListing upserts one listing document
func (a *TypesenseAdapter) IndexListing(ctx context.Context, listing *entities.Listing) error {
	document := map[string]interface{}{
		"id":          listing.ID,
		"name":        listing.Name,
		"description": listing.Description,
		"city":        listing.Address.City,
		"state":       listing.Address.State,
		"is_active":   listing.IsActive,
		"updated_at":  listing.UpdatedAt.Unix(),
	}

	if _, err := a.client.Client().Collection(listingsCollection).Documents().Upsert(ctx, document); err != nil {
		return fmt.Errorf("failed to index listing: %w", err)
	}
	return nil
}

// DeleteListing removes a listing from the index
func (a *TypesenseAdapter) DeleteListing(ctx context.Context, id string) error {
	if _, err := a.client.Client().Collection(listingsCollection).Document(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete listing from index: %w", err)
	}
	return nil
}

// ListingScores returns relevance scores for listings matching the query
func (a *TypesenseAdapter) ListingScores(ctx context.Context, query string, limit int) ([]repositories.TextScore, error) {
	return a.scores(ctx, listingsCollection, "name,description,city", query, limit)
}

func (a *TypesenseAdapter) scores(ctx context.Context, collection, queryBy, query string, limit int) ([]repositories.TextScore, error) {
	if limit <= 0 || limit > 250 {
		limit = 250
	}

	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String(query),
		QueryBy:  pointer.String(queryBy),
		FilterBy: pointer.String("is_active:=true"),
		PerPage:  pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(collection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", collection, err)
	}

	scores := []repositories.TextScore{}
	if result.Hits == nil {
		return scores, nil
	}

	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		doc := *hit.Document
		id, ok := doc["id"].(string)
		if !ok {
			continue
		}
		score := repositories.TextScore{ID: id}
		if hit.TextMatch != nil {
			score.Score = float64(*hit.TextMatch)
		}
		scores = append(scores, score)
	}

	return scores, nil
}
