package repositories

import (
	"context"

	"github.com/Hashemselim/findabatherapy/internal/domain/entities"
)

// TextScore is an opaque relevance score for one indexed record.
type TextScore struct {
	ID    string
	Score float64
}

// SearchIndexRepository provides full-text relevance over indexed
// records. Scores are opaque; the ranking engine only orders by them.
type SearchIndexRepository interface {
	InitSchema(ctx context.Context) error

	IndexJob(ctx context.Context, job *entities.JobPosting) error
	DeleteJob(ctx context.Context, id string) error
	JobScores(ctx context.Context, query string, limit int) ([]TextScore, error)

	IndexListing(ctx context.Context, listing *entities.Listing) error
	DeleteListing(ctx context.Context, id string) error
	ListingScores(ctx context.Context, query string, limit int) ([]TextScore, error)
}
