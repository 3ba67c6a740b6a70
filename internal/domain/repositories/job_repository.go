package repositories

import (
	"context"
	"time"

	"github.com/Hashemselim/findabatherapy/internal/domain/entities"
	"github.com/Hashemselim/findabatherapy/pkg/geo"
)

// CandidateQuery is the coarse prefilter the ranking engine pushes down
// to the record store. The bounding box may overshoot the true search
// circle; the engine re-filters with exact distances.
type CandidateQuery struct {
	Box         *geo.BoundingBox
	State       string
	Facets      map[string][]string
	PostedAfter *time.Time
	Limit       int
}

// JobRepository defines job posting persistence operations
type JobRepository interface {
	Create(ctx context.Context, job *entities.JobPosting) error
	GetByID(ctx context.Context, id string) (*entities.JobPosting, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entities.JobPosting, error)
	Update(ctx context.Context, job *entities.JobPosting) error
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entities.JobPosting, error)
	FindCandidates(ctx context.Context, query CandidateQuery) ([]*entities.JobPosting, error)
}
