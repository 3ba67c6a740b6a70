package repositories

import (
	"context"

	"github.com/Hashemselim/findabatherapy/internal/domain/entities"
)

// ListingRepository defines provider listing persistence operations
type ListingRepository interface {
	Create(ctx context.Context, listing *entities.Listing) error
	GetByID(ctx context.Context, id string) (*entities.Listing, error)
	GetBySlug(ctx context.Context, slug string) (*entities.Listing, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Listing, error)
	Update(ctx context.Context, listing *entities.Listing) error
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entities.Listing, error)
	FindCandidates(ctx context.Context, query CandidateQuery) ([]*entities.Listing, error)
}
