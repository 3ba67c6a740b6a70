package repositories

import (
	"context"

	"github.com/Hashemselim/findabatherapy/internal/domain/entities"
)

// InsuranceRepository defines insurance carrier lookup operations
type InsuranceRepository interface {
	GetBySlug(ctx context.Context, slug string) (*entities.InsuranceProvider, error)
	ListActive(ctx context.Context) ([]*entities.InsuranceProvider, error)
	ListActiveSlugs(ctx context.Context) ([]string, error)
}
