package repositories

import (
	"context"

	"github.com/Hashemselim/findabatherapy/internal/domain/entities"
)

// SearchAnalyticsRepository records executed searches for operator
// reporting
type SearchAnalyticsRepository interface {
	Record(ctx context.Context, event *entities.SearchEvent) error
	ZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}
