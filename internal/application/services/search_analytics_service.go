package services

import (
	"context"
	"time"

	"github.com/Hashemselim/findabatherapy/internal/domain/entities"
	"github.com/Hashemselim/findabatherapy/internal/domain/repositories"
	"github.com/Hashemselim/findabatherapy/internal/infrastructure/observability"
)

const analyticsWriteTimeout = 2 * time.Second

// SearchAnalyticsService records executed searches off the request
// path. A dropped event only costs a report row, never a search.
type SearchAnalyticsService struct {
	repo repositories.SearchAnalyticsRepository
}

// NewSearchAnalyticsService creates a new search analytics service.
func NewSearchAnalyticsService(repo repositories.SearchAnalyticsRepository) *SearchAnalyticsService {
	return &SearchAnalyticsService{repo: repo}
}

// RecordAsync persists the event on a background goroutine. The caller
// passes a context already detached from request cancellation.
func (s *SearchAnalyticsService) RecordAsync(ctx context.Context, event *entities.SearchEvent) {
	if s == nil || s.repo == nil || event == nil {
		return
	}
	go func() {
		writeCtx, cancel := context.WithTimeout(ctx, analyticsWriteTimeout)
		defer cancel()
		if err := s.repo.Record(writeCtx, event); err != nil {
			observability.LoggerFromContext(writeCtx).Warn().Err(err).Str("query", event.Query).Msg("failed to record search event")
		}
	}()
}

// ZeroResultQueries returns recent searches that produced no results,
// for content-gap reporting.
func (s *SearchAnalyticsService) ZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.ZeroResultQueries(ctx, limit)
}
