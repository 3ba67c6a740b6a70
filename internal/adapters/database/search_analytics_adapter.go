package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/Hashemselim/findabatherapy/internal/domain/entities"
	"github.com/Hashemselim/findabatherapy/internal/domain/repositories"
	"github.com/Hashemselim/findabatherapy/internal/infrastructure/clients/postgres"
	apperrors "github.com/Hashemselim/findabatherapy/pkg/errors"
	"github.com/Hashemselim/findabatherapy/pkg/geo"
)

// SearchAnalyticsAdapter implements SearchAnalyticsRepository
type SearchAnalyticsAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSearchAnalyticsAdapter creates a new search analytics adapter
func NewSearchAnalyticsAdapter(client *postgres.Client) repositories.SearchAnalyticsRepository {
	return &SearchAnalyticsAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Record persists one executed search
func (a *SearchAnalyticsAdapter) Record(ctx context.Context, event *entities.SearchEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	record := goqu.Record{
		"id":             event.ID,
		"query":          sql.NullString{String: event.Query, Valid: event.Query != ""},
		"location_query": sql.NullString{String: event.LocationQuery, Valid: event.LocationQuery != ""},
		"latitude":       nullFloat(coordinateLat(event.Center)),
		"longitude":      nullFloat(coordinateLng(event.Center)),
		"result_count":   event.ResultCount,
		"created_at":     event.CreatedAt,
	}

	query, args, err := a.db.Insert("search_events").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to record search event", err)
	}

	return nil
}

// ZeroResultQueries retrieves recent searches that returned nothing
func (a *SearchAnalyticsAdapter) ZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	query, args, err := a.db.Select(
		"id", "query", "location_query", "latitude", "longitude",
		"result_count", "created_at",
	).From("search_events").
		Where(goqu.Ex{"result_count": 0}).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query search events", err)
	}
	defer rows.Close()

	var events []*entities.SearchEvent
	for rows.Next() {
		event := &entities.SearchEvent{}
		var searchQuery, locationQuery sql.NullString
		var lat, lng sql.NullFloat64

		err := rows.Scan(
			&event.ID,
			&searchQuery,
			&locationQuery,
			&lat,
			&lng,
			&event.ResultCount,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan search event", err)
		}

		event.Query = searchQuery.String
		event.LocationQuery = locationQuery.String
		if lat.Valid && lng.Valid {
			event.Center = &geo.Coordinates{Latitude: lat.Float64, Longitude: lng.Float64}
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating search events", err)
	}

	return events, nil
}
