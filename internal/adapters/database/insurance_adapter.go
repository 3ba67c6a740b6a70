package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/Hashemselim/findabatherapy/internal/domain/entities"
	"github.com/Hashemselim/findabatherapy/internal/domain/repositories"
	"github.com/Hashemselim/findabatherapy/internal/infrastructure/clients/postgres"
	apperrors "github.com/Hashemselim/findabatherapy/pkg/errors"
)

// InsuranceAdapter implements InsuranceRepository
type InsuranceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewInsuranceAdapter creates a new insurance adapter
func NewInsuranceAdapter(client *postgres.Client) repositories.InsuranceRepository {
	return &InsuranceAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var insuranceColumns = []interface{}{
	"id", "name", "slug", "is_active", "created_at", "updated_at",
}

// GetBySlug retrieves an insurance carrier by slug
func (a *InsuranceAdapter) GetBySlug(ctx context.Context, slug string) (*entities.InsuranceProvider, error) {
	query, args, err := a.db.Select(insuranceColumns...).
		From("insurance_providers").
		Where(goqu.Ex{"slug": slug}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	provider := &entities.InsuranceProvider{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&provider.ID,
		&provider.Name,
		&provider.Slug,
		&provider.IsActive,
		&provider.CreatedAt,
		&provider.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("insurance provider with slug %s not found", slug))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get insurance provider", err)
	}

	return provider, nil
}

// ListActive retrieves all active insurance carriers ordered by name
func (a *InsuranceAdapter) ListActive(ctx context.Context) ([]*entities.InsuranceProvider, error) {
	query, args, err := a.db.Select(insuranceColumns...).
		From("insurance_providers").
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list insurance providers", err)
	}
	defer rows.Close()

	var providers []*entities.InsuranceProvider
	for rows.Next() {
		provider := &entities.InsuranceProvider{}
		err := rows.Scan(
			&provider.ID,
			&provider.Name,
			&provider.Slug,
			&provider.IsActive,
			&provider.CreatedAt,
			&provider.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan insurance provider", err)
		}
		providers = append(providers, provider)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating insurance providers", err)
	}

	return providers, nil
}

// ListActiveSlugs retrieves the slugs of all active carriers, used by
// the filter compiler to validate the insurance facet
func (a *InsuranceAdapter) ListActiveSlugs(ctx context.Context) ([]string, error) {
	query, args, err := a.db.Select("slug").
		From("insurance_providers").
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.I("slug").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list insurance slugs", err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, apperrors.NewInternalError("failed to scan insurance slug", err)
		}
		slugs = append(slugs, slug)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating insurance slugs", err)
	}

	return slugs, nil
}
