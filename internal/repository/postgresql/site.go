package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sitecrew/attendance-backend-go/internal/domain/site"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/database"
)

type siteRepository struct {
	db *database.DB
}

const siteColumns = `
	id, company_id, name, external_code, latitude, longitude,
	radius_meters, is_active, deleted_at`

func scanSite(row pgx.Row) (site.Site, error) {
	var s site.Site
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.Name, &s.ExternalCode, &s.Latitude, &s.Longitude,
		&s.RadiusMeters, &s.IsActive, &s.DeletedAt,
	)
	return s, err
}

// GetByID implements site.Repository.
func (r *siteRepository) GetByID(ctx context.Context, id string, companyID string) (site.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + siteColumns + `
		FROM sites
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	s, err := scanSite(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return site.Site{}, site.ErrSiteNotFound
		}
		return site.Site{}, fmt.Errorf("failed to get site: %w", err)
	}

	return s, nil
}

// ListActive implements site.Repository.
func (r *siteRepository) ListActive(ctx context.Context, companyID string) ([]site.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + siteColumns + `
		FROM sites
		WHERE company_id = $1 AND is_active = true AND deleted_at IS NULL
		ORDER BY name
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active sites: %w", err)
	}
	defer rows.Close()

	var sites []site.Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, s)
	}

	return sites, rows.Err()
}

// MapByExternalCode implements site.Repository.
func (r *siteRepository) MapByExternalCode(ctx context.Context, companyID string) (map[string]site.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + siteColumns + `
		FROM sites
		WHERE company_id = $1
		  AND external_code IS NOT NULL
		  AND is_active = true
		  AND deleted_at IS NULL
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to map sites by external code: %w", err)
	}
	defer rows.Close()

	sites := make(map[string]site.Site)
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites[*s.ExternalCode] = s
	}

	return sites, rows.Err()
}

func NewSiteRepository(db *database.DB) site.Repository {
	return &siteRepository{db: db}
}
