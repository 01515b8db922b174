package asset

import (
	"context"
	"database/sql"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Create(ctx context.Context, a *Asset) error {
	query := `INSERT INTO assets (project_id, asset_type, name, size) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, a.ProjectID, a.Type, a.Name, a.Size).
		Scan(&a.ID, &a.CreatedAt)
}

// GetForProject fetches an asset only when it belongs to the given project;
// a matching asset owned by another project yields sql.ErrNoRows.
func (r *PostgresRepo) GetForProject(ctx context.Context, projectID, assetID string) (*Asset, error) {
	a := &Asset{}
	query := `SELECT id, project_id, asset_type, name, size, created_at FROM assets WHERE id = $1 AND project_id = $2`
	err := r.db.QueryRowContext(ctx, query, assetID, projectID).
		Scan(&a.ID, &a.ProjectID, &a.Type, &a.Name, &a.Size, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *PostgresRepo) ListByProject(ctx context.Context, projectID, assetType string) ([]Asset, error) {
	query := `SELECT id, project_id, asset_type, name, size, created_at FROM assets WHERE project_id = $1 AND asset_type = $2 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, projectID, assetType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []Asset
	for rows.Next() {
		var a Asset
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.Type, &a.Name, &a.Size, &a.CreatedAt); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assets`).Scan(&count)
	return count, err
}
