package project

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

func (r *PostgresRepo) GetOrCreate(ctx context.Context, projectID, email string) (*Project, error) {
	p := &Project{}
	// The no-op update makes the insert return the existing row on conflict.
	query := `INSERT INTO projects (project_id, email) VALUES ($1, $2)
		ON CONFLICT (project_id, email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, project_id, email, created_at`
	err := r.db.QueryRowContext(ctx, query, projectID, email).
		Scan(&p.ID, &p.ProjectID, &p.Email, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresRepo) ListByEmail(ctx context.Context, email string) ([]Project, error) {
	query := `SELECT id, project_id, email, created_at FROM projects WHERE email = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.Email, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count)
	return count, err
}
