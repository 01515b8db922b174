package project

import (
	"context"
	"time"
)

// Project groups uploaded assets for one owner. The (ProjectID, Email) pair is
// the user-facing identity; ID is the storage key everything else references.
type Project struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Repository interface {
	GetOrCreate(ctx context.Context, projectID, email string) (*Project, error)
	ListByEmail(ctx context.Context, email string) ([]Project, error)
	Count(ctx context.Context) (int, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetOrCreate resolves the project for (projectID, email), creating it on
// first reference. Projects are never deleted.
func (s *Service) GetOrCreate(ctx context.Context, projectID, email string) (*Project, error) {
	return s.repo.GetOrCreate(ctx, projectID, email)
}

func (s *Service) ListByEmail(ctx context.Context, email string) ([]Project, error) {
	return s.repo.ListByEmail(ctx, email)
}
