package asset

import (
	"context"
	"time"

	"github.com/NazzX1/rag-v2/features/project"
)

const TypeFile = "file"

// Asset is the metadata record for one uploaded file, scoped to a project.
// Name is the opaque storage identifier, not the original filename. Assets
// are immutable once created.
type Asset struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, a *Asset) error
	GetForProject(ctx context.Context, projectID, assetID string) (*Asset, error)
	ListByProject(ctx context.Context, projectID, assetType string) ([]Asset, error)
	Count(ctx context.Context) (int, error)
}

type ProjectStore interface {
	GetOrCreate(ctx context.Context, projectID, email string) (*project.Project, error)
}

type Service struct {
	repo     Repository
	projects ProjectStore
}

func NewService(repo Repository, projects ProjectStore) *Service {
	return &Service{repo: repo, projects: projects}
}

// RegisterUpload records an uploaded file against its project, creating the
// project on first reference.
func (s *Service) RegisterUpload(ctx context.Context, projectID, email, name string, size int64) (*Asset, error) {
	p, err := s.projects.GetOrCreate(ctx, projectID, email)
	if err != nil {
		return nil, err
	}

	a := &Asset{
		ProjectID: p.ID,
		Type:      TypeFile,
		Name:      name,
		Size:      size,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}
