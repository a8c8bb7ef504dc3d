package repository

import (
	"context"
	"time"

	"github.com/taskforge/backend/domain"
)

type ProjectFilter struct {
	OwnerID string
	Status  string
	Limit   int
	Offset  int
}

type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// GetByIDs returns non-deleted projects keyed by id; missing ids are
	// simply absent from the map. Reports use this for batched enrichment.
	GetByIDs(ctx context.Context, ids []string) (map[string]domain.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]domain.Project, error)
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}
