package repository

import (
	"context"

	"github.com/taskforge/backend/domain"
)

type StaffRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Staff, error)
	// GetByAuthUID resolves an external identity to its staff row.
	GetByAuthUID(ctx context.Context, authUID string) (*domain.Staff, error)
	// GetByIDs returns staff rows keyed by id for batched enrichment.
	GetByIDs(ctx context.Context, ids []string) (map[string]domain.Staff, error)
	List(ctx context.Context) ([]domain.Staff, error)
	Create(ctx context.Context, staff *domain.Staff) (*domain.Staff, error)
	Update(ctx context.Context, staff *domain.Staff) error
}
