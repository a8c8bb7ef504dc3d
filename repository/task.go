package repository

import (
	"context"
	"time"

	"github.com/taskforge/backend/domain"
)

// TaskFilter narrows task reads. Zero values mean "no constraint".
// CreatedFrom is inclusive, CreatedBefore exclusive; callers expressing a
// whole-day end advance the end date by one day and use CreatedBefore.
// Unbounded disables the row cap entirely; aggregations set it because a
// truncated result set would skew their metrics without any error.
type TaskFilter struct {
	ProjectID      string
	Status         string
	CreatedBy      string
	CreatedFrom    *time.Time
	CreatedBefore  *time.Time
	IncludeDeleted bool
	Unbounded      bool
	Limit          int
	Offset         int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}
