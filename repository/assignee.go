package repository

import (
	"context"

	"github.com/taskforge/backend/domain"
)

type AssigneeRepository interface {
	// ListActiveByTasks returns active assignment rows for all the given
	// tasks in one round trip, for report enrichment.
	ListActiveByTasks(ctx context.Context, taskIDs []string) ([]domain.TaskAssignee, error)
	ListActiveByTask(ctx context.Context, taskID string) ([]domain.TaskAssignee, error)
	// TaskIDsForStaff returns ids of tasks the member is actively assigned to.
	TaskIDsForStaff(ctx context.Context, staffID string) ([]string, error)
	CountActive(ctx context.Context, taskID string) (int, error)
	Add(ctx context.Context, assignee *domain.TaskAssignee) error
	Deactivate(ctx context.Context, taskID, staffID string) error
}
