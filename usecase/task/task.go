// Package task owns the task lifecycle: CRUD, assignment with the
// five-assignee cap, and completion including the recurrence side effect.
package task

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
	"github.com/taskforge/backend/usecase"
)

type UseCase struct {
	tasks     repository.TaskRepository
	projects  repository.ProjectRepository
	assignees repository.AssigneeRepository
	outbox    usecase.NotificationOutbox
	logger    *zap.Logger
	clock     func() time.Time
}

func New(
	tasks repository.TaskRepository,
	projects repository.ProjectRepository,
	assignees repository.AssigneeRepository,
	outbox usecase.NotificationOutbox,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:     tasks,
		projects:  projects,
		assignees: assignees,
		outbox:    outbox,
		logger:    logger,
		clock:     time.Now,
	}
}

// WithClock overrides the time source for deterministic tests.
func (uc *UseCase) WithClock(clock func() time.Time) *UseCase {
	if clock != nil {
		uc.clock = clock
	}
	return uc
}

func (uc *UseCase) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return uc.tasks.List(ctx, filter)
}

func (uc *UseCase) Get(ctx context.Context, id string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id)
}

func (uc *UseCase) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.Title == "" {
		return nil, domain.ErrInvalidPayload
	}
	return uc.tasks.Create(ctx, task)
}

func (uc *UseCase) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (uc *UseCase) Delete(ctx context.Context, id string) error {
	return uc.tasks.SoftDelete(ctx, id, uc.clock())
}

// Assign adds an active assignee, enforcing the per-task cap at
// assignment time. The assignee gets an in-app notification best-effort.
func (uc *UseCase) Assign(ctx context.Context, taskID, staffID, assignedBy string) error {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	count, err := uc.assignees.CountActive(ctx, taskID)
	if err != nil {
		return domain.WrapDataAccess("counting task assignees", err)
	}
	if count >= domain.MaxAssigneesPerTask {
		return domain.ErrAssigneeLimit
	}

	if err := uc.assignees.Add(ctx, &domain.TaskAssignee{
		TaskID:     taskID,
		StaffID:    staffID,
		AssignedBy: assignedBy,
	}); err != nil {
		return err
	}

	uc.notify(ctx, &domain.Notification{
		StaffID: staffID,
		Type:    domain.NotifyTaskAssigned,
		Message: fmt.Sprintf("You were assigned to %q", task.Title),
		TaskID:  &task.ID,
	})
	return nil
}

// RemoveAssignee deactivates an assignment. Managers and admins may
// always remove; otherwise only the project owner may, and for personal
// tasks only the creator.
func (uc *UseCase) RemoveAssignee(ctx context.Context, actor *domain.Staff, taskID, staffID string) error {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	if !actor.CanViewReports() {
		allowed := false
		if task.ProjectID != nil {
			project, err := uc.projects.GetByID(ctx, *task.ProjectID)
			if err != nil && !domain.IsDomainError(err, domain.ErrCodeNotFound) {
				return domain.WrapDataAccess("resolving task project", err)
			}
			allowed = project.IsOwnedBy(actor.ID)
		} else {
			allowed = task.CreatedBy == actor.ID
		}
		if !allowed {
			return domain.ErrForbidden
		}
	}

	return uc.assignees.Deactivate(ctx, taskID, staffID)
}

// CompletionResult reports what a completion produced. NextTask is set
// only when the task was recurring; AssigneeCopyWarning carries the one
// tolerated partial failure of the recurrence write sequence.
type CompletionResult struct {
	Task                *domain.Task `json:"task"`
	NextTask            *domain.Task `json:"next_task,omitempty"`
	AssigneeCopyWarning string       `json:"assignee_copy_warning,omitempty"`
}

// Complete transitions a task to completed and, for recurring tasks,
// inserts the next occurrence. The original row is never mutated beyond
// its own status and timestamp; the chain only grows forward.
func (uc *UseCase) Complete(ctx context.Context, id string) (*CompletionResult, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.IsCompleted() {
		return &CompletionResult{Task: task}, nil
	}

	now := uc.clock()
	task.Status = domain.StatusCompleted
	task.CompletedAt = &now
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	result := &CompletionResult{Task: task}
	if !task.IsRecurring() {
		return result, nil
	}

	occ := domain.NextOccurrence(task, now)
	next, err := uc.tasks.Create(ctx, domain.NextTask(task, occ))
	if err != nil {
		return nil, domain.WrapDataAccess("creating next occurrence", err)
	}
	result.NextTask = next

	if err := uc.copyAssignees(ctx, task.ID, next.ID); err != nil {
		// tolerated partial failure: the completion and the new
		// occurrence stand, the copy failure is surfaced for visibility
		uc.logger.Error("failed to copy assignees to next occurrence",
			zap.String("task_id", task.ID),
			zap.String("next_task_id", next.ID),
			zap.Error(err))
		result.AssigneeCopyWarning = err.Error()
	}

	uc.notify(ctx, &domain.Notification{
		StaffID: task.CreatedBy,
		Type:    domain.NotifyTaskRecurred,
		Message: fmt.Sprintf("%q was completed and scheduled again", task.Title),
		TaskID:  &next.ID,
	})
	return result, nil
}

func (uc *UseCase) copyAssignees(ctx context.Context, fromTaskID, toTaskID string) error {
	current, err := uc.assignees.ListActiveByTask(ctx, fromTaskID)
	if err != nil {
		return err
	}
	for _, a := range current {
		if err := uc.assignees.Add(ctx, &domain.TaskAssignee{
			TaskID:     toTaskID,
			StaffID:    a.StaffID,
			AssignedBy: a.AssignedBy,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (uc *UseCase) notify(ctx context.Context, n *domain.Notification) {
	if uc.outbox == nil {
		return
	}
	if err := uc.outbox.Publish(ctx, n); err != nil {
		uc.logger.Warn("notification publish failed",
			zap.String("type", n.Type),
			zap.Error(err))
	}
}
