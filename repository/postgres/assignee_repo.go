package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type assigneeRepository struct {
	pool *pgxpool.Pool
}

// NewAssigneeRepository returns a Postgres-backed implementation of AssigneeRepository.
func NewAssigneeRepository(pool *pgxpool.Pool) repository.AssigneeRepository {
	return &assigneeRepository{pool: pool}
}

const assigneeColumns = `id, task_id, staff_id, assigned_by, active, created_at`

func (r *assigneeRepository) ListActiveByTasks(ctx context.Context, taskIDs []string) ([]domain.TaskAssignee, error) {
	taskIDs = dedupe(taskIDs)
	if len(taskIDs) == 0 {
		return nil, nil
	}

	const query = `
	SELECT ` + assigneeColumns + `
	FROM task_assignees
	WHERE task_id = ANY($1) AND active
	ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, taskIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignees []domain.TaskAssignee
	for rows.Next() {
		var a domain.TaskAssignee
		if err := rows.Scan(&a.ID, &a.TaskID, &a.StaffID, &a.AssignedBy, &a.Active, &a.CreatedAt); err != nil {
			return nil, err
		}
		assignees = append(assignees, a)
	}
	return assignees, rows.Err()
}

func (r *assigneeRepository) ListActiveByTask(ctx context.Context, taskID string) ([]domain.TaskAssignee, error) {
	return r.ListActiveByTasks(ctx, []string{taskID})
}

func (r *assigneeRepository) TaskIDsForStaff(ctx context.Context, staffID string) ([]string, error) {
	const query = `
	SELECT task_id FROM task_assignees
	WHERE staff_id = $1 AND active
	`
	rows, err := r.pool.Query(ctx, query, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *assigneeRepository) CountActive(ctx context.Context, taskID string) (int, error) {
	const query = `SELECT COUNT(*) FROM task_assignees WHERE task_id = $1 AND active`
	var count int
	if err := r.pool.QueryRow(ctx, query, taskID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *assigneeRepository) Add(ctx context.Context, assignee *domain.TaskAssignee) error {
	if assignee == nil {
		return domain.ErrInvalidPayload
	}
	if assignee.ID == "" {
		assignee.ID = uuid.NewString()
	}
	assignee.Active = true

	// re-assigning a previously removed member reactivates the old row
	const query = `
	INSERT INTO task_assignees (id, task_id, staff_id, assigned_by, active)
	VALUES ($1, $2, $3, $4, TRUE)
	ON CONFLICT (task_id, staff_id) DO UPDATE
	SET active = TRUE, assigned_by = EXCLUDED.assigned_by
	RETURNING created_at
	`
	return r.pool.QueryRow(ctx, query,
		assignee.ID,
		assignee.TaskID,
		assignee.StaffID,
		assignee.AssignedBy,
	).Scan(&assignee.CreatedAt)
}

func (r *assigneeRepository) Deactivate(ctx context.Context, taskID, staffID string) error {
	const query = `
	UPDATE task_assignees SET active = FALSE
	WHERE task_id = $1 AND staff_id = $2 AND active
	`
	tag, err := r.pool.Exec(ctx, query, taskID, staffID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStaffNotFound
	}
	return nil
}
