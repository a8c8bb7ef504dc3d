package domain

import "time"

// Task statuses. A task is always in exactly one of these.
const (
	StatusNotStarted = "not-started"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusBlocked    = "blocked"
)

// Repeat frequencies for recurring tasks.
const (
	RepeatNever   = "never"
	RepeatDaily   = "daily"
	RepeatWeekly  = "weekly"
	RepeatMonthly = "monthly"
	RepeatYearly  = "yearly"
)

// Task represents a unit of work, optionally attached to a project and
// optionally part of a recurrence chain via ParentTaskID.
type Task struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Notes           string     `json:"notes,omitempty"`
	Status          string     `json:"status"`
	Priority        int        `json:"priority"`
	ProjectID       *string    `json:"project_id,omitempty"`
	CreatedBy       string     `json:"created_by"`
	ParentTaskID    *string    `json:"parent_task_id,omitempty"`
	RepeatFrequency string     `json:"repeat_frequency"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// IsRecurring reports whether completing the task should spawn a next occurrence.
func (t *Task) IsRecurring() bool {
	if t == nil {
		return false
	}
	return t.RepeatFrequency != "" && t.RepeatFrequency != RepeatNever
}

// RecurrenceRoot returns the id linking the whole recurring series:
// the task's parent when it has one, otherwise the task itself.
func (t *Task) RecurrenceRoot() string {
	if t.ParentTaskID != nil && *t.ParentTaskID != "" {
		return *t.ParentTaskID
	}
	return t.ID
}

// LoggedHours derives the hours spent on the task at the given instant.
// Completed tasks report completed_at - created_at, in-progress tasks
// report now - created_at, everything else reports zero. The value is
// never persisted; two report runs over an in-progress task will differ.
// Negative spans (completed_at before created_at) are clamped to zero.
func (t *Task) LoggedHours(now time.Time) float64 {
	if t == nil {
		return 0
	}
	var span time.Duration
	switch t.Status {
	case StatusCompleted:
		if t.CompletedAt == nil {
			return 0
		}
		span = t.CompletedAt.Sub(t.CreatedAt)
	case StatusInProgress:
		span = now.Sub(t.CreatedAt)
	default:
		return 0
	}
	if span < 0 {
		return 0
	}
	return span.Hours()
}

// IsProjected reports whether the task counts as projected work:
// not yet started with a start date still in the future.
func (t *Task) IsProjected(now time.Time) bool {
	if t == nil || t.Status != StatusNotStarted {
		return false
	}
	return t.StartDate != nil && t.StartDate.After(now)
}
