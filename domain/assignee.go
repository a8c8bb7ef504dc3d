package domain

import "time"

// MaxAssigneesPerTask caps how many active assignees a task may carry.
// Enforced at assignment time, not in the data model.
const MaxAssigneesPerTask = 5

// TaskAssignee maps a task to an assigned staff member.
type TaskAssignee struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"task_id"`
	StaffID    string    `json:"staff_id"`
	AssignedBy string    `json:"assigned_by"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// AssigneeView is the enriched shape reports attach to each task row.
type AssigneeView struct {
	StaffID  string `json:"staff_id"`
	FullName string `json:"full_name"`
}
