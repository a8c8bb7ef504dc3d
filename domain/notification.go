package domain

import "time"

// Notification types raised by task events.
const (
	NotifyTaskAssigned  = "task_assigned"
	NotifyTaskCompleted = "task_completed"
	NotifyTaskRecurred  = "task_recurred"
)

// Notification is an in-app message for a staff member. Delivery to
// external channels is out of scope; rows are created and queried only.
type Notification struct {
	ID        string     `json:"id"`
	StaffID   string     `json:"staff_id"`
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	TaskID    *string    `json:"task_id,omitempty"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
