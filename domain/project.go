package domain

import "time"

// Project groups tasks under an owner.
type Project struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	OwnerID   string     `json:"owner_id"`
	Status    string     `json:"status"`
	Priority  int        `json:"priority"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// IsOwnedBy reports whether the given staff member owns the project.
func (p *Project) IsOwnedBy(staffID string) bool {
	return p != nil && p.OwnerID == staffID
}
