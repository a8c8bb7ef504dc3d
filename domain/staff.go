package domain

import "time"

// Role names derived from the staff flags.
const (
	RoleStaff   = "staff"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// Staff represents an internal team member linked to an external auth identity.
type Staff struct {
	ID         string     `json:"id"`
	FullName   string     `json:"full_name"`
	AuthUID    string     `json:"auth_uid"`
	Department string     `json:"department,omitempty"`
	IsManager  bool       `json:"is_manager"`
	IsAdmin    bool       `json:"is_admin"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// Role collapses the flag pair into a single role name, admin winning.
func (s *Staff) Role() string {
	switch {
	case s == nil:
		return RoleStaff
	case s.IsAdmin:
		return RoleAdmin
	case s.IsManager:
		return RoleManager
	default:
		return RoleStaff
	}
}

// CanViewReports reports whether the member may run aggregation reports.
func (s *Staff) CanViewReports() bool {
	return s != nil && (s.IsManager || s.IsAdmin)
}
