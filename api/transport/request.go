package transport

// TaskRequest is the create/update payload for tasks. Dates are ISO
// strings; unparseable values are treated as absent.
type TaskRequest struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Notes           string  `json:"notes"`
	Status          string  `json:"status"`
	Priority        int     `json:"priority"`
	ProjectID       *string `json:"project_id"`
	RepeatFrequency string  `json:"repeat_frequency"`
	StartDate       string  `json:"start_date"`
	DueDate         string  `json:"due_date"`
}

type ProjectRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Priority int    `json:"priority"`
}

type AssignRequest struct {
	StaffID string `json:"staff_id"`
}

type RoleRequest struct {
	IsManager  bool   `json:"is_manager"`
	IsAdmin    bool   `json:"is_admin"`
	Department string `json:"department"`
}

type AuthLoginRequest struct {
	AuthUID string `json:"auth_uid"`
	TTL     int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}
