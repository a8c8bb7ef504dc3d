package domain

import (
	"testing"
	"time"
)

func TestLoggedHours(t *testing.T) {
	created := date(2025, time.April, 1)
	now := created.Add(90 * time.Minute)

	completedAt := created.Add(2 * time.Hour)
	completed := &Task{Status: StatusCompleted, CreatedAt: created, CompletedAt: &completedAt}
	if got := completed.LoggedHours(now); got != 2.0 {
		t.Errorf("completed task hours = %v, want 2", got)
	}

	inProgress := &Task{Status: StatusInProgress, CreatedAt: created}
	if got := inProgress.LoggedHours(now); got != 1.5 {
		t.Errorf("in-progress task hours = %v, want 1.5", got)
	}

	notStarted := &Task{Status: StatusNotStarted, CreatedAt: created}
	if got := notStarted.LoggedHours(now); got != 0 {
		t.Errorf("not-started task hours = %v, want 0", got)
	}
}

func TestLoggedHoursClampsNegativeSpans(t *testing.T) {
	created := date(2025, time.April, 2)
	skewed := created.Add(-time.Hour)
	task := &Task{Status: StatusCompleted, CreatedAt: created, CompletedAt: &skewed}
	if got := task.LoggedHours(created); got != 0 {
		t.Errorf("clock-skewed task hours = %v, want 0", got)
	}
}

func TestIsProjected(t *testing.T) {
	now := date(2025, time.April, 10)
	future := now.AddDate(0, 0, 3)
	past := now.AddDate(0, 0, -3)

	if !(&Task{Status: StatusNotStarted, StartDate: &future}).IsProjected(now) {
		t.Error("future not-started task should be projected")
	}
	if (&Task{Status: StatusNotStarted, StartDate: &past}).IsProjected(now) {
		t.Error("past start date should not be projected")
	}
	if (&Task{Status: StatusInProgress, StartDate: &future}).IsProjected(now) {
		t.Error("in-progress task should not be projected")
	}
	if (&Task{Status: StatusNotStarted}).IsProjected(now) {
		t.Error("missing start date should not be projected")
	}
}

func TestStaffRole(t *testing.T) {
	if got := (&Staff{}).Role(); got != RoleStaff {
		t.Errorf("role = %q, want staff", got)
	}
	if got := (&Staff{IsManager: true}).Role(); got != RoleManager {
		t.Errorf("role = %q, want manager", got)
	}
	if got := (&Staff{IsManager: true, IsAdmin: true}).Role(); got != RoleAdmin {
		t.Errorf("role = %q, want admin", got)
	}
	if (&Staff{}).CanViewReports() {
		t.Error("plain staff must not view reports")
	}
}
