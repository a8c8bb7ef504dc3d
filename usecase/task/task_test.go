package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type memTaskRepo struct {
	tasks     map[string]*domain.Task
	createErr error
}

func newMemTaskRepo(tasks ...*domain.Task) *memTaskRepo {
	r := &memTaskRepo{tasks: make(map[string]*domain.Task)}
	for _, t := range tasks {
		r.tasks[t.ID] = t
	}
	return r
}

func (r *memTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	if t, ok := r.tasks[id]; ok && t.DeletedAt == nil {
		return t, nil
	}
	return nil, domain.ErrTaskNotFound
}

func (r *memTaskRepo) List(context.Context, repository.TaskFilter) ([]domain.Task, error) {
	return nil, nil
}

func (r *memTaskRepo) Create(_ context.Context, t *domain.Task) (*domain.Task, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if t.ID == "" {
		t.ID = "generated-" + t.Title
	}
	r.tasks[t.ID] = t
	return t, nil
}

func (r *memTaskRepo) Update(_ context.Context, t *domain.Task) error {
	if _, ok := r.tasks[t.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	r.tasks[t.ID] = t
	return nil
}

func (r *memTaskRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	t, ok := r.tasks[id]
	if !ok || t.DeletedAt != nil {
		return domain.ErrTaskNotFound
	}
	t.DeletedAt = &at
	return nil
}

type memAssigneeRepo struct {
	rows   []domain.TaskAssignee
	addErr error
}

func (r *memAssigneeRepo) ListActiveByTasks(_ context.Context, taskIDs []string) ([]domain.TaskAssignee, error) {
	var out []domain.TaskAssignee
	for _, row := range r.rows {
		for _, id := range taskIDs {
			if row.Active && row.TaskID == id {
				out = append(out, row)
			}
		}
	}
	return out, nil
}

func (r *memAssigneeRepo) ListActiveByTask(ctx context.Context, taskID string) ([]domain.TaskAssignee, error) {
	return r.ListActiveByTasks(ctx, []string{taskID})
}

func (r *memAssigneeRepo) TaskIDsForStaff(context.Context, string) ([]string, error) {
	return nil, nil
}

func (r *memAssigneeRepo) CountActive(ctx context.Context, taskID string) (int, error) {
	rows, _ := r.ListActiveByTask(ctx, taskID)
	return len(rows), nil
}

func (r *memAssigneeRepo) Add(_ context.Context, a *domain.TaskAssignee) error {
	if r.addErr != nil {
		return r.addErr
	}
	a.Active = true
	r.rows = append(r.rows, *a)
	return nil
}

func (r *memAssigneeRepo) Deactivate(_ context.Context, taskID, staffID string) error {
	for i := range r.rows {
		if r.rows[i].TaskID == taskID && r.rows[i].StaffID == staffID {
			r.rows[i].Active = false
			return nil
		}
	}
	return domain.ErrStaffNotFound
}

type memProjectRepo struct {
	projects map[string]*domain.Project
}

func (r *memProjectRepo) GetByID(_ context.Context, id string) (*domain.Project, error) {
	if p, ok := r.projects[id]; ok {
		return p, nil
	}
	return nil, domain.ErrProjectNotFound
}

func (r *memProjectRepo) GetByIDs(context.Context, []string) (map[string]domain.Project, error) {
	return nil, nil
}

func (r *memProjectRepo) List(context.Context, repository.ProjectFilter) ([]domain.Project, error) {
	return nil, nil
}

func (r *memProjectRepo) Create(_ context.Context, p *domain.Project) (*domain.Project, error) {
	return p, nil
}

func (r *memProjectRepo) Update(context.Context, *domain.Project) error { return nil }

func (r *memProjectRepo) SoftDelete(context.Context, string, time.Time) error { return nil }

type memOutbox struct {
	published []domain.Notification
	err       error
}

func (o *memOutbox) Publish(_ context.Context, n *domain.Notification) error {
	if o.err != nil {
		return o.err
	}
	o.published = append(o.published, *n)
	return nil
}

var testNow = time.Date(2025, time.February, 1, 9, 0, 0, 0, time.UTC)

func newTestUseCase(tasks *memTaskRepo, assignees *memAssigneeRepo, outbox *memOutbox) *UseCase {
	if assignees == nil {
		assignees = &memAssigneeRepo{}
	}
	projects := &memProjectRepo{projects: map[string]*domain.Project{}}
	var port *memOutbox
	if outbox != nil {
		port = outbox
	}
	uc := New(tasks, projects, assignees, nil, nil).WithClock(func() time.Time { return testNow })
	if port != nil {
		uc.outbox = port
	}
	return uc
}

func recurring(id, freq string, start, due time.Time) *domain.Task {
	return &domain.Task{
		ID:              id,
		Title:           "weekly sync",
		Status:          domain.StatusInProgress,
		CreatedBy:       "s1",
		RepeatFrequency: freq,
		StartDate:       &start,
		DueDate:         &due,
		CreatedAt:       testNow.AddDate(0, 0, -7),
	}
}

func TestCompleteNonRecurringTask(t *testing.T) {
	tasks := newMemTaskRepo(&domain.Task{
		ID:        "t1",
		Title:     "one-off",
		Status:    domain.StatusInProgress,
		CreatedBy: "s1",
	})

	result, err := newTestUseCase(tasks, nil, nil).Complete(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if result.Task.Status != domain.StatusCompleted || result.Task.CompletedAt == nil {
		t.Errorf("task = %+v, want completed with timestamp", result.Task)
	}
	if result.NextTask != nil {
		t.Error("non-recurring completion must not spawn a task")
	}
}

func TestCompleteRecurringSpawnsNextOccurrence(t *testing.T) {
	start := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	due := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	original := recurring("t1", domain.RepeatMonthly, start, due)

	tasks := newMemTaskRepo(original)
	assignees := &memAssigneeRepo{rows: []domain.TaskAssignee{
		{ID: "a1", TaskID: "t1", StaffID: "s2", AssignedBy: "s1", Active: true},
	}}

	result, err := newTestUseCase(tasks, assignees, nil).Complete(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	next := result.NextTask
	if next == nil {
		t.Fatal("recurring completion must spawn the next occurrence")
	}
	if want := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC); !next.StartDate.Equal(want) {
		t.Errorf("next start = %v, want %v", next.StartDate, want)
	}
	if want := time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC); !next.DueDate.Equal(want) {
		t.Errorf("next due = %v, want %v", next.DueDate, want)
	}
	if next.ParentTaskID == nil || *next.ParentTaskID != "t1" {
		t.Errorf("parent = %v, want t1", next.ParentTaskID)
	}
	if next.Status != domain.StatusNotStarted || next.CompletedAt != nil {
		t.Errorf("next = %+v, want fresh not-started", next)
	}

	copied, _ := assignees.ListActiveByTask(context.Background(), next.ID)
	if len(copied) != 1 || copied[0].StaffID != "s2" {
		t.Errorf("copied assignees = %+v", copied)
	}

	if result.AssigneeCopyWarning != "" {
		t.Errorf("unexpected warning %q", result.AssigneeCopyWarning)
	}
}

func TestCompleteRecurringToleratesAssigneeCopyFailure(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	tasks := newMemTaskRepo(recurring("t1", domain.RepeatDaily, start, due))
	assignees := &memAssigneeRepo{
		rows:   []domain.TaskAssignee{{ID: "a1", TaskID: "t1", StaffID: "s2", Active: true}},
		addErr: errors.New("unique violation"),
	}

	result, err := newTestUseCase(tasks, assignees, nil).Complete(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Complete must not fail on assignee copy: %v", err)
	}
	if result.NextTask == nil {
		t.Fatal("next occurrence must still be created")
	}
	if result.AssigneeCopyWarning == "" {
		t.Error("copy failure must surface as a warning")
	}
	if result.Task.Status != domain.StatusCompleted {
		t.Error("original completion must stand")
	}
}

func TestCompleteAlreadyCompletedIsIdempotent(t *testing.T) {
	done := testNow.Add(-time.Hour)
	tasks := newMemTaskRepo(&domain.Task{
		ID:              "t1",
		Status:          domain.StatusCompleted,
		CompletedAt:     &done,
		RepeatFrequency: domain.RepeatDaily,
	})

	result, err := newTestUseCase(tasks, nil, nil).Complete(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if result.NextTask != nil {
		t.Error("re-completing must not spawn another occurrence")
	}
	if !result.Task.CompletedAt.Equal(done) {
		t.Error("original completion timestamp must be preserved")
	}
}

func TestAssignEnforcesCap(t *testing.T) {
	tasks := newMemTaskRepo(&domain.Task{ID: "t1", Title: "crowded", Status: domain.StatusNotStarted})
	assignees := &memAssigneeRepo{}
	uc := newTestUseCase(tasks, assignees, nil)

	for i := 0; i < domain.MaxAssigneesPerTask; i++ {
		staffID := string(rune('a' + i))
		if err := uc.Assign(context.Background(), "t1", staffID, "boss"); err != nil {
			t.Fatalf("assign %d: %v", i, err)
		}
	}

	err := uc.Assign(context.Background(), "t1", "overflow", "boss")
	if !domain.IsDomainError(err, domain.ErrCodeConflict) {
		t.Errorf("sixth assignee error = %v, want CONFLICT", err)
	}
}

func TestAssignNotifiesAssignee(t *testing.T) {
	tasks := newMemTaskRepo(&domain.Task{ID: "t1", Title: "review PR", Status: domain.StatusNotStarted})
	outbox := &memOutbox{}
	uc := newTestUseCase(tasks, nil, outbox)

	if err := uc.Assign(context.Background(), "t1", "s2", "s1"); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if len(outbox.published) != 1 || outbox.published[0].Type != domain.NotifyTaskAssigned {
		t.Errorf("published = %+v", outbox.published)
	}

	// a failing outbox never fails the assignment itself
	outbox.err = errors.New("outbox closed")
	if err := uc.Assign(context.Background(), "t1", "s3", "s1"); err != nil {
		t.Errorf("Assign with broken outbox: %v", err)
	}
}

func TestRemoveAssigneeGuard(t *testing.T) {
	projectID := "p1"
	tasks := newMemTaskRepo(&domain.Task{
		ID:        "t1",
		Status:    domain.StatusNotStarted,
		CreatedBy: "creator",
		ProjectID: &projectID,
	})
	assignees := &memAssigneeRepo{rows: []domain.TaskAssignee{
		{ID: "a1", TaskID: "t1", StaffID: "s2", Active: true},
		{ID: "a2", TaskID: "t1", StaffID: "s3", Active: true},
	}}
	uc := newTestUseCase(tasks, assignees, nil)
	uc.projects = &memProjectRepo{projects: map[string]*domain.Project{
		"p1": {ID: "p1", Name: "Alpha", OwnerID: "owner"},
	}}

	plain := &domain.Staff{ID: "someone"}
	if err := uc.RemoveAssignee(context.Background(), plain, "t1", "s2"); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Errorf("plain staff error = %v, want FORBIDDEN", err)
	}

	owner := &domain.Staff{ID: "owner"}
	if err := uc.RemoveAssignee(context.Background(), owner, "t1", "s2"); err != nil {
		t.Errorf("owner removal: %v", err)
	}

	manager := &domain.Staff{ID: "mgr", IsManager: true}
	if err := uc.RemoveAssignee(context.Background(), manager, "t1", "s3"); err != nil {
		t.Errorf("manager removal: %v", err)
	}
}
