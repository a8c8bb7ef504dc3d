package report

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

// In-memory fakes honoring the filter semantics the aggregator relies on.

type fakeTaskRepo struct {
	tasks []domain.Task
	err   error
}

func (f *fakeTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	for i := range f.tasks {
		if f.tasks[i].ID == id && f.tasks[i].DeletedAt == nil {
			return &f.tasks[i], nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (f *fakeTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Task
	for _, t := range f.tasks {
		if !filter.IncludeDeleted && t.DeletedAt != nil {
			continue
		}
		if filter.ProjectID != "" && (t.ProjectID == nil || *t.ProjectID != filter.ProjectID) {
			continue
		}
		if filter.CreatedFrom != nil && t.CreatedAt.Before(*filter.CreatedFrom) {
			continue
		}
		if filter.CreatedBefore != nil && !t.CreatedAt.Before(*filter.CreatedBefore) {
			continue
		}
		out = append(out, t)
	}
	// mirror the Postgres row cap so callers that forget to ask for an
	// unbounded read see truncation here too
	if !filter.Unbounded {
		limit := filter.Limit
		if limit <= 0 || limit > 500 {
			limit = 500
		}
		if len(out) > limit {
			out = out[:limit]
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	f.tasks = append(f.tasks, *task)
	return task, nil
}

func (f *fakeTaskRepo) Update(context.Context, *domain.Task) error { return nil }

func (f *fakeTaskRepo) SoftDelete(context.Context, string, time.Time) error { return nil }

type fakeProjectRepo struct {
	projects map[string]domain.Project
}

func (f *fakeProjectRepo) GetByID(_ context.Context, id string) (*domain.Project, error) {
	if p, ok := f.projects[id]; ok && p.DeletedAt == nil {
		return &p, nil
	}
	return nil, domain.ErrProjectNotFound
}

func (f *fakeProjectRepo) GetByIDs(_ context.Context, ids []string) (map[string]domain.Project, error) {
	out := make(map[string]domain.Project)
	for _, id := range ids {
		if p, ok := f.projects[id]; ok && p.DeletedAt == nil {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) List(context.Context, repository.ProjectFilter) ([]domain.Project, error) {
	return nil, nil
}

func (f *fakeProjectRepo) Create(_ context.Context, p *domain.Project) (*domain.Project, error) {
	return p, nil
}

func (f *fakeProjectRepo) Update(context.Context, *domain.Project) error { return nil }

func (f *fakeProjectRepo) SoftDelete(context.Context, string, time.Time) error { return nil }

type fakeStaffRepo struct {
	members map[string]domain.Staff
}

func (f *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.Staff, error) {
	if s, ok := f.members[id]; ok {
		return &s, nil
	}
	return nil, domain.ErrStaffNotFound
}

func (f *fakeStaffRepo) GetByAuthUID(_ context.Context, uid string) (*domain.Staff, error) {
	for _, s := range f.members {
		if s.AuthUID == uid {
			return &s, nil
		}
	}
	return nil, domain.ErrNoStaffRecord
}

func (f *fakeStaffRepo) GetByIDs(_ context.Context, ids []string) (map[string]domain.Staff, error) {
	out := make(map[string]domain.Staff)
	for _, id := range ids {
		if s, ok := f.members[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func (f *fakeStaffRepo) List(context.Context) ([]domain.Staff, error) { return nil, nil }

func (f *fakeStaffRepo) Create(_ context.Context, s *domain.Staff) (*domain.Staff, error) {
	return s, nil
}

func (f *fakeStaffRepo) Update(context.Context, *domain.Staff) error { return nil }

type fakeAssigneeRepo struct {
	rows []domain.TaskAssignee
	err  error
}

func (f *fakeAssigneeRepo) ListActiveByTasks(_ context.Context, taskIDs []string) ([]domain.TaskAssignee, error) {
	if f.err != nil {
		return nil, f.err
	}
	wanted := make(map[string]struct{}, len(taskIDs))
	for _, id := range taskIDs {
		wanted[id] = struct{}{}
	}
	var out []domain.TaskAssignee
	for _, row := range f.rows {
		if !row.Active {
			continue
		}
		if _, ok := wanted[row.TaskID]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeAssigneeRepo) ListActiveByTask(ctx context.Context, taskID string) ([]domain.TaskAssignee, error) {
	return f.ListActiveByTasks(ctx, []string{taskID})
}

func (f *fakeAssigneeRepo) TaskIDsForStaff(_ context.Context, staffID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []string
	for _, row := range f.rows {
		if row.Active && row.StaffID == staffID {
			out = append(out, row.TaskID)
		}
	}
	return out, nil
}

func (f *fakeAssigneeRepo) CountActive(ctx context.Context, taskID string) (int, error) {
	rows, err := f.ListActiveByTask(ctx, taskID)
	return len(rows), err
}

func (f *fakeAssigneeRepo) Add(_ context.Context, a *domain.TaskAssignee) error {
	f.rows = append(f.rows, *a)
	return nil
}

func (f *fakeAssigneeRepo) Deactivate(_ context.Context, taskID, staffID string) error {
	for i := range f.rows {
		if f.rows[i].TaskID == taskID && f.rows[i].StaffID == staffID {
			f.rows[i].Active = false
		}
	}
	return nil
}

var reportNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func newUseCase(tasks *fakeTaskRepo, projects *fakeProjectRepo, staff *fakeStaffRepo, assignees *fakeAssigneeRepo) *UseCase {
	if projects == nil {
		projects = &fakeProjectRepo{projects: map[string]domain.Project{}}
	}
	if staff == nil {
		staff = &fakeStaffRepo{members: map[string]domain.Staff{}}
	}
	if assignees == nil {
		assignees = &fakeAssigneeRepo{}
	}
	return New(tasks, projects, staff, assignees, nil).WithClock(func() time.Time { return reportNow })
}

func makeTask(id, status string, createdAt time.Time) domain.Task {
	return domain.Task{
		ID:        id,
		Title:     "task " + id,
		Status:    status,
		CreatedBy: "creator",
		CreatedAt: createdAt,
	}
}

func TestCompletionStatusCountsAndPercentages(t *testing.T) {
	created := reportNow.AddDate(0, 0, -2)
	future := reportNow.AddDate(0, 0, 5)

	projected := makeTask("t4", domain.StatusNotStarted, created)
	projected.StartDate = &future

	tasks := &fakeTaskRepo{tasks: []domain.Task{
		makeTask("t1", domain.StatusCompleted, created),
		makeTask("t2", domain.StatusCompleted, created),
		makeTask("t3", domain.StatusInProgress, created),
		projected,
		makeTask("t5", domain.StatusBlocked, created),
	}}

	got, err := newUseCase(tasks, nil, nil, nil).Completion(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("Completion: %v", err)
	}

	m := got.Metrics
	if m.TotalTasks != 5 || m.CompletedTasks != 2 || m.InProgressTasks != 1 || m.NotStartedTasks != 1 || m.BlockedTasks != 1 {
		t.Fatalf("counts = %+v", m)
	}
	if m.ProjectedTasks != 1 {
		t.Errorf("projected = %d, want 1", m.ProjectedTasks)
	}
	if m.CompletedPercentage != "40.00" || m.InProgressPercentage != "20.00" {
		t.Errorf("percentages = %q / %q", m.CompletedPercentage, m.InProgressPercentage)
	}

	// the four status percentages cover every task exactly once
	var sum float64
	for _, p := range []string{m.CompletedPercentage, m.InProgressPercentage, m.NotStartedPercentage, m.BlockedPercentage} {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			t.Fatalf("parse %q: %v", p, err)
		}
		sum += v
	}
	if sum < 99.99 || sum > 100.01 {
		t.Errorf("percentage sum = %v, want ~100", sum)
	}
}

func TestCompletionEmptySetReportsZeroPercentages(t *testing.T) {
	got, err := newUseCase(&fakeTaskRepo{}, nil, nil, nil).Completion(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("Completion: %v", err)
	}
	m := got.Metrics
	for _, p := range []string{m.CompletedPercentage, m.InProgressPercentage, m.NotStartedPercentage, m.BlockedPercentage} {
		if p != "0.00" {
			t.Errorf("percentage = %q, want 0.00", p)
		}
	}
	if len(got.Tasks) != 0 {
		t.Errorf("tasks = %d, want 0", len(got.Tasks))
	}
}

func TestCompletionUserFilterMatchesCreatorOrAssignee(t *testing.T) {
	created := reportNow.AddDate(0, 0, -1)

	mine := makeTask("t1", domain.StatusInProgress, created)
	mine.CreatedBy = "u1"
	assigned := makeTask("t2", domain.StatusNotStarted, created)
	unrelated := makeTask("t3", domain.StatusNotStarted, created)

	tasks := &fakeTaskRepo{tasks: []domain.Task{mine, assigned, unrelated}}
	assignees := &fakeAssigneeRepo{rows: []domain.TaskAssignee{
		{ID: "a1", TaskID: "t2", StaffID: "u1", Active: true},
		{ID: "a2", TaskID: "t3", StaffID: "u1", Active: false}, // inactive does not count
	}}

	got, err := newUseCase(tasks, nil, nil, assignees).Completion(context.Background(), Filters{UserID: "u1"})
	if err != nil {
		t.Fatalf("Completion: %v", err)
	}
	if got.Metrics.TotalTasks != 2 {
		t.Fatalf("total = %d, want 2", got.Metrics.TotalTasks)
	}
	for _, row := range got.Tasks {
		if row.ID == "t3" {
			t.Error("inactively assigned task leaked into report")
		}
	}
}

func TestCompletionDateRangeIncludesFullEndDay(t *testing.T) {
	start := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	tasks := &fakeTaskRepo{tasks: []domain.Task{
		makeTask("before", domain.StatusCompleted, start.Add(-time.Hour)),
		makeTask("endday", domain.StatusCompleted, end.Add(23*time.Hour)),
		makeTask("after", domain.StatusCompleted, end.AddDate(0, 0, 1)),
	}}

	got, err := newUseCase(tasks, nil, nil, nil).Completion(context.Background(), Filters{StartDate: &start, EndDate: &end})
	if err != nil {
		t.Fatalf("Completion: %v", err)
	}
	if got.Metrics.TotalTasks != 1 {
		t.Fatalf("total = %d, want only the end-day task", got.Metrics.TotalTasks)
	}
	if got.Tasks[0].ID != "endday" {
		t.Errorf("kept %q, want endday", got.Tasks[0].ID)
	}
}

func TestCompletionAggregatesBeyondListPageCap(t *testing.T) {
	created := reportNow.AddDate(0, 0, -2)

	var all []domain.Task
	for i := 0; i < 600; i++ {
		all = append(all, makeTask(fmt.Sprintf("t%03d", i), domain.StatusCompleted, created))
	}
	tasks := &fakeTaskRepo{tasks: all}

	got, err := newUseCase(tasks, nil, nil, nil).Completion(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("Completion: %v", err)
	}
	if got.Metrics.TotalTasks != 600 {
		t.Fatalf("total = %d, want all 600 tasks counted", got.Metrics.TotalTasks)
	}
	if got.Metrics.CompletedPercentage != "100.00" {
		t.Errorf("completed percentage = %q, want 100.00", got.Metrics.CompletedPercentage)
	}
}

func TestCompletionExcludesSoftDeletedTasksAndProjects(t *testing.T) {
	created := reportNow.AddDate(0, 0, -1)
	deletedAt := reportNow.AddDate(0, 0, -1)

	gone := makeTask("gone", domain.StatusCompleted, created)
	gone.DeletedAt = &deletedAt

	projectID := "p-dead"
	orphan := makeTask("orphan", domain.StatusCompleted, created)
	orphan.ProjectID = &projectID

	tasks := &fakeTaskRepo{tasks: []domain.Task{gone, orphan}}
	projects := &fakeProjectRepo{projects: map[string]domain.Project{
		"p-dead": {ID: "p-dead", Name: "Dead", DeletedAt: &deletedAt},
	}}

	got, err := newUseCase(tasks, projects, nil, nil).Completion(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("Completion: %v", err)
	}
	if got.Metrics.TotalTasks != 1 {
		t.Fatalf("total = %d, want 1", got.Metrics.TotalTasks)
	}
	if got.Tasks[0].Project != nil {
		t.Error("soft-deleted project must not appear as enrichment")
	}
}

func TestCompletionEnrichment(t *testing.T) {
	created := reportNow.AddDate(0, 0, -1)
	projectID := "p1"
	task := makeTask("t1", domain.StatusInProgress, created)
	task.ProjectID = &projectID

	tasks := &fakeTaskRepo{tasks: []domain.Task{task}}
	projects := &fakeProjectRepo{projects: map[string]domain.Project{
		"p1": {ID: "p1", Name: "Alpha"},
	}}
	staff := &fakeStaffRepo{members: map[string]domain.Staff{
		"s1": {ID: "s1", FullName: "Dana Reyes"},
	}}
	assignees := &fakeAssigneeRepo{rows: []domain.TaskAssignee{
		{ID: "a1", TaskID: "t1", StaffID: "s1", Active: true},
	}}

	got, err := newUseCase(tasks, projects, staff, assignees).Completion(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("Completion: %v", err)
	}
	row := got.Tasks[0]
	if row.Project == nil || row.Project.Name != "Alpha" {
		t.Errorf("project = %+v, want Alpha", row.Project)
	}
	if len(row.Assignees) != 1 || row.Assignees[0].FullName != "Dana Reyes" {
		t.Errorf("assignees = %+v", row.Assignees)
	}
}

func TestTimeReportGroupsByProject(t *testing.T) {
	projectID := "p1"

	c1 := makeTask("t1", domain.StatusCompleted, reportNow.Add(-48*time.Hour))
	done1 := c1.CreatedAt.Add(2 * time.Hour)
	c1.CompletedAt = &done1
	c1.ProjectID = &projectID

	c2 := makeTask("t2", domain.StatusCompleted, reportNow.Add(-48*time.Hour))
	done2 := c2.CreatedAt.Add(3 * time.Hour)
	c2.CompletedAt = &done2
	c2.ProjectID = &projectID

	running := makeTask("t3", domain.StatusInProgress, reportNow.Add(-30*time.Minute))
	running.ProjectID = &projectID

	personal := makeTask("t4", domain.StatusNotStarted, reportNow.Add(-time.Hour))

	tasks := &fakeTaskRepo{tasks: []domain.Task{c1, c2, running, personal}}
	projects := &fakeProjectRepo{projects: map[string]domain.Project{
		"p1": {ID: "p1", Name: "Alpha"},
	}}

	got, err := newUseCase(tasks, projects, nil, nil).Time(context.Background(), Filters{Grouping: GroupByProject})
	if err != nil {
		t.Fatalf("Time: %v", err)
	}

	if got.Metrics.GroupCount != 2 {
		t.Fatalf("groups = %d, want Alpha and Personal Tasks", got.Metrics.GroupCount)
	}
	alpha := got.GroupedData[0]
	if alpha.Name != "Alpha" {
		t.Fatalf("first group = %q, want Alpha (sorted by hours desc)", alpha.Name)
	}
	if alpha.CompletedTasks != 2 || alpha.InProgressTasks != 1 {
		t.Errorf("alpha counts = %d completed / %d in progress", alpha.CompletedTasks, alpha.InProgressTasks)
	}
	// 2h + 3h completed plus whatever the in-progress task has accrued
	if alpha.TotalHours < 5.0 || alpha.TotalHours > 6.0 {
		t.Errorf("alpha hours = %v, want 5.0 + x with x in [0,1)", alpha.TotalHours)
	}
	if got.GroupedData[1].Name != personalGroup {
		t.Errorf("fallback group = %q, want %q", got.GroupedData[1].Name, personalGroup)
	}
	if got.GroupedData[1].AvgHoursPerTask != 0 {
		t.Errorf("not-started group avg = %v, want 0", got.GroupedData[1].AvgHoursPerTask)
	}
}

func TestTimeReportGroupsByDepartmentWithPostFilter(t *testing.T) {
	t1 := makeTask("t1", domain.StatusCompleted, reportNow.Add(-24*time.Hour))
	done := t1.CreatedAt.Add(time.Hour)
	t1.CompletedAt = &done
	t2 := makeTask("t2", domain.StatusNotStarted, reportNow.Add(-24*time.Hour))
	t3 := makeTask("t3", domain.StatusNotStarted, reportNow.Add(-24*time.Hour))

	tasks := &fakeTaskRepo{tasks: []domain.Task{t1, t2, t3}}
	staff := &fakeStaffRepo{members: map[string]domain.Staff{
		"s1": {ID: "s1", FullName: "A", Department: "Engineering"},
		"s2": {ID: "s2", FullName: "B", Department: "Design"},
	}}
	assignees := &fakeAssigneeRepo{rows: []domain.TaskAssignee{
		{ID: "a1", TaskID: "t1", StaffID: "s1", Active: true},
		{ID: "a2", TaskID: "t2", StaffID: "s2", Active: true},
		// t3 has no assignee -> No Department
	}}

	uc := newUseCase(tasks, nil, staff, assignees)

	got, err := uc.Time(context.Background(), Filters{Grouping: GroupByDepartment})
	if err != nil {
		t.Fatalf("Time: %v", err)
	}
	names := map[string]bool{}
	for _, g := range got.GroupedData {
		names[g.Name] = true
	}
	for _, want := range []string{"Engineering", "Design", noDepartmentGroup} {
		if !names[want] {
			t.Errorf("missing group %q in %v", want, names)
		}
	}

	// department filter drops tasks resolved elsewhere, after the fetch
	filtered, err := uc.Time(context.Background(), Filters{Grouping: GroupByDepartment, Department: "Engineering"})
	if err != nil {
		t.Fatalf("Time filtered: %v", err)
	}
	if filtered.Metrics.TotalTasks != 1 || filtered.Metrics.GroupCount != 1 {
		t.Fatalf("filtered metrics = %+v", filtered.Metrics)
	}
	if filtered.GroupedData[0].Name != "Engineering" {
		t.Errorf("group = %q", filtered.GroupedData[0].Name)
	}
}

func TestTimeReportDefaultsGroupingAndRejectsUnknown(t *testing.T) {
	uc := newUseCase(&fakeTaskRepo{}, nil, nil, nil)

	got, err := uc.Time(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("Time: %v", err)
	}
	if got.Filters.Grouping != GroupByProject {
		t.Errorf("default grouping = %q", got.Filters.Grouping)
	}
	if got.Metrics.AvgHoursPerTask != 0 {
		t.Errorf("empty report avg = %v, want 0", got.Metrics.AvgHoursPerTask)
	}

	if _, err := uc.Time(context.Background(), Filters{Grouping: "owner"}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("unknown grouping error = %v, want INVALID", err)
	}
}

func TestTimeReportRoundsAtBoundary(t *testing.T) {
	task := makeTask("t1", domain.StatusCompleted, reportNow.Add(-24*time.Hour))
	done := task.CreatedAt.Add(100 * time.Minute) // 1.666... hours
	task.CompletedAt = &done

	got, err := newUseCase(&fakeTaskRepo{tasks: []domain.Task{task}}, nil, nil, nil).Time(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("Time: %v", err)
	}
	if got.Metrics.TotalHours != 1.67 {
		t.Errorf("total = %v, want 1.67", got.Metrics.TotalHours)
	}
	if got.GroupedData[0].Tasks[0].LoggedHours != 1.67 {
		t.Errorf("entry hours = %v, want 1.67", got.GroupedData[0].Tasks[0].LoggedHours)
	}
}

func TestReportsAbortOnDataAccessFailure(t *testing.T) {
	boom := errors.New("connection reset")
	uc := newUseCase(&fakeTaskRepo{err: boom}, nil, nil, nil)

	if _, err := uc.Completion(context.Background(), Filters{}); !domain.IsDomainError(err, domain.ErrCodeDataAccess) {
		t.Errorf("completion error = %v, want DATA_ACCESS", err)
	}
	if _, err := uc.Time(context.Background(), Filters{}); !domain.IsDomainError(err, domain.ErrCodeDataAccess) {
		t.Errorf("time error = %v, want DATA_ACCESS", err)
	}

	// a failing enrichment lookup also aborts the whole report
	created := reportNow.Add(-time.Hour)
	uc = newUseCase(
		&fakeTaskRepo{tasks: []domain.Task{makeTask("t1", domain.StatusNotStarted, created)}},
		nil, nil,
		&fakeAssigneeRepo{err: boom},
	)
	if _, err := uc.Completion(context.Background(), Filters{}); !domain.IsDomainError(err, domain.ErrCodeDataAccess) {
		t.Errorf("enrichment error = %v, want DATA_ACCESS", err)
	}
}
