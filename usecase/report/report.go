// Package report implements the aggregation core: the task-completion
// report and the logged-time report. Both are read-only; any storage
// failure aborts the whole report rather than returning partial data.
package report

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

// Grouping dimensions for the logged-time report.
const (
	GroupByProject    = "project"
	GroupByDepartment = "department"
)

// Group names for tasks that resolve to no project or no department.
const (
	personalGroup     = "Personal Tasks"
	noDepartmentGroup = "No Department"
)

// Filters is the immutable query configuration for one report run.
// StartDate/EndDate are calendar days; the end day is included in full.
type Filters struct {
	UserID     string     `json:"user_id,omitempty"`
	ProjectID  string     `json:"project_id,omitempty"`
	Department string     `json:"department,omitempty"`
	Grouping   string     `json:"grouping,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

type UseCase struct {
	tasks     repository.TaskRepository
	projects  repository.ProjectRepository
	staff     repository.StaffRepository
	assignees repository.AssigneeRepository
	logger    *zap.Logger
	clock     func() time.Time
}

func New(
	tasks repository.TaskRepository,
	projects repository.ProjectRepository,
	staff repository.StaffRepository,
	assignees repository.AssigneeRepository,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:     tasks,
		projects:  projects,
		staff:     staff,
		assignees: assignees,
		logger:    logger,
		clock:     time.Now,
	}
}

// WithClock overrides the time source. Reports derive in-progress hours
// from "now", so deterministic tests need a fixed instant.
func (uc *UseCase) WithClock(clock func() time.Time) *UseCase {
	if clock != nil {
		uc.clock = clock
	}
	return uc
}

// CompletionMetrics summarizes status counts for the completion report.
type CompletionMetrics struct {
	TotalTasks           int    `json:"totalTasks"`
	CompletedTasks       int    `json:"completedTasks"`
	CompletedPercentage  string `json:"completedPercentage"`
	InProgressTasks      int    `json:"inProgressTasks"`
	InProgressPercentage string `json:"inProgressPercentage"`
	NotStartedTasks      int    `json:"notStartedTasks"`
	NotStartedPercentage string `json:"notStartedPercentage"`
	BlockedTasks         int    `json:"blockedTasks"`
	BlockedPercentage    string `json:"blockedPercentage"`
	ProjectedTasks       int    `json:"projectedTasks"`
}

// ProjectRef is the project enrichment attached to a task row.
type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TaskResult is one enriched task row in the completion report.
type TaskResult struct {
	domain.Task
	Assignees []domain.AssigneeView `json:"assignees"`
	Project   *ProjectRef           `json:"project,omitempty"`
}

// CompletionReport is the full completion report payload.
type CompletionReport struct {
	Metrics     CompletionMetrics `json:"metrics"`
	Tasks       []TaskResult      `json:"tasks"`
	Filters     Filters           `json:"filters"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

// Completion builds the task-completion report.
func (uc *UseCase) Completion(ctx context.Context, filters Filters) (*CompletionReport, error) {
	now := uc.clock()

	tasks, err := uc.fetchTasks(ctx, filters)
	if err != nil {
		return nil, err
	}

	if filters.UserID != "" {
		tasks, err = uc.restrictToUser(ctx, tasks, filters.UserID)
		if err != nil {
			return nil, err
		}
	}

	assigneesByTask, err := uc.assigneeViews(ctx, tasks)
	if err != nil {
		return nil, err
	}
	projectsByID, err := uc.projectRefs(ctx, tasks)
	if err != nil {
		return nil, err
	}

	metrics := CompletionMetrics{TotalTasks: len(tasks)}
	results := make([]TaskResult, 0, len(tasks))
	for i := range tasks {
		t := tasks[i]
		switch t.Status {
		case domain.StatusCompleted:
			metrics.CompletedTasks++
		case domain.StatusInProgress:
			metrics.InProgressTasks++
		case domain.StatusNotStarted:
			metrics.NotStartedTasks++
		case domain.StatusBlocked:
			metrics.BlockedTasks++
		}
		if t.IsProjected(now) {
			metrics.ProjectedTasks++
		}

		row := TaskResult{Task: t, Assignees: assigneesByTask[t.ID]}
		if row.Assignees == nil {
			row.Assignees = []domain.AssigneeView{}
		}
		if t.ProjectID != nil {
			if ref, ok := projectsByID[*t.ProjectID]; ok {
				row.Project = &ref
			}
		}
		results = append(results, row)
	}

	metrics.CompletedPercentage = percentage(metrics.CompletedTasks, metrics.TotalTasks)
	metrics.InProgressPercentage = percentage(metrics.InProgressTasks, metrics.TotalTasks)
	metrics.NotStartedPercentage = percentage(metrics.NotStartedTasks, metrics.TotalTasks)
	metrics.BlockedPercentage = percentage(metrics.BlockedTasks, metrics.TotalTasks)

	return &CompletionReport{
		Metrics:     metrics,
		Tasks:       results,
		Filters:     filters,
		GeneratedAt: now,
	}, nil
}

// TimeMetrics summarizes the logged-time report across all groups.
type TimeMetrics struct {
	TotalHours      float64 `json:"totalHours"`
	TotalTasks      int     `json:"totalTasks"`
	CompletedTasks  int     `json:"completedTasks"`
	InProgressTasks int     `json:"inProgressTasks"`
	AvgHoursPerTask float64 `json:"avgHoursPerTask"`
	GroupCount      int     `json:"groupCount"`
}

// TimeEntry is one task row in a logged-time group.
type TimeEntry struct {
	TaskID       string  `json:"task_id"`
	Title        string  `json:"title"`
	Status       string  `json:"status"`
	LoggedHours  float64 `json:"logged_hours"`
	IsInProgress bool    `json:"is_in_progress"`
	ProjectName  string  `json:"project_name,omitempty"`
	Department   *string `json:"department"`
}

// TimeGroup aggregates time entries along the chosen dimension.
type TimeGroup struct {
	Name            string      `json:"name"`
	TotalHours      float64     `json:"total_hours"`
	CompletedTasks  int         `json:"completed_tasks"`
	InProgressTasks int         `json:"in_progress_tasks"`
	AvgHoursPerTask float64     `json:"avg_hours_per_task"`
	Tasks           []TimeEntry `json:"tasks"`
}

// TimeReport is the full logged-time report payload.
type TimeReport struct {
	Metrics     TimeMetrics `json:"metrics"`
	GroupedData []TimeGroup `json:"groupedData"`
	Filters     Filters     `json:"filters"`
	GeneratedAt time.Time   `json:"generatedAt"`
}

type timeAccumulator struct {
	hours      float64
	completed  int
	inProgress int
	entries    []TimeEntry
}

// Time builds the logged-time report grouped by project or department.
func (uc *UseCase) Time(ctx context.Context, filters Filters) (*TimeReport, error) {
	grouping := filters.Grouping
	switch grouping {
	case "":
		grouping = GroupByProject
		filters.Grouping = grouping
	case GroupByProject, GroupByDepartment:
	default:
		return nil, domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("unknown grouping %q", grouping))
	}

	now := uc.clock()

	tasks, err := uc.fetchTasks(ctx, filters)
	if err != nil {
		return nil, err
	}

	projectsByID, err := uc.projectRefs(ctx, tasks)
	if err != nil {
		return nil, err
	}
	departments, err := uc.departments(ctx, tasks)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*timeAccumulator)
	var (
		totalHours      float64
		totalTasks      int
		totalCompleted  int
		totalInProgress int
	)

	for i := range tasks {
		t := tasks[i]

		dept := departments[t.ID]
		// department is not a task column, so this filter has to run
		// after the fetch against the resolved value
		if filters.Department != "" {
			if dept == nil || *dept != filters.Department {
				continue
			}
		}

		entry := TimeEntry{
			TaskID:       t.ID,
			Title:        t.Title,
			Status:       t.Status,
			LoggedHours:  round2(t.LoggedHours(now)),
			IsInProgress: t.Status == domain.StatusInProgress,
			Department:   dept,
		}
		if t.ProjectID != nil {
			if ref, ok := projectsByID[*t.ProjectID]; ok {
				entry.ProjectName = ref.Name
			}
		}

		key := groupKey(grouping, entry)
		acc := groups[key]
		if acc == nil {
			acc = &timeAccumulator{}
			groups[key] = acc
		}

		hours := t.LoggedHours(now)
		acc.hours += hours
		totalHours += hours
		totalTasks++
		if t.Status == domain.StatusCompleted {
			acc.completed++
			totalCompleted++
		}
		if t.Status == domain.StatusInProgress {
			acc.inProgress++
			totalInProgress++
		}
		acc.entries = append(acc.entries, entry)
	}

	grouped := make([]TimeGroup, 0, len(groups))
	for name, acc := range groups {
		group := TimeGroup{
			Name:            name,
			TotalHours:      round2(acc.hours),
			CompletedTasks:  acc.completed,
			InProgressTasks: acc.inProgress,
			Tasks:           acc.entries,
		}
		if n := len(acc.entries); n > 0 {
			group.AvgHoursPerTask = round2(acc.hours / float64(n))
		}
		grouped = append(grouped, group)
	}
	sort.Slice(grouped, func(i, j int) bool {
		if grouped[i].TotalHours != grouped[j].TotalHours {
			return grouped[i].TotalHours > grouped[j].TotalHours
		}
		return grouped[i].Name < grouped[j].Name
	})

	metrics := TimeMetrics{
		TotalHours:      round2(totalHours),
		TotalTasks:      totalTasks,
		CompletedTasks:  totalCompleted,
		InProgressTasks: totalInProgress,
		GroupCount:      len(grouped),
	}
	if totalTasks > 0 {
		metrics.AvgHoursPerTask = round2(totalHours / float64(totalTasks))
	}

	return &TimeReport{
		Metrics:     metrics,
		GroupedData: grouped,
		Filters:     filters,
		GeneratedAt: now,
	}, nil
}

// fetchTasks pulls non-deleted tasks for the requested range. The end
// date is advanced one calendar day and compared strictly-less-than so
// every timestamp on the end day is included. The read is unbounded:
// metrics over a truncated row set would be silently wrong.
func (uc *UseCase) fetchTasks(ctx context.Context, filters Filters) ([]domain.Task, error) {
	filter := repository.TaskFilter{
		ProjectID:   filters.ProjectID,
		CreatedFrom: filters.StartDate,
		Unbounded:   true,
	}
	if filters.EndDate != nil {
		before := filters.EndDate.AddDate(0, 0, 1)
		filter.CreatedBefore = &before
	}

	tasks, err := uc.tasks.List(ctx, filter)
	if err != nil {
		return nil, domain.WrapDataAccess("fetching tasks for report", err)
	}
	return tasks, nil
}

// restrictToUser keeps tasks the user created or is actively assigned to.
func (uc *UseCase) restrictToUser(ctx context.Context, tasks []domain.Task, userID string) ([]domain.Task, error) {
	assignedIDs, err := uc.assignees.TaskIDsForStaff(ctx, userID)
	if err != nil {
		return nil, domain.WrapDataAccess("resolving user assignments", err)
	}
	assigned := make(map[string]struct{}, len(assignedIDs))
	for _, id := range assignedIDs {
		assigned[id] = struct{}{}
	}

	filtered := tasks[:0]
	for _, t := range tasks {
		if t.CreatedBy == userID {
			filtered = append(filtered, t)
			continue
		}
		if _, ok := assigned[t.ID]; ok {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// assigneeViews resolves active assignees for all tasks in two round
// trips: one for the mapping rows, one for the staff names.
func (uc *UseCase) assigneeViews(ctx context.Context, tasks []domain.Task) (map[string][]domain.AssigneeView, error) {
	taskIDs := make([]string, len(tasks))
	for i, t := range tasks {
		taskIDs[i] = t.ID
	}

	mappings, err := uc.assignees.ListActiveByTasks(ctx, taskIDs)
	if err != nil {
		return nil, domain.WrapDataAccess("fetching task assignees", err)
	}

	staffIDs := make([]string, 0, len(mappings))
	for _, m := range mappings {
		staffIDs = append(staffIDs, m.StaffID)
	}
	members, err := uc.staff.GetByIDs(ctx, staffIDs)
	if err != nil {
		return nil, domain.WrapDataAccess("fetching assignee staff records", err)
	}

	views := make(map[string][]domain.AssigneeView)
	for _, m := range mappings {
		member, ok := members[m.StaffID]
		if !ok {
			continue
		}
		views[m.TaskID] = append(views[m.TaskID], domain.AssigneeView{
			StaffID:  member.ID,
			FullName: member.FullName,
		})
	}
	return views, nil
}

// projectRefs batch-loads the non-deleted projects referenced by tasks.
func (uc *UseCase) projectRefs(ctx context.Context, tasks []domain.Task) (map[string]ProjectRef, error) {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if t.ProjectID != nil {
			ids = append(ids, *t.ProjectID)
		}
	}

	projects, err := uc.projects.GetByIDs(ctx, ids)
	if err != nil {
		return nil, domain.WrapDataAccess("fetching report projects", err)
	}

	refs := make(map[string]ProjectRef, len(projects))
	for id, p := range projects {
		refs[id] = ProjectRef{ID: p.ID, Name: p.Name}
	}
	return refs, nil
}

// departments maps each task to the department of its first active
// assignee, nil when the task has none.
func (uc *UseCase) departments(ctx context.Context, tasks []domain.Task) (map[string]*string, error) {
	taskIDs := make([]string, len(tasks))
	for i, t := range tasks {
		taskIDs[i] = t.ID
	}

	mappings, err := uc.assignees.ListActiveByTasks(ctx, taskIDs)
	if err != nil {
		return nil, domain.WrapDataAccess("fetching assignees for departments", err)
	}

	firstAssignee := make(map[string]string)
	staffIDs := make([]string, 0, len(mappings))
	for _, m := range mappings {
		staffIDs = append(staffIDs, m.StaffID)
		if _, ok := firstAssignee[m.TaskID]; !ok {
			firstAssignee[m.TaskID] = m.StaffID
		}
	}

	members, err := uc.staff.GetByIDs(ctx, staffIDs)
	if err != nil {
		return nil, domain.WrapDataAccess("fetching staff for departments", err)
	}

	departments := make(map[string]*string, len(firstAssignee))
	for taskID, staffID := range firstAssignee {
		if member, ok := members[staffID]; ok && member.Department != "" {
			dept := member.Department
			departments[taskID] = &dept
		}
	}
	return departments, nil
}

func groupKey(grouping string, entry TimeEntry) string {
	if grouping == GroupByDepartment {
		if entry.Department == nil {
			return noDepartmentGroup
		}
		return *entry.Department
	}
	if entry.ProjectName == "" {
		return personalGroup
	}
	return entry.ProjectName
}

// percentage formats count/total*100 with two decimals, "0.00" when empty.
func percentage(count, total int) string {
	if total == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(count)/float64(total)*100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
