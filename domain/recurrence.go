package domain

import "time"

// Occurrence is the computed date pair for the next run of a recurring task.
type Occurrence struct {
	Start time.Time
	Due   time.Time
}

// NextOccurrence computes when a just-completed recurring task should run
// again. The original duration (due - start) is preserved exactly; the
// next start is the old due date advanced by one frequency unit.
//
// Tasks missing either date degrade to {start: now, due: now + 1 day}
// instead of failing the completion. Unrecognized frequencies advance by
// one day. Monthly and yearly advances clamp to the last valid day of
// the target month (Jan 31 + 1 month -> Feb 28/29).
func NextOccurrence(t *Task, now time.Time) Occurrence {
	if t == nil || t.StartDate == nil || t.DueDate == nil {
		return Occurrence{Start: now, Due: now.AddDate(0, 0, 1)}
	}

	start := *t.StartDate
	due := *t.DueDate
	duration := due.Sub(start)

	var nextStart time.Time
	switch t.RepeatFrequency {
	case RepeatWeekly:
		nextStart = due.AddDate(0, 0, 7)
	case RepeatMonthly:
		nextStart = addMonthsClamped(due, 1)
	case RepeatYearly:
		nextStart = addMonthsClamped(due, 12)
	default:
		// daily, and the defensive default for anything unrecognized
		nextStart = due.AddDate(0, 0, 1)
	}

	return Occurrence{Start: nextStart, Due: nextStart.Add(duration)}
}

// NextTask builds the new row a completed recurring task spawns: same
// descriptive fields, status reset, dates from the computed occurrence,
// parent id linking the whole series back to one root.
func NextTask(completed *Task, occ Occurrence) *Task {
	root := completed.RecurrenceRoot()
	return &Task{
		Title:           completed.Title,
		Notes:           completed.Notes,
		Status:          StatusNotStarted,
		Priority:        completed.Priority,
		ProjectID:       completed.ProjectID,
		CreatedBy:       completed.CreatedBy,
		ParentTaskID:    &root,
		RepeatFrequency: completed.RepeatFrequency,
		StartDate:       &occ.Start,
		DueDate:         &occ.Due,
	}
}

// addMonthsClamped advances by whole months, clamping the day of month
// to the last valid day of the target month. time.AddDate would roll
// Jan 31 + 1 month into March; reports and recurrence chains want the
// deterministic clamped date instead.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	m := int(month) + months
	year += (m - 1) / 12
	month = time.Month((m-1)%12 + 1)

	if last := daysIn(year, month); day > last {
		day = last
	}

	hour, min, sec := t.Clock()
	return time.Date(year, month, day, hour, min, sec, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
