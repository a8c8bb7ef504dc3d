package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func recurringTask(start, due time.Time, freq string) *Task {
	return &Task{
		ID:              "t1",
		Title:           "standup notes",
		Status:          StatusInProgress,
		RepeatFrequency: freq,
		StartDate:       &start,
		DueDate:         &due,
	}
}

func TestNextOccurrenceMonthly(t *testing.T) {
	task := recurringTask(date(2025, time.January, 31), date(2025, time.February, 1), RepeatMonthly)

	occ := NextOccurrence(task, date(2025, time.February, 1))

	if want := date(2025, time.March, 1); !occ.Start.Equal(want) {
		t.Errorf("start = %v, want %v", occ.Start, want)
	}
	if want := date(2025, time.March, 2); !occ.Due.Equal(want) {
		t.Errorf("due = %v, want %v", occ.Due, want)
	}
}

func TestNextOccurrenceMonthlyClampsToLastDay(t *testing.T) {
	task := recurringTask(date(2025, time.January, 30), date(2025, time.January, 31), RepeatMonthly)

	occ := NextOccurrence(task, date(2025, time.January, 31))

	if want := date(2025, time.February, 28); !occ.Start.Equal(want) {
		t.Errorf("start = %v, want %v", occ.Start, want)
	}
	// 1 day duration preserved even across the clamp
	if got := occ.Due.Sub(occ.Start); got != 24*time.Hour {
		t.Errorf("duration = %v, want 24h", got)
	}
}

func TestNextOccurrenceUnits(t *testing.T) {
	start := date(2025, time.June, 1)
	due := date(2025, time.June, 4)

	cases := []struct {
		freq      string
		wantStart time.Time
	}{
		{RepeatDaily, date(2025, time.June, 5)},
		{RepeatWeekly, date(2025, time.June, 11)},
		{RepeatMonthly, date(2025, time.July, 4)},
		{RepeatYearly, date(2026, time.June, 4)},
		{"fortnightly", date(2025, time.June, 5)}, // unknown falls back to daily
	}

	for _, tc := range cases {
		occ := NextOccurrence(recurringTask(start, due, tc.freq), due)
		if !occ.Start.Equal(tc.wantStart) {
			t.Errorf("%s: start = %v, want %v", tc.freq, occ.Start, tc.wantStart)
		}
		if got := occ.Due.Sub(occ.Start); got != due.Sub(start) {
			t.Errorf("%s: duration = %v, want %v", tc.freq, got, due.Sub(start))
		}
	}
}

func TestNextOccurrenceMissingDatesFallsBack(t *testing.T) {
	now := date(2025, time.May, 10)

	for _, freq := range []string{RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly} {
		task := &Task{ID: "t1", RepeatFrequency: freq, StartDate: nil, DueDate: nil}
		occ := NextOccurrence(task, now)
		if !occ.Start.Equal(now) {
			t.Errorf("%s: start = %v, want %v", freq, occ.Start, now)
		}
		if want := now.AddDate(0, 0, 1); !occ.Due.Equal(want) {
			t.Errorf("%s: due = %v, want %v", freq, occ.Due, want)
		}
	}

	// one date missing is the same as both missing
	start := date(2025, time.May, 1)
	task := &Task{ID: "t1", RepeatFrequency: RepeatDaily, StartDate: &start}
	occ := NextOccurrence(task, now)
	if !occ.Start.Equal(now) {
		t.Errorf("missing due: start = %v, want %v", occ.Start, now)
	}
}

func TestNextTaskLinksSeriesToRoot(t *testing.T) {
	start := date(2025, time.March, 1)
	due := date(2025, time.March, 2)
	occ := Occurrence{Start: start, Due: due}

	projectID := "p1"
	original := &Task{
		ID:              "t7",
		Title:           "monthly invoice run",
		Notes:           "export before the 5th",
		Status:          StatusCompleted,
		Priority:        2,
		ProjectID:       &projectID,
		CreatedBy:       "s1",
		RepeatFrequency: RepeatMonthly,
	}

	next := NextTask(original, occ)
	if next.ParentTaskID == nil || *next.ParentTaskID != "t7" {
		t.Fatalf("parent = %v, want original id", next.ParentTaskID)
	}
	if next.Status != StatusNotStarted {
		t.Errorf("status = %q, want %q", next.Status, StatusNotStarted)
	}
	if next.CompletedAt != nil {
		t.Error("completed_at should be cleared")
	}
	if next.Title != original.Title || next.RepeatFrequency != RepeatMonthly {
		t.Error("descriptive fields should carry over")
	}

	// a later link in the chain keeps pointing at the root
	root := "t0"
	original.ParentTaskID = &root
	next = NextTask(original, occ)
	if *next.ParentTaskID != "t0" {
		t.Errorf("parent = %q, want root t0", *next.ParentTaskID)
	}
}
