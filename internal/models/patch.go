package models

import "time"

// Patch is a partial update of a task.
// nil pointer => no change; Clear* => unset the optional field.
type Patch struct {
	Title      *string
	State      *TaskState
	Date       *string
	StartTime  *time.Time
	EndTime    *time.Time
	Recurrence *RecurrencePattern

	ClearStartTime  bool
	ClearEndTime    bool
	ClearRecurrence bool
}

// Apply returns a copy of t with the patch merged in. updatedAt is not touched.
func (p Patch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.State != nil {
		t.State = *p.State
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.StartTime != nil {
		t.StartTime = TimePtr(*p.StartTime)
	}
	if p.ClearStartTime {
		t.StartTime = nil
	}
	if p.EndTime != nil {
		t.EndTime = TimePtr(*p.EndTime)
	}
	if p.ClearEndTime {
		t.EndTime = nil
	}
	if p.Recurrence != nil {
		t.Recurrence = p.Recurrence.Clone()
	}
	if p.ClearRecurrence {
		t.Recurrence = nil
	}
	return t
}

// TouchesTimes reports whether the patch sets a start or end time.
func (p Patch) TouchesTimes() bool {
	return p.StartTime != nil || p.EndTime != nil
}
