package models

import "time"

// TaskState represents the state of a task.
type TaskState string

const (
	TaskStateTodo      TaskState = "todo"
	TaskStateCompleted TaskState = "completed"
	TaskStateDelegated TaskState = "delegated"
	TaskStateDelayed   TaskState = "delayed"
)

// IsTerminal reports whether the state carries an end time.
func (s TaskState) IsTerminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateDelegated, TaskStateDelayed:
		return true
	}
	return false
}

// Valid reports whether s is one of the known states.
func (s TaskState) Valid() bool {
	return s == TaskStateTodo || s.IsTerminal()
}

// Frequency is how often a recurring task repeats.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekdays Frequency = "weekdays"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyYearly   Frequency = "yearly"
	FrequencyCustom   Frequency = "custom"
)

// RecurrencePattern describes when a recurring definition produces instances.
type RecurrencePattern struct {
	Frequency     Frequency  `json:"frequency"`
	Interval      int        `json:"interval,omitempty"`   // custom only, in days
	DaysOfWeek    []int      `json:"daysOfWeek,omitempty"` // custom only, 0 = Sunday
	EndDate       *time.Time `json:"endDate,omitempty"`
	ExcludedDates []string   `json:"excludedDates,omitempty"` // YYYY-MM-DD
}

// IsExcluded reports whether date is in the exclusion list.
func (p *RecurrencePattern) IsExcluded(date string) bool {
	if p == nil {
		return false
	}
	for _, d := range p.ExcludedDates {
		if d == date {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the pattern.
func (p *RecurrencePattern) Clone() *RecurrencePattern {
	if p == nil {
		return nil
	}
	out := *p
	if p.DaysOfWeek != nil {
		out.DaysOfWeek = append([]int(nil), p.DaysOfWeek...)
	}
	if p.ExcludedDates != nil {
		out.ExcludedDates = append([]string(nil), p.ExcludedDates...)
	}
	out.EndDate = cloneTime(p.EndDate)
	return &out
}

// Task is a single entry in the daily tree. Children are owned by their parent.
type Task struct {
	ID                  string             `json:"id"`
	Title               string             `json:"title"`
	State               TaskState          `json:"state"`
	CreatedAt           time.Time          `json:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt"`
	StartTime           *time.Time         `json:"startTime,omitempty"`
	EndTime             *time.Time         `json:"endTime,omitempty"`
	Children            []Task             `json:"children"`
	ParentID            *string            `json:"parentId,omitempty"`
	Date                string             `json:"date"` // YYYY-MM-DD
	Recurrence          *RecurrencePattern `json:"recurrence,omitempty"`
	IsRecurringInstance bool               `json:"isRecurringInstance,omitempty"`
	RecurringParentID   *string            `json:"recurringParentId,omitempty"`
}

// NewTask creates a todo task with no children.
func NewTask(id, title, date string, now time.Time) Task {
	return Task{
		ID:        id,
		Title:     title,
		State:     TaskStateTodo,
		CreatedAt: now,
		UpdatedAt: now,
		Children:  []Task{},
		Date:      date,
	}
}

// IsDefinition reports whether the task anchors a recurrence.
func (t Task) IsDefinition() bool {
	return t.Recurrence != nil && !t.IsRecurringInstance
}

// IsRecurring reports whether the task is a definition or an instance.
func (t Task) IsRecurring() bool {
	return t.Recurrence != nil || t.IsRecurringInstance
}

// DefinitionID returns the id of the definition this task belongs to, if any.
func (t Task) DefinitionID() (string, bool) {
	if t.IsRecurringInstance && t.RecurringParentID != nil {
		return *t.RecurringParentID, true
	}
	if t.Recurrence != nil {
		return t.ID, true
	}
	return "", false
}

// IsRunning reports whether the task was started and has not ended.
func (t Task) IsRunning() bool {
	return t.StartTime != nil && t.EndTime == nil
}

// Clone returns a deep copy of the task and its subtree.
func (t Task) Clone() Task {
	out := t
	out.StartTime = cloneTime(t.StartTime)
	out.EndTime = cloneTime(t.EndTime)
	out.ParentID = cloneString(t.ParentID)
	out.RecurringParentID = cloneString(t.RecurringParentID)
	out.Recurrence = t.Recurrence.Clone()
	out.Children = CloneTasks(t.Children)
	return out
}

// CloneTasks deep-copies a task list. A nil list becomes an empty one.
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// TaskTree maps a YYYY-MM-DD date to the root tasks of that day.
type TaskTree map[string][]Task

// Clone deep-copies the tree.
func (tt TaskTree) Clone() TaskTree {
	out := make(TaskTree, len(tt))
	for date, tasks := range tt {
		out[date] = CloneTasks(tasks)
	}
	return out
}

// Copy returns a shallow copy of the map; bucket slices are shared.
func (tt TaskTree) Copy() TaskTree {
	out := make(TaskTree, len(tt)+1)
	for date, tasks := range tt {
		out[date] = tasks
	}
	return out
}

// TaskStats summarizes completion for a list of tasks.
type TaskStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Percentage int `json:"percentage"`
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time { return &t }

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }
