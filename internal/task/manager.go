// Package task implements the task lifecycle over a date-keyed task tree.
//
// Every Manager method takes the current tree and returns a new one; the
// caller owns the single live tree and swaps it after each call.
package task

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ritual-tui/ritual/internal/dates"
	"github.com/ritual-tui/ritual/internal/models"
	"github.com/ritual-tui/ritual/internal/recurrence"
	"github.com/ritual-tui/ritual/internal/tree"
	"github.com/ritual-tui/ritual/internal/validate"
)

// Manager handles task operations.
type Manager struct {
	now   func() time.Time
	newID func() string
}

// NewManager creates a new task manager using the wall clock.
func NewManager() *Manager {
	return &Manager{now: time.Now, newID: uuid.NewString}
}

// WithClock returns a copy of m reading time from now.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	cp := *m
	cp.now = now
	return &cp
}

// Now returns the manager's current time.
func (m *Manager) Now() time.Time {
	return m.now()
}

// Today returns the manager's current calendar date.
func (m *Manager) Today() string {
	return dates.Today(m.now())
}

// CreateTask validates title and returns a new todo task for date.
func (m *Manager) CreateTask(title, date string) (models.Task, error) {
	if err := validate.Title(title); err != nil {
		return models.Task{}, err
	}
	if _, err := dates.Parse(date); err != nil {
		return models.Task{}, err
	}
	slog.Debug("creating task", "title", title, "date", date)
	return models.NewTask(m.newID(), title, date, m.now()), nil
}

// AddTask creates a task and appends it to date's bucket.
func (m *Manager) AddTask(tt models.TaskTree, title, date string) (models.TaskTree, models.Task, error) {
	t, err := m.CreateTask(title, date)
	if err != nil {
		return tt, models.Task{}, err
	}
	out := tt.Copy()
	out[date] = appendTask(tt[date], t)
	return out, t, nil
}

// TasksForDate returns the persisted root tasks of date.
func (m *Manager) TasksForDate(tt models.TaskTree, date string) []models.Task {
	return tt[date]
}

// AllTasks returns every persisted root task, ordered by date.
func (m *Manager) AllTasks(tt models.TaskTree) []models.Task {
	var out []models.Task
	for _, date := range sortedDates(tt) {
		out = append(out, tt[date]...)
	}
	return out
}

// Stats summarizes the persisted tasks of date.
func (m *Manager) Stats(tt models.TaskTree, date string) models.TaskStats {
	return tree.Stats(tt[date])
}

// VisibleTasks returns date's persisted tasks followed by ephemeral instances of
// every recurring definition in the tree that occurs on date and has not been
// materialized there. Instances are rebuilt on every call.
func (m *Manager) VisibleTasks(tt models.TaskTree, date string) []models.Task {
	existing := tt[date]
	out := make([]models.Task, 0, len(existing))
	out = append(out, existing...)

	target, err := dates.Parse(date)
	if err != nil {
		slog.Warn("visible tasks for bad date", "date", date, "error", err)
		return out
	}

	now := m.now()
	generated := make(map[string]bool)
	for _, d := range sortedDates(tt) {
		for _, def := range tt[d] {
			if !def.IsDefinition() || generated[def.ID] {
				continue
			}
			if !recurrence.ShouldTaskGenerate(def, target) {
				continue
			}
			if hasInstance(existing, def.ID) {
				continue
			}
			generated[def.ID] = true
			out = append(out, recurrence.GenerateInstance(def, date, now))
		}
	}
	return out
}

func hasInstance(tasks []models.Task, defID string) bool {
	for _, t := range tasks {
		if t.RecurringParentID != nil && *t.RecurringParentID == defID {
			return true
		}
		if t.ID == defID && t.IsRecurringInstance {
			return true
		}
	}
	return false
}

// UpdateTask applies patch to a persisted task. Ephemeral instances are not
// found here; materialize them first.
func (m *Manager) UpdateTask(tt models.TaskTree, id string, patch models.Patch) (models.TaskTree, error) {
	date, ok := findDate(tt, id)
	if !ok {
		return tt, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	if patch.Title != nil {
		if err := validate.Title(*patch.Title); err != nil {
			return tt, err
		}
	}
	if patch.TouchesTimes() {
		cur, _ := tree.FindByID(tt[date], id)
		if err := validate.Times(patch.Apply(cur), m.now()); err != nil {
			return tt, err
		}
	}

	slog.Debug("updating task", "id", id, "date", date)
	out := tt.Copy()
	out[date] = tree.Update(tt[date], id, patch, m.now())
	return out, nil
}

// DeleteTask removes a task and its subtree. Unknown ids, such as ephemeral
// instances that were never materialized, leave the tree unchanged.
func (m *Manager) DeleteTask(tt models.TaskTree, id string) models.TaskTree {
	date, ok := findDate(tt, id)
	if !ok {
		slog.Debug("task not found for deletion, may be an ephemeral instance", "id", id)
		return tt
	}
	slog.Debug("deleting task", "id", id, "date", date)
	out := tt.Copy()
	out[date] = tree.Delete(tt[date], id)
	return out
}

// AddSubtask appends a new todo task titled title under parentID.
func (m *Manager) AddSubtask(tt models.TaskTree, parentID, title string) (models.TaskTree, models.Task, error) {
	if err := validate.Title(title); err != nil {
		return tt, models.Task{}, err
	}
	date, ok := findDate(tt, parentID)
	if !ok {
		return tt, models.Task{}, fmt.Errorf("%w: %s", ErrParentNotFound, parentID)
	}
	parent, _ := tree.FindByID(tt[date], parentID)

	child := m.newChild(parent, title)
	out := tt.Copy()
	out[date] = tree.AddSubtask(tt[date], parentID, child)
	return out, child, nil
}

func (m *Manager) newChild(parent models.Task, title string) models.Task {
	child := models.NewTask(m.newID(), title, parent.Date, m.now())
	child.ParentID = models.StringPtr(parent.ID)
	return child
}

// ChangeState sets the task's state. Terminal states stamp endTime; todo clears it.
func (m *Manager) ChangeState(tt models.TaskTree, id string, state models.TaskState) (models.TaskTree, error) {
	if !state.Valid() {
		return tt, fmt.Errorf("%w: %q", ErrInvalidState, state)
	}
	slog.Debug("changing task state", "id", id, "state", state)

	patch := models.Patch{State: &state}
	if state.IsTerminal() {
		now := m.now()
		patch.EndTime = &now
	} else {
		patch.ClearEndTime = true
	}
	return m.UpdateTask(tt, id, patch)
}

// StartTask stamps startTime, clears endTime and resets the task to todo.
func (m *Manager) StartTask(tt models.TaskTree, id string) (models.TaskTree, error) {
	now := m.now()
	todo := models.TaskStateTodo
	return m.UpdateTask(tt, id, models.Patch{
		StartTime:    &now,
		ClearEndTime: true,
		State:        &todo,
	})
}

// ExcludeOccurrence records date as skipped on a recurring definition.
// Tasks without a pattern are left as they are.
func (m *Manager) ExcludeOccurrence(tt models.TaskTree, definitionID, date string) (models.TaskTree, error) {
	d, ok := findDate(tt, definitionID)
	if !ok {
		return tt, fmt.Errorf("%w: %s", ErrDefinitionNotFound, definitionID)
	}
	def, _ := tree.FindByID(tt[d], definitionID)
	if def.Recurrence == nil {
		return tt, nil
	}

	slog.Debug("excluding recurring occurrence", "definition", definitionID, "date", date)
	p := def.Recurrence.Clone()
	if !p.IsExcluded(date) {
		p.ExcludedDates = append(p.ExcludedDates, date)
	}
	out := tt.Copy()
	out[d] = tree.Update(tt[d], definitionID, models.Patch{Recurrence: p}, m.now())
	return out, nil
}

// SetRecurrence attaches p to a top-level task, or clears the pattern when p is nil.
func (m *Manager) SetRecurrence(tt models.TaskTree, id string, p *models.RecurrencePattern) (models.TaskTree, error) {
	date, ok := findDate(tt, id)
	if !ok {
		return tt, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	chain, _ := tree.FindPath(tt[date], id)
	if len(chain) > 1 {
		return tt, ErrNestedRecurrence
	}
	if chain[0].IsRecurringInstance {
		return tt, ErrInstanceRecurrence
	}

	patch := models.Patch{ClearRecurrence: true}
	if p != nil {
		if err := recurrence.Validate(p); err != nil {
			return tt, err
		}
		patch = models.Patch{Recurrence: p}
	}
	return m.UpdateTask(tt, id, patch)
}

// IsMaterialized reports whether id is persisted anywhere in the tree.
func (m *Manager) IsMaterialized(tt models.TaskTree, id string) bool {
	_, ok := findDate(tt, id)
	return ok
}

// Materialize persists an ephemeral instance into its date bucket.
// Instances already present are left alone.
func (m *Manager) Materialize(tt models.TaskTree, inst models.Task) models.TaskTree {
	if tree.Contains(tt[inst.Date], inst.ID) {
		return tt
	}
	slog.Debug("materializing recurring instance", "id", inst.ID, "date", inst.Date)
	out := tt.Copy()
	out[inst.Date] = appendTask(tt[inst.Date], inst)
	return out
}

// Locate finds id in a visible task list and returns it with its top-level ancestor.
func Locate(view []models.Task, id string) (task, root models.Task, ok bool) {
	chain, ok := tree.FindPath(view, id)
	if !ok {
		return models.Task{}, models.Task{}, false
	}
	return chain[len(chain)-1], chain[0], true
}

func findDate(tt models.TaskTree, id string) (string, bool) {
	for _, date := range sortedDates(tt) {
		if tree.Contains(tt[date], id) {
			return date, true
		}
	}
	return "", false
}

func sortedDates(tt models.TaskTree) []string {
	keys := make([]string, 0, len(tt))
	for k := range tt {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func appendTask(tasks []models.Task, t models.Task) []models.Task {
	out := make([]models.Task, 0, len(tasks)+1)
	out = append(out, tasks...)
	return append(out, t)
}
