// Package session owns the live task tree and timeline of one running
// instance and sequences the task, timeline and undo services for each
// user action.
package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ritual-tui/ritual/internal/models"
	"github.com/ritual-tui/ritual/internal/move"
	"github.com/ritual-tui/ritual/internal/task"
	"github.com/ritual-tui/ritual/internal/timeline"
	"github.com/ritual-tui/ritual/internal/undo"
)

// ErrScopeRequired is returned when a recurring task is edited without saying
// which occurrences the edit reaches.
var ErrScopeRequired = errors.New("recurring task: choose a scope (this, all or from-today)")

// Session is the single source of truth for tasks and timeline.
type Session struct {
	Tasks    models.TaskTree
	Timeline models.Timeline
	Settings models.Settings
	Undo     *undo.Stack

	tasks   *task.Manager
	views   map[string][]models.Task
	changed bool
}

// New starts a session over schema. A nil stack starts an empty one.
func New(schema *models.Schema, m *task.Manager, stack *undo.Stack) *Session {
	if stack == nil {
		stack = undo.New(m.Now)
	}
	s := &Session{
		Tasks:    schema.Tasks,
		Timeline: schema.Timeline,
		Settings: schema.Settings,
		Undo:     stack,
		tasks:    m,
	}
	if s.Tasks == nil {
		s.Tasks = models.TaskTree{}
	}
	if s.Timeline == nil {
		s.Timeline = models.Timeline{}
	}
	return s
}

// Schema returns the document to persist.
func (s *Session) Schema() *models.Schema {
	return &models.Schema{
		Version:  models.SchemaVersion,
		Tasks:    s.Tasks,
		Timeline: s.Timeline,
		Settings: s.Settings,
	}
}

// Changed reports whether the state differs from what the session started with.
func (s *Session) Changed() bool { return s.changed }

// Manager returns the task manager the session runs on.
func (s *Session) Manager() *task.Manager { return s.tasks }

// Load runs the start-up housekeeping: unfinished tasks from past days move to
// today when the setting allows it. It returns the dates tasks were moved from.
func (s *Session) Load() []string {
	if !s.Settings.AutoMoveUnfinishedTasks {
		slog.Debug("auto-move disabled, skipping")
		return nil
	}
	moved, from := move.AutoMoveToToday(s.Tasks, s.tasks.Now())
	if len(from) > 0 {
		s.Tasks = moved
		s.changed = true
		s.invalidate()
	}
	return from
}

// Today returns the session's current date.
func (s *Session) Today() string { return s.tasks.Today() }

// IsToday reports whether date is the current date.
func (s *Session) IsToday(date string) bool { return date == s.Today() }

// View returns the tasks visible on date. Ephemeral instances keep their ids
// until the next mutation, so ids taken from a view can be passed back in.
func (s *Session) View(date string) []models.Task {
	if s.views == nil {
		s.views = make(map[string][]models.Task)
	}
	if v, ok := s.views[date]; ok {
		return v
	}
	v := s.tasks.VisibleTasks(s.Tasks, date)
	s.views[date] = v
	return v
}

// Persisted reports whether id is stored on some date. Ephemeral recurring
// instances are not, and their ids change between runs.
func (s *Session) Persisted(id string) bool {
	return s.tasks.IsMaterialized(s.Tasks, id)
}

// Target resolves id among the tasks visible on date.
func (s *Session) Target(date, id string) (task.Target, error) {
	return task.ResolveIn(s.View(date), date, id)
}

// AddTask creates a top-level task on date.
func (s *Session) AddTask(date, title string) (models.Task, error) {
	tt, created, err := s.tasks.AddTask(s.Tasks, title, date)
	if err != nil {
		return models.Task{}, err
	}
	s.commit(undo.TaskAdd, tt, s.Timeline)
	return created, nil
}

// AddSubtask adds a subtask under parentID as seen on date.
func (s *Session) AddSubtask(date, parentID, title string, scope task.Scope) error {
	t, err := s.scopedTarget(date, parentID, scope)
	if err != nil {
		return err
	}
	tt, err := s.tasks.AddSubtaskScoped(s.Tasks, t, title, scope)
	if err != nil {
		return err
	}
	s.commit(undo.TaskAdd, tt, s.Timeline)
	return nil
}

// Rename changes a task's title.
func (s *Session) Rename(date, id, title string, scope task.Scope) error {
	t, err := s.scopedTarget(date, id, scope)
	if err != nil {
		return err
	}
	tt, err := s.tasks.UpdateScoped(s.Tasks, t, models.Patch{Title: &title}, scope)
	if err != nil {
		return err
	}
	s.commit(undo.TaskUpdate, tt, s.Timeline)
	return nil
}

// Delete removes a task and drops its timeline events. Deleting every
// occurrence also drops the events of the definition.
func (s *Session) Delete(date, id string, scope task.Scope) error {
	t, err := s.scopedTarget(date, id, scope)
	if err != nil {
		return err
	}
	tt, err := s.tasks.DeleteScoped(s.Tasks, t, scope)
	if err != nil {
		return err
	}

	tl := timeline.RemoveEventsByTaskID(s.Timeline, id)
	if scope == task.ScopeAll && t.IsRoot() {
		if defID, ok := t.Root.DefinitionID(); ok && defID != id {
			tl = timeline.RemoveEventsByTaskID(tl, defID)
		}
	}
	s.commit(undo.TaskDelete, tt, tl)
	return nil
}

// SetState moves a single occurrence to state, materializing it first if needed.
// Going back to todo removes the last event of the previous state; any other
// change is logged only when date is today.
func (s *Session) SetState(date, id string, state models.TaskState) error {
	t, err := s.Target(date, id)
	if err != nil {
		return err
	}
	prev := t.Task.State

	tt, err := s.tasks.ChangeState(s.tasks.EnsureMaterialized(s.Tasks, t), id, state)
	if err != nil {
		return err
	}

	tl := s.Timeline
	if state == models.TaskStateTodo {
		if typ, ok := timeline.EventTypeForState(prev); ok {
			tl = timeline.RemoveLastEventByType(tl, id, typ)
		}
	} else if s.IsToday(date) {
		if e, ok := timeline.TransitionEvent(t.Task, prev, state, s.tasks.Now()); ok {
			tl = timeline.AddEvent(tl, e)
		}
	} else {
		slog.Debug("not today, skipping timeline event", "date", date, "task", id)
	}

	s.commit(undo.TaskUpdate, tt, tl)
	return nil
}

// ToggleComplete flips between completed and todo.
func (s *Session) ToggleComplete(date, id string) error {
	return s.toggle(date, id, models.TaskStateCompleted)
}

// ToggleDelayed flips between delayed and todo.
func (s *Session) ToggleDelayed(date, id string) error {
	return s.toggle(date, id, models.TaskStateDelayed)
}

// Delegate flips between delegated and todo.
func (s *Session) Delegate(date, id string) error {
	return s.toggle(date, id, models.TaskStateDelegated)
}

func (s *Session) toggle(date, id string, state models.TaskState) error {
	t, err := s.Target(date, id)
	if err != nil {
		return err
	}
	if t.Task.State == state {
		state = models.TaskStateTodo
	}
	return s.SetState(date, id, state)
}

// ToggleStart starts a task, or stops it when it is running. Stopping removes
// the last started event; starting logs one when date is today.
func (s *Session) ToggleStart(date, id string) error {
	t, err := s.Target(date, id)
	if err != nil {
		return err
	}
	tt := s.tasks.EnsureMaterialized(s.Tasks, t)
	tl := s.Timeline

	if t.Task.IsRunning() {
		tt, err = s.tasks.UpdateTask(tt, id, models.Patch{ClearStartTime: true})
		if err != nil {
			return err
		}
		tl = timeline.RemoveLastEventByType(tl, id, models.EventStarted)
	} else {
		tt, err = s.tasks.StartTask(tt, id)
		if err != nil {
			return err
		}
		if s.IsToday(date) {
			tl = timeline.AddEvent(tl, timeline.CreateEvent(id, t.Task.Title, models.EventStarted, s.tasks.Now(), nil, nil))
		}
	}

	s.commit(undo.TaskUpdate, tt, tl)
	return nil
}

// SetRecurrence makes a persisted top-level task recur, or stops it when p is nil.
func (s *Session) SetRecurrence(date, id string, p *models.RecurrencePattern) error {
	t, err := s.Target(date, id)
	if err != nil {
		return err
	}
	if !t.IsRoot() {
		return task.ErrNestedRecurrence
	}
	if t.Task.IsRecurringInstance {
		return task.ErrInstanceRecurrence
	}
	tt, err := s.tasks.SetRecurrence(s.Tasks, id, p)
	if err != nil {
		return err
	}
	s.commit(undo.TaskUpdate, tt, s.Timeline)
	return nil
}

// ExcludeOccurrence skips date for a recurring definition.
func (s *Session) ExcludeOccurrence(definitionID, date string) error {
	tt, err := s.tasks.ExcludeOccurrence(s.Tasks, definitionID, date)
	if err != nil {
		return err
	}
	s.commit(undo.TaskUpdate, tt, s.Timeline)
	return nil
}

// Move moves unfinished tasks from one date to another.
func (s *Session) Move(from, to string) {
	tt := move.MoveToDate(s.Tasks, from, to, s.tasks.Now())
	s.commit(undo.TaskUpdate, tt, s.Timeline)
}

// MoveUnfinishedToToday rolls every past date's unfinished tasks onto today
// as one undoable action. It returns the dates tasks were moved from.
func (s *Session) MoveUnfinishedToToday() []string {
	moved, from := move.AutoMoveToToday(s.Tasks, s.tasks.Now())
	if len(from) > 0 {
		s.commit(undo.TaskUpdate, moved, s.Timeline)
	}
	return from
}

// SetSetting changes one document setting by name. Settings are not part of
// the undo history.
func (s *Session) SetSetting(key, value string) error {
	next := s.Settings
	if err := next.Set(key, value); err != nil {
		return err
	}
	if next != s.Settings {
		s.Settings = next
		s.changed = true
	}
	return nil
}

// ClearTimeline removes every event recorded on date.
func (s *Session) ClearTimeline(date string) {
	s.commit(undo.TimelineClear, s.Tasks, timeline.ClearDate(s.Timeline, date))
}

// UndoLast restores the state before the most recent action.
func (s *Session) UndoLast() (undo.Action, bool) {
	action, ok := s.Undo.Undo()
	if !ok {
		return undo.Action{}, false
	}
	s.Tasks = action.PreviousTasks
	s.Timeline = action.PreviousTimeline
	s.changed = true
	s.invalidate()
	return action, true
}

// Replace swaps in a whole document, for example after an import. It is undoable.
func (s *Session) Replace(schema *models.Schema) {
	s.commit(undo.TaskUpdate, schema.Tasks, schema.Timeline)
	s.Settings = schema.Settings
}

func (s *Session) scopedTarget(date, id string, scope task.Scope) (task.Target, error) {
	t, err := s.Target(date, id)
	if err != nil {
		return task.Target{}, err
	}
	if t.Recurring() && scope == task.ScopeNone {
		return task.Target{}, fmt.Errorf("%w: %q", ErrScopeRequired, t.Task.Title)
	}
	return t, nil
}

func (s *Session) commit(typ undo.ActionType, tt models.TaskTree, tl models.Timeline) {
	s.Undo.Push(typ, s.Tasks, s.Timeline)
	s.Tasks = tt
	s.Timeline = tl
	s.changed = true
	s.invalidate()
}

func (s *Session) invalidate() {
	s.views = nil
}
