// Package undo holds a bounded stack of whole-state snapshots.
package undo

import (
	"time"

	"github.com/ritual-tui/ritual/internal/models"
)

// MaxSize is the number of actions kept; older ones are dropped.
const MaxSize = 50

// ActionType names the operation an action rolls back.
type ActionType string

const (
	TaskAdd       ActionType = "TASK_ADD"
	TaskUpdate    ActionType = "TASK_UPDATE"
	TaskDelete    ActionType = "TASK_DELETE"
	TimelineClear ActionType = "TIMELINE_CLEAR"
)

// Action is the state as it was before an operation.
type Action struct {
	Type             ActionType      `json:"type"`
	Timestamp        time.Time       `json:"timestamp"`
	PreviousTasks    models.TaskTree `json:"previousTasks"`
	PreviousTimeline models.Timeline `json:"previousTimeline"`
}

// Stack is a LIFO of actions. The zero value is ready to use.
type Stack struct {
	actions []Action
	now     func() time.Time
}

// New returns an empty stack stamping actions with now.
func New(now func() time.Time) *Stack {
	return &Stack{now: now}
}

// Push snapshots tasks and timeline. The snapshots are deep copies, so later
// changes to the live state do not leak into them.
func (s *Stack) Push(typ ActionType, tasks models.TaskTree, tl models.Timeline) {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	s.actions = append(s.actions, Action{
		Type:             typ,
		Timestamp:        now(),
		PreviousTasks:    tasks.Clone(),
		PreviousTimeline: tl.Clone(),
	})
	if len(s.actions) > MaxSize {
		s.actions = append([]Action(nil), s.actions[len(s.actions)-MaxSize:]...)
	}
}

// Undo pops the most recent action. ok is false when there is nothing to undo.
func (s *Stack) Undo() (Action, bool) {
	if len(s.actions) == 0 {
		return Action{}, false
	}
	last := s.actions[len(s.actions)-1]
	s.actions = s.actions[:len(s.actions)-1]
	return last, true
}

// CanUndo reports whether Undo would return an action.
func (s *Stack) CanUndo() bool { return len(s.actions) > 0 }

// Len returns the number of stored actions.
func (s *Stack) Len() int { return len(s.actions) }

// Clear drops every action.
func (s *Stack) Clear() { s.actions = nil }

// Actions returns the stored actions oldest first.
func (s *Stack) Actions() []Action {
	return append([]Action(nil), s.actions...)
}

// Restore replaces the stack contents, keeping the newest MaxSize actions.
func (s *Stack) Restore(actions []Action) {
	if len(actions) > MaxSize {
		actions = actions[len(actions)-MaxSize:]
	}
	s.actions = append([]Action(nil), actions...)
}
