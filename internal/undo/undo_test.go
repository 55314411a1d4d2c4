package undo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritual-tui/ritual/internal/models"
)

var t0 = time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local)

func treeWith(title string) models.TaskTree {
	return models.TaskTree{"2024-01-15": {models.NewTask("id-"+title, title, "2024-01-15", t0)}}
}

func TestUndoReturnsActionsInReverse(t *testing.T) {
	s := New(func() time.Time { return t0 })
	s.Push(TaskAdd, treeWith("one"), models.Timeline{})
	s.Push(TaskUpdate, treeWith("two"), models.Timeline{})
	s.Push(TaskDelete, treeWith("three"), models.Timeline{})

	for _, want := range []ActionType{TaskDelete, TaskUpdate, TaskAdd} {
		got, ok := s.Undo()
		require.True(t, ok)
		assert.Equal(t, want, got.Type)
	}

	_, ok := s.Undo()
	assert.False(t, ok)
	assert.False(t, s.CanUndo())
}

func TestPushSnapshotsAreDeep(t *testing.T) {
	var s Stack
	live := treeWith("before")
	s.Push(TaskUpdate, live, models.Timeline{})

	live["2024-01-15"][0].Title = "after"
	live["2024-01-15"][0].Children = append(live["2024-01-15"][0].Children, models.NewTask("c", "c", "2024-01-15", t0))

	got, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, "before", got.PreviousTasks["2024-01-15"][0].Title)
	assert.Empty(t, got.PreviousTasks["2024-01-15"][0].Children)
}

func TestStackIsBounded(t *testing.T) {
	var s Stack
	for i := 0; i < MaxSize+5; i++ {
		s.Push(TaskAdd, models.TaskTree{}, models.Timeline{})
	}
	s.Push(TimelineClear, models.TaskTree{}, models.Timeline{})

	assert.Equal(t, MaxSize, s.Len())
	last, _ := s.Undo()
	assert.Equal(t, TimelineClear, last.Type)

	s.Clear()
	assert.Zero(t, s.Len())
}

func TestRestoreKeepsNewest(t *testing.T) {
	actions := make([]Action, MaxSize+3)
	for i := range actions {
		actions[i] = Action{Type: TaskAdd}
	}
	actions[len(actions)-1].Type = TaskDelete

	var s Stack
	s.Restore(actions)
	assert.Equal(t, MaxSize, s.Len())
	assert.Len(t, s.Actions(), MaxSize)

	last, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, TaskDelete, last.Type)
}
