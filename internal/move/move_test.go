package move

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritual-tui/ritual/internal/models"
)

var created = time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)

func task(id, date string, state models.TaskState, children ...models.Task) models.Task {
	t := models.NewTask(id, id, date, created)
	t.State = state
	if state.IsTerminal() {
		t.EndTime = models.TimePtr(created.Add(time.Hour))
	}
	if len(children) > 0 {
		t.Children = children
	}
	return t
}

func ids(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestUnfinishedTasksAnyDepth(t *testing.T) {
	tasks := []models.Task{
		task("a", "2024-01-10", models.TaskStateCompleted,
			task("a1", "2024-01-10", models.TaskStateTodo),
		),
		task("b", "2024-01-10", models.TaskStateTodo),
		task("c", "2024-01-10", models.TaskStateDelayed),
	}
	assert.Equal(t, []string{"a1", "b"}, ids(UnfinishedTasks(tasks)))
}

func TestMoveToDateTopLevelOnly(t *testing.T) {
	now := time.Date(2024, 1, 12, 8, 0, 0, 0, time.Local)
	running := task("b", "2024-01-10", models.TaskStateTodo)
	running.StartTime = models.TimePtr(created)

	tt := models.TaskTree{
		"2024-01-10": {
			task("a", "2024-01-10", models.TaskStateCompleted,
				task("a1", "2024-01-10", models.TaskStateTodo),
			),
			running,
		},
		"2024-01-12": {task("z", "2024-01-12", models.TaskStateTodo)},
	}

	out := MoveToDate(tt, "2024-01-10", "2024-01-12", now)

	assert.Equal(t, []string{"a"}, ids(out["2024-01-10"]))
	require.Len(t, out["2024-01-10"][0].Children, 1, "nested unfinished subtask stays with its parent")
	assert.Equal(t, []string{"z", "b"}, ids(out["2024-01-12"]))

	moved := out["2024-01-12"][1]
	assert.Equal(t, "2024-01-12", moved.Date)
	assert.Nil(t, moved.StartTime)
	assert.Equal(t, now, moved.UpdatedAt)

	assert.Len(t, tt["2024-01-10"], 2, "input must not change")
	assert.NotNil(t, tt["2024-01-10"][1].StartTime)
}

func TestMoveToDateNothingUnfinished(t *testing.T) {
	tt := models.TaskTree{"2024-01-10": {task("a", "2024-01-10", models.TaskStateCompleted)}}
	assert.Equal(t, tt, MoveToDate(tt, "2024-01-10", "2024-01-12", created))
}

func TestAutoMoveToToday(t *testing.T) {
	now := time.Date(2024, 1, 12, 8, 0, 0, 0, time.Local)
	tt := models.TaskTree{
		"2024-01-11": {task("late", "2024-01-11", models.TaskStateTodo)},
		"2024-01-09": {task("early", "2024-01-09", models.TaskStateTodo)},
		"2024-01-10": {task("done", "2024-01-10", models.TaskStateCompleted)},
		"2024-01-13": {task("future", "2024-01-13", models.TaskStateTodo)},
	}

	assert.Equal(t, []string{"2024-01-09", "2024-01-11"}, DatesWithUnfinished(tt, "2024-01-12"))

	out, from := AutoMoveToToday(tt, now)
	assert.Equal(t, []string{"2024-01-09", "2024-01-11"}, from)
	assert.Equal(t, []string{"early", "late"}, ids(out["2024-01-12"]))
	assert.Empty(t, out["2024-01-09"])
	assert.Empty(t, out["2024-01-11"])
	assert.Equal(t, []string{"done"}, ids(out["2024-01-10"]))
	assert.Equal(t, []string{"future"}, ids(out["2024-01-13"]))
}
