package tree

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritual-tui/ritual/internal/models"
)

var t0 = time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local)

func task(id, title string, children ...models.Task) models.Task {
	t := models.NewTask(id, title, "2024-01-15", t0)
	if len(children) > 0 {
		t.Children = children
	}
	return t
}

func sample() []models.Task {
	return []models.Task{
		task("a", "A",
			task("a1", "A1",
				task("a1x", "A1x"),
			),
			task("a2", "A2"),
		),
		task("b", "B"),
	}
}

func TestFindByID(t *testing.T) {
	tasks := sample()

	got, ok := FindByID(tasks, "a1x")
	require.True(t, ok)
	assert.Equal(t, "A1x", got.Title)

	_, ok = FindByID(tasks, "missing")
	assert.False(t, ok)
	assert.True(t, Contains(tasks, "b"))
}

func TestFindPath(t *testing.T) {
	chain, ok := FindPath(sample(), "a1x")
	require.True(t, ok)
	require.Len(t, chain, 3)
	assert.Equal(t, "a", chain[0].ID)
	assert.Equal(t, "a1", chain[1].ID)
	assert.Equal(t, "a1x", chain[2].ID)
}

func TestUpdateRoundTripLeavesInputUntouched(t *testing.T) {
	tasks := sample()
	later := t0.Add(time.Hour)
	title := "renamed"

	updated := Update(tasks, "a1x", models.Patch{Title: &title}, later)

	got, ok := FindByID(updated, "a1x")
	require.True(t, ok)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, later, got.UpdatedAt)

	orig, _ := FindByID(tasks, "a1x")
	assert.Equal(t, "A1x", orig.Title)
	assert.Equal(t, t0, orig.UpdatedAt)
}

func TestUpdateMissingIDKeepsShape(t *testing.T) {
	tasks := sample()
	title := "x"
	updated := Update(tasks, "nope", models.Patch{Title: &title}, t0.Add(time.Minute))
	assert.Equal(t, tasks, updated)
}

func TestDeleteCascadesAndIsIdempotent(t *testing.T) {
	tasks := sample()

	once := Delete(tasks, "a1")
	twice := Delete(once, "a1")

	assert.Equal(t, once, twice)
	assert.False(t, Contains(once, "a1"))
	assert.False(t, Contains(once, "a1x"))
	require.Len(t, once[0].Children, 1)
	assert.Equal(t, "a2", once[0].Children[0].ID)
	assert.True(t, Contains(tasks, "a1x"), "input must not change")
}

func TestAddSubtask(t *testing.T) {
	tasks := sample()
	child := task("new", "New")

	updated := AddSubtask(tasks, "a", child)
	require.Len(t, updated[0].Children, 3)
	assert.Equal(t, "new", updated[0].Children[2].ID)
	assert.Len(t, tasks[0].Children, 2)

	unchanged := AddSubtask(tasks, "ghost", child)
	assert.Equal(t, tasks, unchanged)
}

func TestFlattenPreOrder(t *testing.T) {
	var ids []string
	for _, x := range Flatten(sample()) {
		ids = append(ids, x.ID)
	}
	assert.Equal(t, []string{"a", "a1", "a1x", "a2", "b"}, ids)
}

func TestStats(t *testing.T) {
	assert.Equal(t, models.TaskStats{}, Stats(nil))

	done := task("1", "one")
	done.State = models.TaskStateCompleted
	delegated := task("3", "three")
	delegated.State = models.TaskStateDelegated
	stats := Stats([]models.Task{done, task("2", "two"), delegated})

	assert.Equal(t, models.TaskStats{Total: 3, Completed: 1, Percentage: 33}, stats)

	nested := task("p", "parent", done)
	assert.Equal(t, models.TaskStats{Total: 2, Completed: 1, Percentage: 50}, Stats([]models.Task{nested}))
}

func TestTitlePathHelpers(t *testing.T) {
	root := sample()[0]

	path, ok := TitlePath(root, "a1x")
	require.True(t, ok)
	assert.Equal(t, []string{"A1", "A1x"}, path)

	_, ok = TitlePath(root, "a")
	assert.False(t, ok)

	renamed := MapTitlePath(root, path, func(t models.Task) models.Task {
		t.Title = "changed"
		return t
	})
	assert.Equal(t, "changed", renamed.Children[0].Children[0].Title)
	assert.Equal(t, "A1x", root.Children[0].Children[0].Title)

	pruned := DeleteTitlePath(root, []string{"A1"})
	require.Len(t, pruned.Children, 1)
	assert.Equal(t, "A2", pruned.Children[0].Title)
}
