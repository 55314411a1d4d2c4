// Package tree provides non-mutating operations over nested task lists.
//
// Every function returns a new slice and leaves its input untouched, so a caller
// holding the previous tree can keep using it (undo snapshots rely on this).
package tree

import (
	"math"
	"time"

	"github.com/ritual-tui/ritual/internal/models"
)

// FindByID searches tasks depth-first and returns the matching task.
func FindByID(tasks []models.Task, id string) (models.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
		if found, ok := FindByID(t.Children, id); ok {
			return found, true
		}
	}
	return models.Task{}, false
}

// Contains reports whether id exists anywhere in tasks.
func Contains(tasks []models.Task, id string) bool {
	_, ok := FindByID(tasks, id)
	return ok
}

// FindPath returns the chain of tasks from a root down to id, inclusive.
func FindPath(tasks []models.Task, id string) ([]models.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return []models.Task{t}, true
		}
		if sub, ok := FindPath(t.Children, id); ok {
			return append([]models.Task{t}, sub...), true
		}
	}
	return nil, false
}

// Update replaces the task with id by patch applied to it and stamps updatedAt.
// Ancestors on the path are rebuilt; a missing id yields an equal-shaped copy.
func Update(tasks []models.Task, id string, patch models.Patch, now time.Time) []models.Task {
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		if t.ID == id {
			t = patch.Apply(t)
			t.UpdatedAt = now
			out[i] = t
			continue
		}
		t.Children = Update(t.Children, id, patch, now)
		out[i] = t
	}
	return out
}

// Map rebuilds tasks, replacing every task for which fn returns true.
// fn is applied pre-order; replaced tasks are not descended into.
func Map(tasks []models.Task, fn func(models.Task) (models.Task, bool)) []models.Task {
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		if nt, ok := fn(t); ok {
			out[i] = nt
			continue
		}
		t.Children = Map(t.Children, fn)
		out[i] = t
	}
	return out
}

// Delete removes id and its whole subtree.
func Delete(tasks []models.Task, id string) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == id {
			continue
		}
		t.Children = Delete(t.Children, id)
		out = append(out, t)
	}
	return out
}

// AddSubtask appends child to parentID's children. Unknown parents leave the tree unchanged.
func AddSubtask(tasks []models.Task, parentID string, child models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		if t.ID == parentID {
			children := make([]models.Task, 0, len(t.Children)+1)
			children = append(children, t.Children...)
			t.Children = append(children, child)
			out[i] = t
			continue
		}
		t.Children = AddSubtask(t.Children, parentID, child)
		out[i] = t
	}
	return out
}

// Flatten lists every task in pre-order.
func Flatten(tasks []models.Task) []models.Task {
	var out []models.Task
	var walk func([]models.Task)
	walk = func(list []models.Task) {
		for _, t := range list {
			out = append(out, t)
			walk(t.Children)
		}
	}
	walk(tasks)
	return out
}

// Stats counts completed tasks at every depth.
func Stats(tasks []models.Task) models.TaskStats {
	flat := Flatten(tasks)
	stats := models.TaskStats{Total: len(flat)}
	for _, t := range flat {
		if t.State == models.TaskStateCompleted {
			stats.Completed++
		}
	}
	if stats.Total > 0 {
		stats.Percentage = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	return stats
}
