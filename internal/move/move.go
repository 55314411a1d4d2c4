// Package move rolls unfinished tasks forward from past dates.
package move

import (
	"log/slog"
	"sort"
	"time"

	"github.com/ritual-tui/ritual/internal/dates"
	"github.com/ritual-tui/ritual/internal/models"
	"github.com/ritual-tui/ritual/internal/tree"
)

// UnfinishedTasks returns every todo task at any depth, in pre-order.
func UnfinishedTasks(tasks []models.Task) []models.Task {
	var out []models.Task
	for _, t := range tree.Flatten(tasks) {
		if t.State == models.TaskStateTodo {
			out = append(out, t)
		}
	}
	return out
}

// MoveToDate moves the unfinished top-level tasks of from onto to, clearing
// their times. Unfinished subtasks under a finished parent stay where they are.
func MoveToDate(tt models.TaskTree, from, to string, now time.Time) models.TaskTree {
	if from == to {
		return tt
	}
	source := tt[from]
	unfinished := UnfinishedTasks(source)
	if len(unfinished) == 0 {
		slog.Debug("no unfinished tasks to move", "from", from, "to", to)
		return tt
	}

	ids := make(map[string]bool, len(unfinished))
	for _, t := range unfinished {
		ids[t.ID] = true
	}

	kept := make([]models.Task, 0, len(source))
	target := make([]models.Task, 0, len(tt[to])+len(source))
	target = append(target, tt[to]...)
	for _, t := range source {
		if !ids[t.ID] {
			kept = append(kept, t)
			continue
		}
		moved := t.Clone()
		moved.Date = to
		moved.StartTime = nil
		moved.EndTime = nil
		moved.UpdatedAt = now
		target = append(target, moved)
	}

	slog.Debug("moved unfinished tasks", "from", from, "to", to, "count", len(target)-len(tt[to]))
	out := tt.Copy()
	out[from] = kept
	out[to] = target
	return out
}

// DatesWithUnfinished lists, oldest first, the dates before before that hold
// at least one unfinished task.
func DatesWithUnfinished(tt models.TaskTree, before string) []string {
	var out []string
	for date, tasks := range tt {
		if date < before && len(UnfinishedTasks(tasks)) > 0 {
			out = append(out, date)
		}
	}
	sort.Strings(out)
	return out
}

// AutoMoveToToday moves unfinished tasks from every past date onto today,
// oldest date first. It returns the new tree and the source dates.
func AutoMoveToToday(tt models.TaskTree, now time.Time) (models.TaskTree, []string) {
	today := dates.Today(now)
	from := DatesWithUnfinished(tt, today)
	slog.Debug("auto-moving unfinished tasks", "today", today, "dates", from)

	out := tt
	for _, d := range from {
		out = MoveToDate(out, d, today, now)
	}
	return out, from
}
