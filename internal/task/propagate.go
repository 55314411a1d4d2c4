package task

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ritual-tui/ritual/internal/models"
	"github.com/ritual-tui/ritual/internal/tree"
	"github.com/ritual-tui/ritual/internal/validate"
)

// Scope selects which occurrences of a recurring task an edit reaches.
type Scope int

const (
	ScopeNone Scope = iota
	ScopeThis
	ScopeAll
	ScopeFromToday
)

// ParseScope parses "this", "all" or "from-today". An empty string is ScopeNone.
func ParseScope(s string) (Scope, error) {
	switch s {
	case "":
		return ScopeNone, nil
	case "this":
		return ScopeThis, nil
	case "all":
		return ScopeAll, nil
	case "from-today", "future":
		return ScopeFromToday, nil
	}
	return ScopeNone, fmt.Errorf("unknown scope %q (want this, all or from-today)", s)
}

func (s Scope) String() string {
	switch s {
	case ScopeThis:
		return "this"
	case ScopeAll:
		return "all"
	case ScopeFromToday:
		return "from-today"
	}
	return "none"
}

// Target is a task as seen in the visible list of Date, with its top-level ancestor.
// Task and Root may be ephemeral.
type Target struct {
	Task models.Task
	Root models.Task
	Date string
}

// IsRoot reports whether the target is a top-level task.
func (t Target) IsRoot() bool {
	return t.Task.ID == t.Root.ID
}

// Recurring reports whether the target is, or descends from, a recurring task.
func (t Target) Recurring() bool {
	return t.Root.IsRecurring()
}

// Resolve finds id among the tasks visible on date.
func (m *Manager) Resolve(tt models.TaskTree, date, id string) (Target, error) {
	return ResolveIn(m.VisibleTasks(tt, date), date, id)
}

// ResolveIn finds id in an already computed visible list.
func ResolveIn(view []models.Task, date, id string) (Target, error) {
	t, root, ok := Locate(view, id)
	if !ok {
		return Target{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return Target{Task: t, Root: root, Date: date}, nil
}

// EnsureMaterialized persists the target's root when it is an ephemeral instance.
func (m *Manager) EnsureMaterialized(tt models.TaskTree, t Target) models.TaskTree {
	if !t.Root.IsRecurringInstance || m.IsMaterialized(tt, t.Root.ID) {
		return tt
	}
	return m.Materialize(tt, t.Root)
}

// UpdateScoped applies patch to the target and, for recurring targets, to the
// occurrences scope selects. Subtasks are matched in other occurrences by title path.
func (m *Manager) UpdateScoped(tt models.TaskTree, t Target, patch models.Patch, scope Scope) (models.TaskTree, error) {
	if patch.Title != nil {
		if err := validate.Title(*patch.Title); err != nil {
			return tt, err
		}
	}
	if !t.Recurring() || scope == ScopeThis || scope == ScopeNone {
		return m.UpdateTask(m.EnsureMaterialized(tt, t), t.Task.ID, patch)
	}

	path, err := titlePath(t)
	if err != nil {
		return tt, err
	}
	now := m.now()
	slog.Debug("updating recurring task", "id", t.Task.ID, "scope", scope, "path", path)
	return m.eachOccurrence(tt, t, scope, func(root models.Task) models.Task {
		return tree.MapTitlePath(root, path, func(x models.Task) models.Task {
			x = patch.Apply(x)
			x.UpdatedAt = now
			return x
		})
	}), nil
}

// DeleteScoped removes the target from the occurrences scope selects.
//
// This-only on a top-level task records an exclusion for the active date and
// drops the materialized row if there is one; the definition is kept.
// All removes the definition and every materialized instance.
// From-today removes materialized instances dated today or later and keeps
// the definition.
func (m *Manager) DeleteScoped(tt models.TaskTree, t Target, scope Scope) (models.TaskTree, error) {
	if !t.Recurring() || scope == ScopeNone {
		return m.DeleteTask(tt, t.Task.ID), nil
	}

	defID, _ := t.Root.DefinitionID()
	slog.Debug("deleting recurring task", "id", t.Task.ID, "definition", defID, "scope", scope)

	if t.IsRoot() {
		switch scope {
		case ScopeThis:
			out := tt
			if !t.Root.IsDefinition() {
				out = m.DeleteTask(tt, t.Task.ID)
			}
			out, err := m.ExcludeOccurrence(out, defID, t.Date)
			if err != nil && !errors.Is(err, ErrDefinitionNotFound) {
				return tt, err
			}
			return out, nil
		case ScopeAll:
			return m.deleteInstances(m.DeleteTask(tt, defID), defID, ""), nil
		default:
			return m.deleteInstances(tt, defID, m.Today()), nil
		}
	}

	if scope == ScopeThis {
		return m.DeleteTask(m.EnsureMaterialized(tt, t), t.Task.ID), nil
	}
	path, err := titlePath(t)
	if err != nil {
		return tt, err
	}
	return m.eachOccurrence(tt, t, scope, func(root models.Task) models.Task {
		return tree.DeleteTitlePath(root, path)
	}), nil
}

// AddSubtaskScoped adds a subtask titled title under the target. For recurring
// targets the subtask is added to every occurrence scope selects, each with its own id.
func (m *Manager) AddSubtaskScoped(tt models.TaskTree, t Target, title string, scope Scope) (models.TaskTree, error) {
	if err := validate.Title(title); err != nil {
		return tt, err
	}
	if !t.Recurring() || scope == ScopeThis || scope == ScopeNone {
		out, _, err := m.AddSubtask(m.EnsureMaterialized(tt, t), t.Task.ID, title)
		return out, err
	}

	var path []string
	if !t.IsRoot() {
		var err error
		if path, err = titlePath(t); err != nil {
			return tt, err
		}
	}
	slog.Debug("adding recurring subtask", "parent", t.Task.ID, "scope", scope, "path", path)
	return m.eachOccurrence(tt, t, scope, func(root models.Task) models.Task {
		return tree.MapTitlePath(root, path, func(parent models.Task) models.Task {
			children := make([]models.Task, 0, len(parent.Children)+1)
			children = append(children, parent.Children...)
			parent.Children = append(children, m.newChild(parent, title))
			return parent
		})
	}), nil
}

// eachOccurrence rewrites the definition of t and its materialized instances.
// ScopeFromToday skips instances dated before today.
func (m *Manager) eachOccurrence(tt models.TaskTree, t Target, scope Scope, fn func(models.Task) models.Task) models.TaskTree {
	defID, _ := t.Root.DefinitionID()
	from := ""
	if scope == ScopeFromToday {
		from = m.Today()
	}

	out := tt.Copy()
	for date, tasks := range tt {
		var changed bool
		list := make([]models.Task, len(tasks))
		for i, x := range tasks {
			if isOccurrence(x, defID) && (x.IsDefinition() || date >= from) {
				x = fn(x)
				changed = true
			}
			list[i] = x
		}
		if changed {
			out[date] = list
		}
	}
	return out
}

// deleteInstances drops the materialized instances of defID dated from or later.
func (m *Manager) deleteInstances(tt models.TaskTree, defID, from string) models.TaskTree {
	out := tt.Copy()
	for date, tasks := range tt {
		if date < from {
			continue
		}
		list := make([]models.Task, 0, len(tasks))
		for _, x := range tasks {
			if x.IsRecurringInstance && x.RecurringParentID != nil && *x.RecurringParentID == defID {
				continue
			}
			list = append(list, x)
		}
		if len(list) != len(tasks) {
			out[date] = list
		}
	}
	return out
}

func isOccurrence(t models.Task, defID string) bool {
	id, ok := t.DefinitionID()
	return ok && id == defID
}

func titlePath(t Target) ([]string, error) {
	if t.IsRoot() {
		return nil, nil
	}
	path, ok := tree.TitlePath(t.Root, t.Task.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, t.Task.ID)
	}
	return path, nil
}
