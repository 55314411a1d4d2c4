package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ritual-tui/ritual/internal/models"
	"github.com/ritual-tui/ritual/internal/tree"
)

var (
	errNoTask       = errors.New("no such task")
	errAmbiguousRef = errors.New("ambiguous task id")
)

// minPrefix is the shortest id prefix accepted as a reference.
const minPrefix = 4

// resolveRef finds the task ref names among view. A ref is a position as
// printed by the day listing ("2", "2.1"), a full id, or an id prefix that
// matches a single task. Positions win over prefixes.
func resolveRef(view []models.Task, ref string) (models.Task, error) {
	ref = strings.TrimSpace(ref)
	if t, ok := byPosition(view, ref); ok {
		return t, nil
	}
	if t, ok := tree.FindByID(view, ref); ok {
		return t, nil
	}

	if len(ref) >= minPrefix {
		var matches []models.Task
		for _, t := range tree.Flatten(view) {
			if strings.HasPrefix(t.ID, ref) {
				matches = append(matches, t)
			}
		}
		switch len(matches) {
		case 1:
			return matches[0], nil
		case 0:
		default:
			return models.Task{}, fmt.Errorf("%w: %s matches %d tasks", errAmbiguousRef, ref, len(matches))
		}
	}
	return models.Task{}, fmt.Errorf("%w: %s", errNoTask, ref)
}

func byPosition(view []models.Task, ref string) (models.Task, bool) {
	parts := strings.Split(ref, ".")
	level := view
	var found models.Task
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > len(level) {
			return models.Task{}, false
		}
		found = level[n-1]
		level = found.Children
	}
	return found, true
}

// position returns the dotted position of a task given its index path.
func position(path []int) string {
	parts := make([]string, len(path))
	for i, n := range path {
		parts[i] = strconv.Itoa(n + 1)
	}
	return strings.Join(parts, ".")
}

// shortID is the id prefix shown in listings.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
