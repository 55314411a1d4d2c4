package storage

import (
	"sort"

	"github.com/ritual-tui/ritual/internal/models"
	"github.com/ritual-tui/ritual/internal/tree"
)

// Merge folds remote into local. Remote tasks whose id already appears
// anywhere in local, on any date and at any depth, are skipped; the rest are
// appended to their date. Events are merged the same way and local settings
// win. Neither input is modified.
func Merge(local, remote *models.Schema) *models.Schema {
	out := &models.Schema{
		Version:  local.Version,
		Tasks:    local.Tasks.Clone(),
		Timeline: local.Timeline.Clone(),
		Settings: local.Settings,
	}
	if out.Tasks == nil {
		out.Tasks = models.TaskTree{}
	}
	if out.Timeline == nil {
		out.Timeline = models.Timeline{}
	}

	seenTasks := make(map[string]bool)
	for _, tasks := range out.Tasks {
		for _, t := range tree.Flatten(tasks) {
			seenTasks[t.ID] = true
		}
	}
	for _, date := range sortedKeys(remote.Tasks) {
		for _, t := range remote.Tasks[date] {
			if seenTasks[t.ID] {
				continue
			}
			for _, d := range tree.Flatten([]models.Task{t}) {
				seenTasks[d.ID] = true
			}
			out.Tasks[date] = append(out.Tasks[date], t.Clone())
		}
	}

	seenEvents := make(map[string]bool)
	for _, events := range out.Timeline {
		for _, e := range events {
			seenEvents[e.ID] = true
		}
	}
	for _, date := range sortedKeys(remote.Timeline) {
		for _, e := range remote.Timeline[date] {
			if seenEvents[e.ID] {
				continue
			}
			seenEvents[e.ID] = true
			out.Timeline[date] = append(out.Timeline[date], e.Clone())
		}
	}
	return out
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
