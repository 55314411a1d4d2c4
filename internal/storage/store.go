// Package storage persists the task document to disk.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ritual-tui/ritual/internal/models"
)

// ErrUnknownBackend is returned by Open for a backend it cannot build.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Store loads and saves the whole document. A missing or unreadable
// document loads as the default schema rather than an error.
type Store interface {
	Load(ctx context.Context) (*models.Schema, error)
	Save(ctx context.Context, schema *models.Schema) error
	Backup(ctx context.Context) (string, error)
	Path() string
}

// Open returns the store for backend ("json" or "sqlite") at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", "json":
		return NewJSONStore(path), nil
	case "sqlite":
		return NewSQLiteStore(path), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, backend)
}

// BackupPath returns where a backup of path taken at t is written.
func BackupPath(path string, t time.Time) string {
	return path + ".backup-" + t.UTC().Format("2006-01-02T15-04-05.000Z")
}

// normalize fills what an older or hand-edited document may lack.
func normalize(s *models.Schema) *models.Schema {
	if s.Version == "" {
		s.Version = models.SchemaVersion
	}
	checkVersion(s)
	if s.Tasks == nil {
		s.Tasks = models.TaskTree{}
	}
	if s.Timeline == nil {
		s.Timeline = models.Timeline{}
	}
	for date, tasks := range s.Tasks {
		s.Tasks[date] = normalizeTasks(tasks)
	}
	return s
}

func normalizeTasks(tasks []models.Task) []models.Task {
	if tasks == nil {
		return []models.Task{}
	}
	for i := range tasks {
		tasks[i].Children = normalizeTasks(tasks[i].Children)
	}
	return tasks
}
