package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/ritual-tui/ritual/internal/undo"
)

// UndoFile persists the undo stack between runs.
type UndoFile struct {
	path string
}

// NewUndoFile returns the undo file at path.
func NewUndoFile(path string) *UndoFile {
	return &UndoFile{path: path}
}

// Path returns the file location.
func (u *UndoFile) Path() string { return u.path }

// Load returns the saved actions, oldest first. A missing or unreadable file
// yields none.
func (u *UndoFile) Load() []undo.Action {
	data, err := os.ReadFile(u.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to read undo file", "path", u.path, "err", err)
		}
		return nil
	}
	var actions []undo.Action
	if err := json.Unmarshal(data, &actions); err != nil {
		slog.Warn("failed to parse undo file", "path", u.path, "err", err)
		return nil
	}
	return actions
}

// Save writes actions.
func (u *UndoFile) Save(actions []undo.Action) error {
	if actions == nil {
		actions = []undo.Action{}
	}
	data, err := json.Marshal(actions)
	if err != nil {
		return fmt.Errorf("failed to encode undo stack: %w", err)
	}
	return writeFileAtomic(u.path, data)
}
