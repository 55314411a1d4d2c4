package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ritual-tui/ritual/internal/models"
)

// JSONStore keeps the document in one pretty-printed JSON file.
type JSONStore struct {
	path string
	now  func() time.Time
}

// NewJSONStore returns a store backed by the file at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path, now: time.Now}
}

// Path returns the data file.
func (s *JSONStore) Path() string { return s.path }

// Load reads the document.
func (s *JSONStore) Load(ctx context.Context) (*models.Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no data file, starting empty", "path", s.path)
		return models.NewSchema(), nil
	}
	if err != nil {
		slog.Error("failed to read data file", "path", s.path, "err", err)
		return models.NewSchema(), nil
	}
	schema, err := decodeSchema(data)
	if err != nil {
		slog.Error("failed to parse data file", "path", s.path, "err", err)
		return models.NewSchema(), nil
	}
	return schema, nil
}

// Save writes the document atomically.
func (s *JSONStore) Save(ctx context.Context, schema *models.Schema) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

// Backup copies the data file next to itself and returns the copy's path.
func (s *JSONStore) Backup(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to read data file: %w", err)
	}
	dst := BackupPath(s.path, s.now())
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	slog.Debug("backup written", "path", dst)
	return dst, nil
}

// ReadSchemaFile decodes a document from an export file. Unlike Load, a bad
// file is an error.
func ReadSchemaFile(path string) (*models.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	schema, err := decodeSchema(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return schema, nil
}

// WriteSchemaFile writes schema to path as pretty-printed JSON.
func WriteSchemaFile(path string, schema *models.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}
	return writeFileAtomic(path, data)
}

func decodeSchema(data []byte) (*models.Schema, error) {
	schema := models.NewSchema()
	if err := json.Unmarshal(data, schema); err != nil {
		return nil, err
	}
	return normalize(schema), nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
