package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ritual-tui/ritual/internal/models"
)

// SQLiteStore keeps the document in a SQLite database. Every root task and
// every timeline event is one row holding its JSON form.
type SQLiteStore struct {
	path string
	now  func() time.Time
}

// NewSQLiteStore returns a store backed by the database at path.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path, now: time.Now}
}

// Path returns the database file.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) open(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	// modernc.org/sqlite registers as "sqlite".
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			date TEXT NOT NULL,
			position INTEGER NOT NULL,
			json TEXT NOT NULL,
			PRIMARY KEY (date, position)
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			date TEXT NOT NULL,
			position INTEGER NOT NULL,
			json TEXT NOT NULL,
			PRIMARY KEY (date, position)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}

// Load reads the document.
func (s *SQLiteStore) Load(ctx context.Context) (*models.Schema, error) {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no database, starting empty", "path", s.path)
		return models.NewSchema(), nil
	}
	db, err := s.open(ctx)
	if err != nil {
		slog.Error("failed to open database", "path", s.path, "err", err)
		return models.NewSchema(), nil
	}
	defer db.Close()

	schema, err := load(ctx, db)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Error("failed to read database", "path", s.path, "err", err)
		return models.NewSchema(), nil
	}
	return schema, nil
}

func load(ctx context.Context, db *sql.DB) (*models.Schema, error) {
	schema := models.NewSchema()

	rows, err := db.QueryContext(ctx, `SELECT k, v FROM meta`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			rows.Close()
			return nil, err
		}
		switch k {
		case "version":
			schema.Version = v
		case "settings":
			if err := json.Unmarshal([]byte(v), &schema.Settings); err != nil {
				rows.Close()
				return nil, fmt.Errorf("settings: %w", err)
			}
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = scanJSONRows(ctx, db, `SELECT date, json FROM tasks ORDER BY date, position`, func(date string, raw []byte) error {
		var t models.Task
		if err := json.Unmarshal(raw, &t); err != nil {
			return err
		}
		schema.Tasks[date] = append(schema.Tasks[date], t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tasks: %w", err)
	}

	err = scanJSONRows(ctx, db, `SELECT date, json FROM events ORDER BY date, position`, func(date string, raw []byte) error {
		var e models.TimelineEvent
		if err := json.Unmarshal(raw, &e); err != nil {
			return err
		}
		schema.Timeline[date] = append(schema.Timeline[date], e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("events: %w", err)
	}

	return normalize(schema), nil
}

func scanJSONRows(ctx context.Context, db *sql.DB, query string, fn func(date string, raw []byte) error) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var date, raw string
		if err := rows.Scan(&date, &raw); err != nil {
			return err
		}
		if err := fn(date, []byte(raw)); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Save replaces the stored document in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, schema *models.Schema) error {
	if schema == nil {
		return errors.New("nil schema")
	}
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	settings, err := json.Marshal(schema.Settings)
	if err != nil {
		return err
	}
	version := schema.Version
	if version == "" {
		version = models.SchemaVersion
	}
	for k, v := range map[string]string{"version": version, "settings": string(settings)} {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES(?, ?)`, k, v); err != nil {
			return err
		}
	}

	for _, table := range []string{"tasks", "events"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return err
		}
	}

	for date, tasks := range schema.Tasks {
		for i, t := range tasks {
			raw, err := json.Marshal(t)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO tasks(date, position, json) VALUES(?, ?, ?)`, date, i, string(raw)); err != nil {
				return err
			}
		}
	}
	for date, events := range schema.Timeline {
		for i, e := range events {
			raw, err := json.Marshal(e)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO events(date, position, json) VALUES(?, ?, ?)`, date, i, string(raw)); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// Backup writes a consistent copy of the database next to it.
func (s *SQLiteStore) Backup(ctx context.Context) (string, error) {
	if _, err := os.Stat(s.path); err != nil {
		return "", fmt.Errorf("failed to read database: %w", err)
	}
	db, err := s.open(ctx)
	if err != nil {
		return "", err
	}
	defer db.Close()

	dst := BackupPath(s.path, s.now())
	if _, err := db.ExecContext(ctx, `VACUUM INTO ?`, dst); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	slog.Debug("backup written", "path", dst)
	return dst, nil
}
