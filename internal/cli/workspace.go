package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ritual-tui/ritual/internal/config"
	"github.com/ritual-tui/ritual/internal/dates"
	"github.com/ritual-tui/ritual/internal/session"
	"github.com/ritual-tui/ritual/internal/storage"
	"github.com/ritual-tui/ritual/internal/task"
	"github.com/ritual-tui/ritual/internal/undo"
)

// workspace is everything one command invocation works on.
type workspace struct {
	cfg     *config.App
	store   storage.Store
	undo    *storage.UndoFile
	session *session.Session
	log     io.Closer
}

func loadConfig() (*config.App, error) {
	cfg, err := config.LoadApp()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flagData != "" {
		cfg.DataFile = flagData
		if b := backendFor(flagData); b != "" {
			cfg.Backend = b
		}
	}
	return cfg, nil
}

// backendFor infers the backend from a data file's extension.
func backendFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return config.BackendSQLite
	case ".json":
		return config.BackendJSON
	}
	return ""
}

func openWorkspace(cmd *cobra.Command) (*workspace, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logPath, err := config.LogFile()
	if err != nil {
		return nil, err
	}
	logCloser, err := config.SetupLogging(flagDebug || cfg.Debug, logPath)
	if err != nil {
		return nil, err
	}

	dataPath, err := cfg.DataPath()
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}
	store, err := storage.Open(cfg.Backend, dataPath)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}
	schema, err := store.Load(cmd.Context())
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}

	undoPath, err := cfg.UndoPath()
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}
	undoFile := storage.NewUndoFile(undoPath)

	mgr := task.NewManager()
	stack := undo.New(mgr.Now)
	stack.Restore(undoFile.Load())

	s := session.New(schema, mgr, stack)
	if moved := s.Load(); len(moved) > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), styleWarning.Render(
			fmt.Sprintf("Moved unfinished tasks from %s to today.", strings.Join(moved, ", "))))
	}

	return &workspace{
		cfg:     cfg,
		store:   store,
		undo:    undoFile,
		session: s,
		log:     logCloser,
	}, nil
}

// save writes the document and the undo stack when the session changed.
func (w *workspace) save(ctx context.Context) error {
	if !w.session.Changed() {
		return nil
	}
	if err := w.store.Save(ctx, w.session.Schema()); err != nil {
		return fmt.Errorf("failed to save %s: %w", w.store.Path(), err)
	}
	if err := w.undo.Save(w.session.Undo.Actions()); err != nil {
		return fmt.Errorf("failed to save undo history: %w", err)
	}
	return nil
}

func (w *workspace) close() {
	_ = w.log.Close()
}

// activeDate resolves the --date flag, or arg when given.
func (w *workspace) activeDate(arg string) (string, error) {
	s := flagDate
	if arg != "" {
		s = arg
	}
	return dates.Resolve(s, w.session.Manager().Now())
}

// withWorkspace runs fn over a freshly loaded workspace and saves afterwards.
func withWorkspace(cmd *cobra.Command, fn func(w *workspace) error) error {
	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.close()

	if err := fn(w); err != nil {
		return err
	}
	return w.save(cmd.Context())
}
