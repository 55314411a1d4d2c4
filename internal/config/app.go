package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Environment overrides.
const (
	EnvData    = "RITUAL_DATA"
	EnvBackend = "RITUAL_BACKEND"
)

var (
	// ErrUnknownKey is returned by Set for a key the config does not have.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned by Set when a value does not fit its key.
	ErrInvalidValue = errors.New("invalid config value")
)

// App is the contents of config.yaml.
type App struct {
	DataFile string `yaml:"data_file,omitempty"`
	Backend  string `yaml:"backend"`
	Debug    bool   `yaml:"debug"`
	UndoFile string `yaml:"undo_file,omitempty"`
}

// NewApp returns the default config.
func NewApp() *App {
	return &App{Backend: BackendJSON}
}

// LoadApp loads config.yaml, applying environment overrides on top.
func LoadApp() (*App, error) {
	path, err := ConfigFile()
	if err != nil {
		return nil, err
	}
	return LoadAppFrom(path)
}

// LoadAppFrom loads the config at path, applying environment overrides on top.
func LoadAppFrom(path string) (*App, error) {
	app, err := LoadYAMLOrDefault(path, NewApp)
	if err != nil {
		return nil, err
	}
	if v := os.Getenv(EnvData); v != "" {
		app.DataFile = v
	}
	if v := os.Getenv(EnvBackend); v != "" {
		app.Backend = v
	}
	if app.Backend != BackendJSON && app.Backend != BackendSQLite {
		return nil, fmt.Errorf("%w: backend %q", ErrInvalidValue, app.Backend)
	}
	return app, nil
}

// SaveApp writes the config to config.yaml.
func SaveApp(app *App) error {
	path, err := ConfigFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, app)
}

// DataPath returns the data file in use: the configured one, or the
// backend's default location.
func (a *App) DataPath() (string, error) {
	if a.DataFile != "" {
		return expandHome(a.DataFile)
	}
	return DefaultDataFile(a.Backend)
}

// UndoPath returns the undo file, next to the data file unless configured.
func (a *App) UndoPath() (string, error) {
	if a.UndoFile != "" {
		return expandHome(a.UndoFile)
	}
	data, err := a.DataPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(data), UndoFileName), nil
}

// Keys lists the settable keys in display order.
func Keys() []string {
	return []string{"data_file", "backend", "debug", "undo_file"}
}

// Get returns the string form of key.
func (a *App) Get(key string) (string, error) {
	switch key {
	case "data_file":
		return a.DataFile, nil
	case "backend":
		return a.Backend, nil
	case "debug":
		return strconv.FormatBool(a.Debug), nil
	case "undo_file":
		return a.UndoFile, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// Set assigns value to key.
func (a *App) Set(key, value string) error {
	switch key {
	case "data_file":
		a.DataFile = value
	case "backend":
		v := strings.ToLower(value)
		if v != BackendJSON && v != BackendSQLite {
			return fmt.Errorf("%w: backend must be %s or %s", ErrInvalidValue, BackendJSON, BackendSQLite)
		}
		a.Backend = v
	case "debug":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: debug must be true or false", ErrInvalidValue)
		}
		a.Debug = b
	case "undo_file":
		a.UndoFile = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
