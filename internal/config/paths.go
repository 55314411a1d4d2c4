// Package config handles the app config file, data paths and the debug log.
package config

import (
	"os"
	"path/filepath"
)

// AppDirName is the directory holding ritual's files under the user config dir.
const AppDirName = "ritual"

// File names
const (
	ConfigFileName = "config.yaml"
	JSONFileName   = "data.json"
	SQLiteFileName = "data.db"
	UndoFileName   = "undo.json"
	LogFileName    = "debug.log"
)

// Dir returns the directory for ritual's files: the OS config dir
// (~/.config, ~/Library/Application Support, %APPDATA%) plus "ritual", or
// ~/.ritual when the OS has none.
func Dir() (string, error) {
	if base, err := os.UserConfigDir(); err == nil && base != "" {
		return filepath.Join(base, AppDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "."+AppDirName), nil
}

// ConfigFile returns the path to config.yaml.
func ConfigFile() (string, error) {
	return inDir(ConfigFileName)
}

// DefaultDataFile returns the default data file for backend.
func DefaultDataFile(backend string) (string, error) {
	if backend == BackendSQLite {
		return inDir(SQLiteFileName)
	}
	return inDir(JSONFileName)
}

// LogFile returns the path to the debug log.
func LogFile() (string, error) {
	return inDir(LogFileName)
}

// EnsureDir creates the ritual directory if it doesn't exist.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

func inDir(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
