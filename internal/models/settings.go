package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknownSetting is returned for a setting name that does not exist.
	ErrUnknownSetting = errors.New("unknown setting")
	// ErrInvalidSetting is returned when a value does not fit its setting.
	ErrInvalidSetting = errors.New("invalid setting value")
)

// SchemaVersion is the version written into new data files.
const SchemaVersion = "1.0.0"

// Settings represents user preferences stored alongside the task data.
type Settings struct {
	Theme                   string  `json:"theme"`
	DefaultStartTime        string  `json:"defaultStartTime"` // "now" | "custom"
	DateFormat              string  `json:"dateFormat"`
	TimeFormat              string  `json:"timeFormat"` // "12h" | "24h"
	SkippedVersion          *string `json:"skippedVersion,omitempty"`
	AutoMoveUnfinishedTasks bool    `json:"autoMoveUnfinishedTasks"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Theme:                   "dark",
		DefaultStartTime:        "now",
		DateFormat:              "MMMM do, yyyy",
		TimeFormat:              "12h",
		AutoMoveUnfinishedTasks: true,
	}
}

// SettingKeys lists the settings that can be read and changed by name.
func SettingKeys() []string {
	return []string{"auto_move", "time_format"}
}

// Get returns the string form of the setting key.
func (s *Settings) Get(key string) (string, error) {
	switch key {
	case "auto_move":
		return strconv.FormatBool(s.AutoMoveUnfinishedTasks), nil
	case "time_format":
		return s.TimeFormat, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownSetting, key)
}

// Set assigns value to the setting key.
func (s *Settings) Set(key, value string) error {
	switch key {
	case "auto_move":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: auto_move must be true or false", ErrInvalidSetting)
		}
		s.AutoMoveUnfinishedTasks = b
	case "time_format":
		v := strings.ToLower(value)
		if v != "12h" && v != "24h" {
			return fmt.Errorf("%w: time_format must be 12h or 24h", ErrInvalidSetting)
		}
		s.TimeFormat = v
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	return nil
}

// Schema is the persisted document.
type Schema struct {
	Version  string   `json:"version"`
	Tasks    TaskTree `json:"tasks"`
	Timeline Timeline `json:"timeline"`
	Settings Settings `json:"settings"`
}

// NewSchema returns an empty document with default settings.
func NewSchema() *Schema {
	return &Schema{
		Version:  SchemaVersion,
		Tasks:    TaskTree{},
		Timeline: Timeline{},
		Settings: *NewSettings(),
	}
}
