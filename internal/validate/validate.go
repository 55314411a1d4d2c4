// Package validate holds the checks run before a task is mutated.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ritual-tui/ritual/internal/models"
)

// MaxTitleLength is the longest title accepted, in characters.
const MaxTitleLength = 255

var (
	ErrInvalidTitle     = errors.New("invalid title")
	ErrInvalidTimeRange = errors.New("start time must be before end time")
	ErrFutureStartTime  = errors.New("start time cannot be in the future")
)

// Title rejects blank titles and titles longer than MaxTitleLength.
// Surrounding whitespace is kept in the stored title; it only matters for the blank check.
func Title(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: task title cannot be empty", ErrInvalidTitle)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf("%w: task title is too long (max %d characters)", ErrInvalidTitle, MaxTitleLength)
	}
	return nil
}

// Times checks the start/end ordering of t against now.
func Times(t models.Task, now time.Time) error {
	if t.StartTime != nil && t.EndTime != nil && !t.StartTime.Before(*t.EndTime) {
		return ErrInvalidTimeRange
	}
	if t.StartTime != nil && t.EndTime == nil && t.StartTime.After(now) {
		return ErrFutureStartTime
	}
	return nil
}
