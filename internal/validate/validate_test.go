package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ritual-tui/ritual/internal/models"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{name: "simple", title: "Write report"},
		{name: "padded is kept", title: "  padded  "},
		{name: "max length", title: strings.Repeat("x", 255)},
		{name: "max length multibyte", title: strings.Repeat("é", 255)},
		{name: "empty", title: "", wantErr: true},
		{name: "whitespace only", title: " \t\n ", wantErr: true},
		{name: "too long", title: strings.Repeat("x", 256), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Title(tt.title)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTitle)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTimes(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.Local)
	earlier := now.Add(-time.Hour)
	later := now.Add(time.Hour)

	tests := []struct {
		name  string
		start *time.Time
		end   *time.Time
		want  error
	}{
		{name: "no times"},
		{name: "start before end", start: &earlier, end: &now},
		{name: "start equals end", start: &now, end: &now, want: ErrInvalidTimeRange},
		{name: "start after end", start: &later, end: &now, want: ErrInvalidTimeRange},
		{name: "running started in past", start: &earlier},
		{name: "running started now", start: &now},
		{name: "running starts in future", start: &later, want: ErrFutureStartTime},
		{name: "only end", end: &now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := models.Task{StartTime: tt.start, EndTime: tt.end}
			err := Times(task, now)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}
