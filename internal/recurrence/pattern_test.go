package recurrence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritual-tui/ritual/internal/dates"
	"github.com/ritual-tui/ritual/internal/models"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		pattern *models.RecurrencePattern
		want    string
	}{
		{pattern(models.FrequencyDaily), "Daily"},
		{pattern(models.FrequencyWeekdays), "Weekdays (Mon-Fri)"},
		{pattern(models.FrequencyWeekly), "Weekly"},
		{pattern(models.FrequencyMonthly), "Monthly"},
		{pattern(models.FrequencyYearly), "Yearly"},
		{&models.RecurrencePattern{Frequency: models.FrequencyCustom, DaysOfWeek: []int{1, 3}}, "Custom (Mon, Wed)"},
		{&models.RecurrencePattern{Frequency: models.FrequencyCustom, Interval: 3}, "Every 3 days"},
		{pattern(models.FrequencyCustom), "Custom"},
		{pattern("hourly"), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.pattern))
		})
	}
}

func TestParse(t *testing.T) {
	p, err := Parse(ParseOptions{Frequency: "Custom", Days: "mon, wednesday,5"})
	require.NoError(t, err)
	assert.Equal(t, models.FrequencyCustom, p.Frequency)
	assert.Equal(t, []int{1, 3, 5}, p.DaysOfWeek)

	p, err = Parse(ParseOptions{Frequency: "weekly", Until: "2024-03-01"})
	require.NoError(t, err)
	require.NotNil(t, p.EndDate)
	assert.Equal(t, "2024-03-01", dates.Format(*p.EndDate))

	bad := []ParseOptions{
		{Frequency: "hourly"},
		{Frequency: "custom"},
		{Frequency: "custom", Days: "funday"},
		{Frequency: "custom", Days: "8"},
		{Frequency: "custom", Interval: -2},
		{Frequency: "daily", Until: "soon"},
	}
	for _, opts := range bad {
		_, err := Parse(opts)
		assert.ErrorIs(t, err, ErrInvalidPattern, "%+v", opts)
	}
}
