package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritual-tui/ritual/internal/dates"
	"github.com/ritual-tui/ritual/internal/models"
)

func pattern(f models.Frequency) *models.RecurrencePattern {
	return &models.RecurrencePattern{Frequency: f}
}

func TestShouldGenerateWeeklyOnTuesday(t *testing.T) {
	base := dates.MustParse("2024-01-16") // Tuesday
	p := pattern(models.FrequencyWeekly)

	assert.False(t, ShouldGenerate(p, base, base), "anchor date")
	for _, n := range []int{7, 14, 21} {
		assert.True(t, ShouldGenerate(p, base, dates.AddDays(base, n)), "%d days later", n)
	}
	for n := 1; n <= 6; n++ {
		assert.False(t, ShouldGenerate(p, base, dates.AddDays(base, n)), "%d days later", n)
	}
	assert.False(t, ShouldGenerate(p, base, dates.AddDays(base, -7)), "before anchor")
}

func TestShouldGenerateExclusion(t *testing.T) {
	base := dates.MustParse("2024-01-16")
	p := pattern(models.FrequencyDaily)
	target := dates.MustParse("2024-01-18")

	require.True(t, ShouldGenerate(p, base, target))
	p.ExcludedDates = []string{"2024-01-18"}
	assert.False(t, ShouldGenerate(p, base, target))
	assert.True(t, ShouldGenerate(p, base, dates.MustParse("2024-01-19")))
}

func TestShouldGenerateFrequencies(t *testing.T) {
	end := dates.MustParse("2024-01-20")

	tests := []struct {
		name    string
		pattern *models.RecurrencePattern
		base    string
		target  string
		want    bool
	}{
		{name: "daily", pattern: pattern(models.FrequencyDaily), base: "2024-01-15", target: "2024-01-16", want: true},
		{name: "weekdays on friday", pattern: pattern(models.FrequencyWeekdays), base: "2024-01-15", target: "2024-01-19", want: true},
		{name: "weekdays on saturday", pattern: pattern(models.FrequencyWeekdays), base: "2024-01-15", target: "2024-01-20", want: false},
		{name: "monthly same day", pattern: pattern(models.FrequencyMonthly), base: "2024-01-15", target: "2024-03-15", want: true},
		{name: "monthly other day", pattern: pattern(models.FrequencyMonthly), base: "2024-01-15", target: "2024-03-16", want: false},
		{name: "yearly", pattern: pattern(models.FrequencyYearly), base: "2024-01-15", target: "2025-01-15", want: true},
		{name: "yearly wrong month", pattern: pattern(models.FrequencyYearly), base: "2024-01-15", target: "2025-02-15", want: false},
		{name: "custom days", pattern: &models.RecurrencePattern{Frequency: models.FrequencyCustom, DaysOfWeek: []int{1, 3}}, base: "2024-01-15", target: "2024-01-17", want: true},
		{name: "custom days miss", pattern: &models.RecurrencePattern{Frequency: models.FrequencyCustom, DaysOfWeek: []int{1, 3}}, base: "2024-01-15", target: "2024-01-18", want: false},
		{name: "custom interval", pattern: &models.RecurrencePattern{Frequency: models.FrequencyCustom, Interval: 3}, base: "2024-01-15", target: "2024-01-21", want: true},
		{name: "custom interval miss", pattern: &models.RecurrencePattern{Frequency: models.FrequencyCustom, Interval: 3}, base: "2024-01-15", target: "2024-01-20", want: false},
		{name: "custom empty", pattern: pattern(models.FrequencyCustom), base: "2024-01-15", target: "2024-01-16", want: false},
		{name: "end date inclusive", pattern: &models.RecurrencePattern{Frequency: models.FrequencyDaily, EndDate: &end}, base: "2024-01-15", target: "2024-01-20", want: true},
		{name: "after end date", pattern: &models.RecurrencePattern{Frequency: models.FrequencyDaily, EndDate: &end}, base: "2024-01-15", target: "2024-01-21", want: false},
		{name: "nil pattern", base: "2024-01-15", target: "2024-01-16", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldGenerate(tt.pattern, dates.MustParse(tt.base), dates.MustParse(tt.target))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShouldTaskGenerate(t *testing.T) {
	now := time.Date(2024, 1, 15, 8, 0, 0, 0, time.Local)
	plain := models.NewTask("p", "plain", "2024-01-15", now)
	assert.False(t, ShouldTaskGenerate(plain, dates.MustParse("2024-01-16")))

	def := plain
	def.Recurrence = pattern(models.FrequencyDaily)
	assert.True(t, ShouldTaskGenerate(def, dates.MustParse("2024-01-16")))
}

func TestGenerateInstance(t *testing.T) {
	created := time.Date(2024, 1, 15, 8, 0, 0, 0, time.Local)
	now := created.Add(48 * time.Hour)

	child := models.NewTask("c", "step", "2024-01-15", created)
	child.State = models.TaskStateCompleted
	child.EndTime = models.TimePtr(created.Add(time.Hour))
	child.Children = []models.Task{models.NewTask("g", "substep", "2024-01-15", created)}

	def := models.NewTask("def", "Standup", "2024-01-15", created)
	def.Recurrence = pattern(models.FrequencyDaily)
	def.State = models.TaskStateCompleted
	def.StartTime = models.TimePtr(created)
	def.EndTime = models.TimePtr(created.Add(time.Hour))
	def.Children = []models.Task{child}

	inst := GenerateInstance(def, "2024-01-17", now)

	assert.NotEqual(t, def.ID, inst.ID)
	assert.Equal(t, "Standup", inst.Title)
	assert.Equal(t, "2024-01-17", inst.Date)
	assert.Equal(t, models.TaskStateTodo, inst.State)
	assert.Equal(t, now, inst.CreatedAt)
	assert.Nil(t, inst.StartTime)
	assert.Nil(t, inst.EndTime)
	assert.True(t, inst.IsRecurringInstance)
	require.NotNil(t, inst.RecurringParentID)
	assert.Equal(t, "def", *inst.RecurringParentID)
	assert.False(t, inst.IsDefinition())

	require.Len(t, inst.Children, 1)
	c := inst.Children[0]
	assert.NotEqual(t, "c", c.ID)
	assert.Equal(t, "2024-01-17", c.Date)
	assert.Equal(t, models.TaskStateTodo, c.State)
	assert.Nil(t, c.EndTime)
	require.NotNil(t, c.ParentID)
	assert.Equal(t, inst.ID, *c.ParentID)
	require.Len(t, c.Children, 1)
	assert.NotEqual(t, "g", c.Children[0].ID)
	assert.Equal(t, c.ID, *c.Children[0].ParentID)

	again := GenerateInstance(def, "2024-01-17", now)
	assert.NotEqual(t, inst.ID, again.ID)
	assert.Equal(t, models.TaskStateCompleted, def.Children[0].State, "definition must not change")
}

func TestNextOccurrence(t *testing.T) {
	end := dates.MustParse("2024-01-18")

	tests := []struct {
		name    string
		pattern *models.RecurrencePattern
		base    string
		want    string
	}{
		{name: "daily", pattern: pattern(models.FrequencyDaily), base: "2024-01-15", want: "2024-01-16"},
		{name: "weekdays skips weekend", pattern: pattern(models.FrequencyWeekdays), base: "2024-01-19", want: "2024-01-22"},
		{name: "weekly", pattern: pattern(models.FrequencyWeekly), base: "2024-01-15", want: "2024-01-22"},
		{name: "monthly clamps", pattern: pattern(models.FrequencyMonthly), base: "2024-01-31", want: "2024-02-29"},
		{name: "yearly leap day", pattern: pattern(models.FrequencyYearly), base: "2024-02-29", want: "2025-02-28"},
		{name: "custom interval", pattern: &models.RecurrencePattern{Frequency: models.FrequencyCustom, Interval: 3}, base: "2024-01-15", want: "2024-01-18"},
		{name: "custom weekday", pattern: &models.RecurrencePattern{Frequency: models.FrequencyCustom, DaysOfWeek: []int{5}}, base: "2024-01-15", want: "2024-01-19"},
		{name: "custom same weekday wraps", pattern: &models.RecurrencePattern{Frequency: models.FrequencyCustom, DaysOfWeek: []int{1}}, base: "2024-01-15", want: "2024-01-22"},
		{name: "custom out of range", pattern: &models.RecurrencePattern{Frequency: models.FrequencyCustom, DaysOfWeek: []int{9}}, base: "2024-01-15", want: ""},
		{name: "past end date", pattern: &models.RecurrencePattern{Frequency: models.FrequencyWeekly, EndDate: &end}, base: "2024-01-15", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextOccurrence(tt.pattern, dates.MustParse(tt.base))
			if tt.want == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, dates.Format(got))
		})
	}
}
