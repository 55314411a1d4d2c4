// Package recurrence decides when a recurring definition produces an instance
// and builds those instances.
package recurrence

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ritual-tui/ritual/internal/dates"
	"github.com/ritual-tui/ritual/internal/models"
)

// ShouldGenerate reports whether pattern produces an instance on target for a
// definition anchored on base. The anchor date itself never generates.
func ShouldGenerate(p *models.RecurrencePattern, base, target time.Time) bool {
	if p == nil {
		return false
	}
	if p.IsExcluded(dates.Format(target)) {
		return false
	}

	diff := dates.DaysBetween(base, target)
	if diff < 0 {
		return false
	}
	if p.EndDate != nil && dates.DaysBetween(dates.StartOfDay(*p.EndDate), target) > 0 {
		return false
	}
	if diff == 0 {
		return false
	}

	switch p.Frequency {
	case models.FrequencyDaily:
		return true
	case models.FrequencyWeekdays:
		return !dates.IsWeekend(target)
	case models.FrequencyWeekly:
		return diff%7 == 0
	case models.FrequencyMonthly:
		return target.Day() == base.Day()
	case models.FrequencyYearly:
		return target.Month() == base.Month() && target.Day() == base.Day()
	case models.FrequencyCustom:
		if len(p.DaysOfWeek) > 0 {
			return containsDay(p.DaysOfWeek, target.Weekday())
		}
		if p.Interval > 0 {
			return diff%p.Interval == 0
		}
		return false
	}
	return false
}

// ShouldTaskGenerate is ShouldGenerate anchored on the task's own date.
func ShouldTaskGenerate(t models.Task, target time.Time) bool {
	if t.Recurrence == nil {
		return false
	}
	base, err := dates.Parse(t.Date)
	if err != nil {
		slog.Warn("recurring task has a bad date", "task", t.ID, "date", t.Date)
		return false
	}
	return ShouldGenerate(t.Recurrence, base, target)
}

// GenerateInstance clones def onto target as a fresh todo occurrence.
// Every call mints new ids, so callers must not generate twice for a slot
// that has already been materialized.
func GenerateInstance(def models.Task, target string, now time.Time) models.Task {
	slog.Debug("generating recurring instance",
		"definition", def.ID, "title", def.Title, "from", def.Date, "to", target,
		"children", len(def.Children))

	inst := resetOccurrence(def, target, now)
	inst.IsRecurringInstance = true
	inst.RecurringParentID = models.StringPtr(def.ID)
	inst.ParentID = nil
	inst.Children = cloneChildren(def.Children, inst.ID, target, now)
	return inst
}

func cloneChildren(children []models.Task, parentID, target string, now time.Time) []models.Task {
	out := make([]models.Task, len(children))
	for i, c := range children {
		nc := resetOccurrence(c, target, now)
		nc.ParentID = models.StringPtr(parentID)
		nc.Children = cloneChildren(c.Children, nc.ID, target, now)
		out[i] = nc
	}
	return out
}

func resetOccurrence(t models.Task, target string, now time.Time) models.Task {
	t = t.Clone()
	t.ID = uuid.NewString()
	t.Date = target
	t.State = models.TaskStateTodo
	t.CreatedAt = now
	t.UpdatedAt = now
	t.StartTime = nil
	t.EndTime = nil
	return t
}

// NextOccurrence steps one occurrence forward from base. It returns false when
// the pattern has no next date within its end date, or when a days-of-week rule
// finds no match in the following week.
func NextOccurrence(p *models.RecurrencePattern, base time.Time) (time.Time, bool) {
	if p == nil {
		return time.Time{}, false
	}

	var next time.Time
	switch p.Frequency {
	case models.FrequencyDaily:
		next = dates.AddDays(base, 1)
	case models.FrequencyWeekdays:
		next = dates.AddDays(base, 1)
		for dates.IsWeekend(next) {
			next = dates.AddDays(next, 1)
		}
	case models.FrequencyWeekly:
		next = dates.AddDays(base, 7)
	case models.FrequencyMonthly:
		next = addMonthsClamped(base, 1)
	case models.FrequencyYearly:
		next = addMonthsClamped(base, 12)
	case models.FrequencyCustom:
		var ok bool
		next, ok = nextCustom(p, base)
		if !ok {
			return time.Time{}, false
		}
	default:
		return time.Time{}, false
	}

	if p.EndDate != nil && dates.DaysBetween(dates.StartOfDay(*p.EndDate), next) > 0 {
		return time.Time{}, false
	}
	return next, true
}

func nextCustom(p *models.RecurrencePattern, base time.Time) (time.Time, bool) {
	if len(p.DaysOfWeek) > 0 {
		for i := 1; i <= 7; i++ {
			next := dates.AddDays(base, i)
			if containsDay(p.DaysOfWeek, next.Weekday()) {
				return next, true
			}
		}
		return time.Time{}, false
	}
	if p.Interval > 0 {
		return dates.AddDays(base, p.Interval), true
	}
	return time.Time{}, false
}

// addMonthsClamped adds n months, clamping to the last day of the resulting
// month (Jan 31 + 1 month = Feb 28/29).
func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func containsDay(days []int, wd time.Weekday) bool {
	for _, d := range days {
		if d == int(wd) {
			return true
		}
	}
	return false
}
