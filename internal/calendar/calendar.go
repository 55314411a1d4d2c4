// Package calendar builds the month grid with per-day task counts.
package calendar

import (
	"time"

	"github.com/ritual-tui/ritual/internal/dates"
	"github.com/ritual-tui/ritual/internal/models"
)

// Day is one cell of the month grid.
type Day struct {
	Date           string
	Day            int
	IsToday        bool
	IsSelected     bool
	IsCurrentMonth bool
	HasTasks       bool
	TaskCount      int
}

// View is a month laid out in Sunday-first weeks. Leading and trailing days
// belong to the neighbouring months.
type View struct {
	Year  int
	Month time.Month
	Weeks [][]Day
}

// MonthView lays out month with the persisted top-level task count of every day.
func MonthView(year int, month time.Month, selected string, tt models.TaskTree, today string) View {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	last := first.AddDate(0, 1, -1)
	start := dates.AddDays(first, -int(first.Weekday()))
	end := dates.AddDays(last, 6-int(last.Weekday()))

	v := View{Year: year, Month: month}
	var week []Day
	for d := start; !d.After(end); d = dates.AddDays(d, 1) {
		key := dates.Format(d)
		count := len(tt[key])
		week = append(week, Day{
			Date:           key,
			Day:            d.Day(),
			IsToday:        key == today,
			IsSelected:     key == selected,
			IsCurrentMonth: d.Month() == month,
			HasTasks:       count > 0,
			TaskCount:      count,
		})
		if len(week) == 7 {
			v.Weeks = append(v.Weeks, week)
			week = nil
		}
	}
	return v
}

// NextMonth returns the month after year/month.
func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// PrevMonth returns the month before year/month.
func PrevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// MonthName returns the English name of month.
func MonthName(month time.Month) string {
	return month.String()
}
