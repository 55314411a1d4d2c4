package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ritual-tui/ritual/internal/calendar"
	"github.com/ritual-tui/ritual/internal/dates"
	"github.com/ritual-tui/ritual/internal/models"
	"github.com/ritual-tui/ritual/internal/recurrence"
	"github.com/ritual-tui/ritual/internal/session"
	"github.com/ritual-tui/ritual/internal/timeline"
	"github.com/ritual-tui/ritual/internal/tree"
)

func dayHeading(date, today string) string {
	label := date
	if t, err := dates.Parse(date); err == nil {
		label = t.Format("Monday, January 2 2006")
	}
	switch date {
	case today:
		label += " (today)"
	case dates.Format(dates.AddDays(dates.MustParse(today), 1)):
		label += " (tomorrow)"
	case dates.Format(dates.AddDays(dates.MustParse(today), -1)):
		label += " (yesterday)"
	}
	return styleHeading.Render(label)
}

func renderStats(stats models.TaskStats) string {
	return fmt.Sprintf("%d/%d done (%d%%)", stats.Completed, stats.Total, stats.Percentage)
}

// renderDay prints the tasks of one day as a numbered tree. Recurring
// instances that are not stored yet show as upcoming instead of an id, since
// their ids do not survive the run.
func renderDay(out io.Writer, s *session.Session, date string) {
	view := s.View(date)
	fmt.Fprintf(out, "%s  %s\n", dayHeading(date, s.Today()), styleLabel.Render(renderStats(tree.Stats(view))))
	if len(view) == 0 {
		fmt.Fprintln(out, styleHint.Render("  No tasks. Add one with 'ritual add <title>'."))
		return
	}
	for i, t := range view {
		renderTask(out, t, []int{i}, s.Settings.TimeFormat, !s.Persisted(t.ID))
	}
}

func renderTask(out io.Writer, t models.Task, p []int, timeFormat string, upcoming bool) {
	indent := strings.Repeat("  ", len(p))

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s %s %s", indent, styleLabel.Render(position(p)+"."), stateBadge(t.State), t.Title)
	if t.Recurrence != nil && len(p) == 1 {
		b.WriteString(" " + styleRecur.Render("↻ "+recurrence.Describe(t.Recurrence)))
	}
	if t.IsRunning() {
		b.WriteString(" " + styleRunning.Render("▶ since "+clock(*t.StartTime, timeFormat)))
	}
	switch {
	case !upcoming:
		b.WriteString("  " + styleHint.Render(shortID(t.ID)))
	case len(p) == 1:
		b.WriteString("  " + styleHint.Render("(upcoming)"))
	}
	fmt.Fprintln(out, b.String())

	for i, c := range t.Children {
		renderTask(out, c, append(append([]int(nil), p...), i), timeFormat, upcoming)
	}
}

func clock(t time.Time, timeFormat string) string {
	if timeFormat == "24h" {
		return t.In(time.Local).Format("15:04")
	}
	return t.In(time.Local).Format("03:04 PM")
}

// renderTimeline prints a day's events oldest first.
func renderTimeline(out io.Writer, date, today string, events []models.TimelineEvent, timeFormat string, now time.Time) {
	fmt.Fprintln(out, dayHeading(date, today))
	if len(events) == 0 {
		fmt.Fprintln(out, styleHint.Render("  Nothing recorded."))
		return
	}
	for _, e := range events {
		fmt.Fprintf(out, "  %s  %s\n", timeline.FormatEventDescription(e, timeFormat), styleHint.Render(timeline.Ago(e, now)))
	}
}

// renderCalendar prints a month grid. Days with tasks carry their count.
func renderCalendar(out io.Writer, v calendar.View) {
	fmt.Fprintln(out, styleHeading.Render(fmt.Sprintf("%s %d", calendar.MonthName(v.Month), v.Year)))
	fmt.Fprintln(out, styleLabel.Render(" Su  Mo  Tu  We  Th  Fr  Sa"))
	for _, week := range v.Weeks {
		cells := make([]string, len(week))
		for i, d := range week {
			cells[i] = calendarCell(d)
		}
		fmt.Fprintln(out, strings.Join(cells, ""))
	}
}

func calendarCell(d calendar.Day) string {
	cell := fmt.Sprintf("%3d", d.Day)
	if d.HasTasks && d.IsCurrentMonth {
		cell = fmt.Sprintf("%2d", d.Day) + "•"
	}
	style := styleValue
	switch {
	case !d.IsCurrentMonth:
		style = calOutside
	case d.IsToday:
		style = calToday
	case d.HasTasks:
		style = calBusy
	}
	if d.IsSelected {
		style = style.Inherit(calSelected)
	}
	return style.Render(cell) + " "
}
