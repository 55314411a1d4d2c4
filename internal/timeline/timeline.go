// Package timeline keeps the per-date log of task lifecycle events.
package timeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/ritual-tui/ritual/internal/dates"
	"github.com/ritual-tui/ritual/internal/models"
)

// CreateEvent builds an event without recording it anywhere.
func CreateEvent(taskID, title string, typ models.EventType, at time.Time, prev, next *models.TaskState) models.TimelineEvent {
	return models.TimelineEvent{
		ID:            uuid.NewString(),
		TaskID:        taskID,
		TaskTitle:     title,
		Type:          typ,
		Timestamp:     at,
		PreviousState: prev,
		NewState:      next,
	}
}

// TransitionEvent builds the event recorded when a task moves from prev to next.
func TransitionEvent(t models.Task, prev, next models.TaskState, at time.Time) (models.TimelineEvent, bool) {
	typ, ok := EventTypeForState(next)
	if !ok {
		return models.TimelineEvent{}, false
	}
	return CreateEvent(t.ID, t.Title, typ, at, &prev, &next), true
}

// EventTypeForState maps a terminal state to the event recording it.
func EventTypeForState(s models.TaskState) (models.EventType, bool) {
	switch s {
	case models.TaskStateCompleted:
		return models.EventCompleted, true
	case models.TaskStateDelegated:
		return models.EventDelegated, true
	case models.TaskStateDelayed:
		return models.EventDelayed, true
	}
	return "", false
}

// EventsForDate returns the events recorded on date, in insertion order.
func EventsForDate(tl models.Timeline, date string) []models.TimelineEvent {
	return tl[date]
}

// AddEvent appends e to the bucket of its timestamp's local date.
func AddEvent(tl models.Timeline, e models.TimelineEvent) models.Timeline {
	date := dates.Format(e.Timestamp)
	out := copyTimeline(tl)
	events := make([]models.TimelineEvent, 0, len(tl[date])+1)
	events = append(events, tl[date]...)
	out[date] = append(events, e)
	return out
}

// RemoveEventsByTaskID drops every event of taskID. Buckets left empty are removed.
func RemoveEventsByTaskID(tl models.Timeline, taskID string) models.Timeline {
	out := make(models.Timeline, len(tl))
	for date, events := range tl {
		kept := make([]models.TimelineEvent, 0, len(events))
		for _, e := range events {
			if e.TaskID != taskID {
				kept = append(kept, e)
			}
		}
		if len(kept) > 0 {
			out[date] = kept
		}
	}
	return out
}

// RemoveLastEventByType removes the most recent event of typ for taskID.
// Dates are scanned newest first and only the first bucket holding a match is
// touched; within it the last match by position goes. A bucket left empty is removed.
func RemoveLastEventByType(tl models.Timeline, taskID string, typ models.EventType) models.Timeline {
	keys := make([]string, 0, len(tl))
	for k := range tl {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	for _, date := range keys {
		events := tl[date]
		idx := -1
		for i := len(events) - 1; i >= 0; i-- {
			if events[i].TaskID == taskID && events[i].Type == typ {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}

		out := copyTimeline(tl)
		kept := make([]models.TimelineEvent, 0, len(events)-1)
		kept = append(kept, events[:idx]...)
		kept = append(kept, events[idx+1:]...)
		if len(kept) == 0 {
			delete(out, date)
		} else {
			out[date] = kept
		}
		return out
	}
	return tl
}

// ClearDate removes every event recorded on date.
func ClearDate(tl models.Timeline, date string) models.Timeline {
	out := copyTimeline(tl)
	delete(out, date)
	return out
}

// FormatEventDescription renders e as "03:04 PM - Completed: Title (todo -> completed)".
// timeFormat is "12h" or "24h".
func FormatEventDescription(e models.TimelineEvent, timeFormat string) string {
	layout := "03:04 PM"
	if timeFormat == "24h" {
		layout = "15:04"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s: %s", e.Timestamp.In(time.Local).Format(layout), capitalize(string(e.Type)), e.TaskTitle)
	if e.NewState != nil {
		prev := "none"
		if e.PreviousState != nil {
			prev = string(*e.PreviousState)
		}
		fmt.Fprintf(&b, " (%s -> %s)", prev, *e.NewState)
	}
	return b.String()
}

// Ago describes when e happened relative to now ("3 minutes ago").
func Ago(e models.TimelineEvent, now time.Time) string {
	return humanize.RelTime(e.Timestamp, now, "ago", "from now")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func copyTimeline(tl models.Timeline) models.Timeline {
	out := make(models.Timeline, len(tl)+1)
	for k, v := range tl {
		out[k] = v
	}
	return out
}
