package models

import "time"

// EventType is the kind of timeline entry.
type EventType string

const (
	EventCreated   EventType = "created"
	EventStarted   EventType = "started"
	EventCompleted EventType = "completed"
	EventDelegated EventType = "delegated"
	EventDelayed   EventType = "delayed"
	EventUpdated   EventType = "updated"
)

// TimelineEvent records a task lifecycle transition. TaskTitle is a snapshot.
type TimelineEvent struct {
	ID            string         `json:"id"`
	TaskID        string         `json:"taskId"`
	TaskTitle     string         `json:"taskTitle"`
	Type          EventType      `json:"type"`
	Timestamp     time.Time      `json:"timestamp"`
	PreviousState *TaskState     `json:"previousState,omitempty"`
	NewState      *TaskState     `json:"newState,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// Clone returns a deep copy of the event. Metadata values are copied shallowly.
func (e TimelineEvent) Clone() TimelineEvent {
	out := e
	if e.PreviousState != nil {
		s := *e.PreviousState
		out.PreviousState = &s
	}
	if e.NewState != nil {
		s := *e.NewState
		out.NewState = &s
	}
	if e.Metadata != nil {
		out.Metadata = make(map[string]any, len(e.Metadata))
		for k, v := range e.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// Timeline maps a YYYY-MM-DD date to that day's events in insertion order.
type Timeline map[string][]TimelineEvent

// Clone deep-copies the timeline.
func (tl Timeline) Clone() Timeline {
	out := make(Timeline, len(tl))
	for date, events := range tl {
		cp := make([]TimelineEvent, len(events))
		for i, e := range events {
			cp[i] = e.Clone()
		}
		out[date] = cp
	}
	return out
}
