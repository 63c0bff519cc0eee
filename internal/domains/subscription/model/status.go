package model

import "slices"

type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Active and paused subscriptions can move between each other; both can
// end in cancelled (by the subscriber) or completed (window elapsed).
var transitions = map[Status][]Status{
	StatusActive: {StatusPaused, StatusCancelled, StatusCompleted},
	StatusPaused: {StatusActive, StatusCancelled, StatusCompleted},
}

func CanTransition(from, to Status) bool {
	return slices.Contains(transitions[from], to)
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Running reports whether the subscription still occupies its window.
func (s Status) Running() bool {
	return s == StatusActive || s == StatusPaused
}
