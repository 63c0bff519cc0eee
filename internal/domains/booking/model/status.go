package model

import "slices"

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// roomTransitions: PENDING -> CONFIRMED -> CHECKED_IN -> CHECKED_OUT, with
// cancellation possible until check-in.
var roomTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn: {StatusCheckedOut},
}

// tableTransitions: the narrower PENDING -> CONFIRMED -> COMPLETED | CANCELLED.
var tableTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func transitionsFor(resourceType ResourceType) map[Status][]Status {
	if resourceType == ResourceTable {
		return tableTransitions
	}

	return roomTransitions
}

// CanTransition reports whether a booking of the given resource type may
// move from one status to another.
func CanTransition(resourceType ResourceType, from, to Status) bool {
	return slices.Contains(transitionsFor(resourceType)[from], to)
}

// Terminal reports whether no further transition is permitted from the
// status for the given resource type.
func (s Status) Terminal(resourceType ResourceType) bool {
	return len(transitionsFor(resourceType)[s]) == 0
}

// Active identifies the statuses that occupy a window for conflict
// purposes. Pending bookings count so two racing requests cannot both be
// admitted before either is confirmed.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCheckedIn
}

func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusCheckedIn}
}
