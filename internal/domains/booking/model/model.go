package model

import (
	"tably/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID           = "id"
	FieldResourceType = "resource_type"
	FieldResourceID   = "resource_id"
	FieldRequesterID  = "requester_id"
	FieldWindowStart  = "window_start"
	FieldWindowEnd    = "window_end"
	FieldGuestCount   = "guest_count"
	FieldStatus       = "status"
)

// ResourceType distinguishes exclusive resources (rooms: at most one
// confirmed booking per overlapping window) from capacity resources
// (tables: bounded by aggregate guest count).
type ResourceType string

const (
	ResourceRoom  ResourceType = "room"
	ResourceTable ResourceType = "table"
)

type Booking struct {
	ID           string       `db:"id"`
	ResourceType ResourceType `db:"resource_type"`
	ResourceID   string       `db:"resource_id"`
	RequesterID  string       `db:"requester_id"`
	WindowStart  time.Time    `db:"window_start"`
	WindowEnd    time.Time    `db:"window_end"`
	GuestCount   int          `db:"guest_count"`
	Status       Status       `db:"status"`
	model.Metadata
}

// IsRequester reports whether the given actor created this booking.
// Authorization itself is the caller's concern; this is the only ownership
// predicate the engine computes.
func (b *Booking) IsRequester(actorID string) bool {
	return b.RequesterID == actorID
}
