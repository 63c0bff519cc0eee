package model

import "tably/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID          = "id"
	FieldName        = "name"
	FieldLocation    = "location"
	FieldOwnerID     = "owner_id"
	FieldNightlyRate = "nightly_rate"
	FieldActive      = "active"
)

type Room struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Location    string  `db:"location"`
	OwnerID     string  `db:"owner_id"`
	NightlyRate float64 `db:"nightly_rate"`
	Active      bool    `db:"active"`
	model.Metadata
}
