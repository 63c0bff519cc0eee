package model

import "tably/shared/model"

const (
	TableName  = "restaurants"
	EntityName = "restaurant"

	FieldID              = "id"
	FieldName            = "name"
	FieldOwnerID         = "owner_id"
	FieldOpen            = "open"
	FieldTableCapacity   = "table_capacity"
	FieldSlotMinutes     = "slot_minutes"
	FieldDeliveryCharge  = "delivery_charge"
	FieldPackagingCharge = "packaging_charge"
	FieldActive          = "active"
)

type Restaurant struct {
	ID              string  `db:"id"`
	Name            string  `db:"name"`
	OwnerID         string  `db:"owner_id"`
	Open            bool    `db:"open"`
	TableCapacity   int     `db:"table_capacity"`
	SlotMinutes     int     `db:"slot_minutes"`
	DeliveryCharge  float64 `db:"delivery_charge"`
	PackagingCharge float64 `db:"packaging_charge"`
	Active          bool    `db:"active"`
	model.Metadata
}
