package model

import (
	"tably/shared/model"
)

const (
	TableName  = "orders"
	EntityName = "order"

	FieldID           = "id"
	FieldOrderNumber  = "order_number"
	FieldRestaurantID = "restaurant_id"
	FieldCustomerID   = "customer_id"
	FieldStatus       = "status"
	FieldSubtotal     = "subtotal"
	FieldTotalAmount  = "total_amount"
	FieldRating       = "rating"
	FieldFeedback     = "feedback"
)

type Order struct {
	ID              string  `db:"id"`
	OrderNumber     int64   `db:"order_number"`
	RestaurantID    string  `db:"restaurant_id"`
	CustomerID      string  `db:"customer_id"`
	Status          Status  `db:"status"`
	Subtotal        float64 `db:"subtotal"`
	DeliveryCharge  float64 `db:"delivery_charge"`
	PackagingCharge float64 `db:"packaging_charge"`
	Discount        float64 `db:"discount"`
	TotalAmount     float64 `db:"total_amount"`
	Rating          int     `db:"rating"`
	Feedback        string  `db:"feedback"`
	model.Metadata
}

func (o *Order) IsCustomer(actorID string) bool {
	return o.CustomerID == actorID
}
