package model

import "tably/shared/model"

const (
	TableName  = "meal_plans"
	EntityName = "meal_plan"

	FieldID          = "id"
	FieldName        = "name"
	FieldKitchenID   = "kitchen_id"
	FieldDescription = "description"
	FieldPricePerDay = "price_per_day"
	FieldActive      = "active"
)

// MealPlan is a cloud-kitchen plan priced per day. Subscriptions snapshot
// the price at subscribe time, so later edits never reprice running
// subscriptions.
type MealPlan struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	KitchenID   string  `db:"kitchen_id"`
	Description string  `db:"description"`
	PricePerDay float64 `db:"price_per_day"`
	Active      bool    `db:"active"`
	model.Metadata
}
