package model

import (
	"tably/shared/model"
	"time"
)

const (
	TableName  = "subscriptions"
	EntityName = "subscription"

	FieldID           = "id"
	FieldMealPlanID   = "meal_plan_id"
	FieldSubscriberID = "subscriber_id"
	FieldWindowStart  = "window_start"
	FieldWindowEnd    = "window_end"
	FieldStatus       = "status"
)

// Subscription covers the half-open date window [WindowStart, WindowEnd).
// PricePerDay is snapshotted from the plan at subscribe time.
type Subscription struct {
	ID           string    `db:"id"`
	MealPlanID   string    `db:"meal_plan_id"`
	SubscriberID string    `db:"subscriber_id"`
	WindowStart  time.Time `db:"window_start"`
	WindowEnd    time.Time `db:"window_end"`
	PricePerDay  float64   `db:"price_per_day"`
	TotalAmount  float64   `db:"total_amount"`
	Status       Status    `db:"status"`
	model.Metadata
}

func (s *Subscription) IsSubscriber(actorID string) bool {
	return s.SubscriberID == actorID
}

// Days returns the number of plan days the window covers.
func (s *Subscription) Days() int {
	return int(s.WindowEnd.Sub(s.WindowStart).Hours() / 24)
}
