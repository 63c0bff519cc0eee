package dto

import (
	"fmt"
	"tably/internal/domains/subscription/model"
	"tably/shared"
	"tably/shared/constant"
	gDto "tably/shared/dto"
	"time"
)

type SubscribeRequest struct {
	MealPlanID string `json:"meal_plan_id" validate:"required"`
	StartDate  string `json:"start_date"   validate:"required"`
	EndDate    string `json:"end_date"     validate:"required"`
}

// Window parses the requested date range.
func (r *SubscribeRequest) Window() (start, end time.Time, err error) {
	start, err = time.Parse(constant.DateOnlyFormat, r.StartDate)
	if err != nil {
		return start, end, fmt.Errorf("invalid start_date: %w", err)
	}

	end, err = time.Parse(constant.DateOnlyFormat, r.EndDate)
	if err != nil {
		return start, end, fmt.Errorf("invalid end_date: %w", err)
	}

	return start, end, nil
}

type SubscriptionResponse struct {
	ID           string  `json:"id"`
	MealPlanID   string  `json:"meal_plan_id"`
	SubscriberID string  `json:"subscriber_id"`
	WindowStart  string  `json:"window_start"`
	WindowEnd    string  `json:"window_end"`
	PricePerDay  float64 `json:"price_per_day"`
	TotalAmount  float64 `json:"total_amount"`
	Days         int     `json:"days"`
	Status       string  `json:"status"`
	gDto.Metadata
}

func (r *SubscriptionResponse) FromModel(model model.Subscription) {
	r.ID = model.ID
	r.MealPlanID = model.MealPlanID
	r.SubscriberID = model.SubscriberID
	r.WindowStart = model.WindowStart.Format(constant.DateOnlyFormat)
	r.WindowEnd = model.WindowEnd.Format(constant.DateOnlyFormat)
	r.PricePerDay = model.PricePerDay
	r.TotalAmount = model.TotalAmount
	r.Days = model.Days()
	r.Status = string(model.Status)
	r.Metadata.FromModel(model.Metadata)
}

type GetSubscriptionsResponse struct {
	Subscriptions []SubscriptionResponse `json:"subscriptions"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
}

func (r *GetSubscriptionsResponse) FromModels(models []model.Subscription, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Subscriptions = make([]SubscriptionResponse, len(models))
	for i, mod := range models {
		r.Subscriptions[i].FromModel(mod)
	}
}
