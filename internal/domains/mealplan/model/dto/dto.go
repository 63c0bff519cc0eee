package dto

import (
	"tably/internal/domains/mealplan/model"
	"tably/shared"
	gDto "tably/shared/dto"
	gModel "tably/shared/model"
	"time"

	"github.com/google/uuid"
)

type CreateMealPlanRequest struct {
	Name        string  `json:"name"          validate:"required,max=100"`
	Description string  `json:"description"   validate:"omitempty,max=500"`
	PricePerDay float64 `json:"price_per_day" validate:"required,min=0"`
}

func (c *CreateMealPlanRequest) ToModel(kitchenID string, now time.Time) model.MealPlan {
	return model.MealPlan{
		ID:          uuid.NewString(),
		Name:        c.Name,
		KitchenID:   kitchenID,
		Description: c.Description,
		PricePerDay: c.PricePerDay,
		Active:      true,
		Metadata:    gModel.NewMetadata(now, kitchenID),
	}
}

type UpdateMealPlanRequest struct {
	Name        string  `db:"name"          json:"name"          validate:"omitempty,max=100"`
	Description string  `db:"description"   json:"description"   validate:"omitempty,max=500"`
	PricePerDay float64 `db:"price_per_day" json:"price_per_day" validate:"omitempty,min=0"`
}

type MealPlanResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	KitchenID   string  `json:"kitchen_id"`
	Description string  `json:"description"`
	PricePerDay float64 `json:"price_per_day"`
	Active      bool    `json:"active"`
	gDto.Metadata
}

func (r *MealPlanResponse) FromModel(model model.MealPlan) {
	r.ID = model.ID
	r.Name = model.Name
	r.KitchenID = model.KitchenID
	r.Description = model.Description
	r.PricePerDay = model.PricePerDay
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetMealPlansResponse struct {
	MealPlans []MealPlanResponse `json:"meal_plans"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetMealPlansResponse) FromModels(models []model.MealPlan, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.MealPlans = make([]MealPlanResponse, len(models))
	for i, mod := range models {
		r.MealPlans[i].FromModel(mod)
	}
}
