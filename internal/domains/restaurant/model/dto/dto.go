package dto

import (
	"tably/internal/domains/restaurant/model"
	"tably/shared"
	gDto "tably/shared/dto"
	gModel "tably/shared/model"
	"time"

	"github.com/google/uuid"
)

type CreateRestaurantRequest struct {
	Name            string  `json:"name"             validate:"required,max=100"`
	TableCapacity   int     `json:"table_capacity"   validate:"omitempty,min=1"`
	SlotMinutes     int     `json:"slot_minutes"     validate:"omitempty,min=15"`
	DeliveryCharge  float64 `json:"delivery_charge"  validate:"omitempty,min=0"`
	PackagingCharge float64 `json:"packaging_charge" validate:"omitempty,min=0"`
}

func (c *CreateRestaurantRequest) ToModel(ownerID string, defaultCapacity, defaultSlotMinutes int, now time.Time) model.Restaurant {
	capacity := c.TableCapacity
	if capacity == 0 {
		capacity = defaultCapacity
	}

	slotMinutes := c.SlotMinutes
	if slotMinutes == 0 {
		slotMinutes = defaultSlotMinutes
	}

	return model.Restaurant{
		ID:              uuid.NewString(),
		Name:            c.Name,
		OwnerID:         ownerID,
		Open:            false,
		TableCapacity:   capacity,
		SlotMinutes:     slotMinutes,
		DeliveryCharge:  c.DeliveryCharge,
		PackagingCharge: c.PackagingCharge,
		Active:          true,
		Metadata:        gModel.NewMetadata(now, ownerID),
	}
}

type UpdateRestaurantRequest struct {
	Name            string  `db:"name"             json:"name"             validate:"omitempty,max=100"`
	TableCapacity   int     `db:"table_capacity"   json:"table_capacity"   validate:"omitempty,min=1"`
	SlotMinutes     int     `db:"slot_minutes"     json:"slot_minutes"     validate:"omitempty,min=15"`
	DeliveryCharge  float64 `db:"delivery_charge"  json:"delivery_charge"  validate:"omitempty,min=0"`
	PackagingCharge float64 `db:"packaging_charge" json:"packaging_charge" validate:"omitempty,min=0"`
}

type SetOpenRequest struct {
	Open *bool `json:"open" validate:"required"`
}

type RestaurantResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	OwnerID         string  `json:"owner_id"`
	Open            bool    `json:"open"`
	TableCapacity   int     `json:"table_capacity"`
	SlotMinutes     int     `json:"slot_minutes"`
	DeliveryCharge  float64 `json:"delivery_charge"`
	PackagingCharge float64 `json:"packaging_charge"`
	Active          bool    `json:"active"`
	gDto.Metadata
}

func (r *RestaurantResponse) FromModel(model model.Restaurant) {
	r.ID = model.ID
	r.Name = model.Name
	r.OwnerID = model.OwnerID
	r.Open = model.Open
	r.TableCapacity = model.TableCapacity
	r.SlotMinutes = model.SlotMinutes
	r.DeliveryCharge = model.DeliveryCharge
	r.PackagingCharge = model.PackagingCharge
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetRestaurantsResponse struct {
	Restaurants []RestaurantResponse `json:"restaurants"`
	TotalPage   int                  `json:"total_page"`
	TotalData   int                  `json:"total_data"`
}

func (r *GetRestaurantsResponse) FromModels(models []model.Restaurant, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Restaurants = make([]RestaurantResponse, len(models))
	for i, mod := range models {
		r.Restaurants[i].FromModel(mod)
	}
}

type CreateMenuItemRequest struct {
	Name  string  `json:"name"  validate:"required,max=100"`
	Price float64 `json:"price" validate:"required,min=0"`
}

func (c *CreateMenuItemRequest) ToModel(restaurantID, actorID string, now time.Time) model.MenuItem {
	return model.MenuItem{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		Name:         c.Name,
		Price:        c.Price,
		Available:    true,
		Metadata:     gModel.NewMetadata(now, actorID),
	}
}

type UpdateMenuItemRequest struct {
	Name      string  `db:"name"      json:"name"      validate:"omitempty,max=100"`
	Price     float64 `db:"price"     json:"price"     validate:"omitempty,min=0"`
	Available *bool   `db:"available" json:"available" validate:"omitempty"`
}

type MenuItemResponse struct {
	ID           string  `json:"id"`
	RestaurantID string  `json:"restaurant_id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Available    bool    `json:"available"`
	gDto.Metadata
}

func (r *MenuItemResponse) FromModel(model model.MenuItem) {
	r.ID = model.ID
	r.RestaurantID = model.RestaurantID
	r.Name = model.Name
	r.Price = model.Price
	r.Available = model.Available
	r.Metadata.FromModel(model.Metadata)
}

type GetMenuResponse struct {
	Items []MenuItemResponse `json:"items"`
}

func (r *GetMenuResponse) FromModels(models []model.MenuItem) {
	r.Items = make([]MenuItemResponse, len(models))
	for i, mod := range models {
		r.Items[i].FromModel(mod)
	}
}
