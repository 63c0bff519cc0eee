package dto

import (
	"tably/internal/domains/order/model"
	"tably/shared"
	gDto "tably/shared/dto"
	"time"
)

type PlaceOrderRequest struct {
	RestaurantID string             `json:"restaurant_id" validate:"required"`
	Items        []OrderItemRequest `json:"items"         validate:"omitempty,dive"`
	Discount     float64            `json:"discount"      validate:"omitempty,min=0"`
}

type OrderItemRequest struct {
	MenuItemID string `json:"menu_item_id" validate:"required"`
	Quantity   int    `json:"quantity"     validate:"required,min=1"`
}

type AdvanceOrderRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed preparing ready_for_pickup on_the_way delivered"`
}

type FeedbackRequest struct {
	Rating   int    `json:"rating"   validate:"required,min=1,max=5"`
	Feedback string `json:"feedback" validate:"omitempty,max=1000"`
}

type OrderItemResponse struct {
	ID         string  `json:"id"`
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	LineTotal  float64 `json:"line_total"`
}

func (r *OrderItemResponse) FromModel(item model.OrderItem) {
	r.ID = item.ID
	r.MenuItemID = item.MenuItemID
	r.Name = item.Name
	r.Quantity = item.Quantity
	r.UnitPrice = item.UnitPrice
	r.LineTotal = item.LineTotal
}

type OrderResponse struct {
	ID              string              `json:"id"`
	OrderNumber     int64               `json:"order_number"`
	RestaurantID    string              `json:"restaurant_id"`
	CustomerID      string              `json:"customer_id"`
	Status          string              `json:"status"`
	Subtotal        float64             `json:"subtotal"`
	DeliveryCharge  float64             `json:"delivery_charge"`
	PackagingCharge float64             `json:"packaging_charge"`
	Discount        float64             `json:"discount"`
	TotalAmount     float64             `json:"total_amount"`
	Rating          int                 `json:"rating,omitempty"`
	Feedback        string              `json:"feedback,omitempty"`
	Items           []OrderItemResponse `json:"items,omitempty"`
	PlacedAt        string              `json:"placed_at"`
	gDto.Metadata
}

func (r *OrderResponse) FromModel(order model.Order, items []model.OrderItem) {
	r.ID = order.ID
	r.OrderNumber = order.OrderNumber
	r.RestaurantID = order.RestaurantID
	r.CustomerID = order.CustomerID
	r.Status = string(order.Status)
	r.Subtotal = order.Subtotal
	r.DeliveryCharge = order.DeliveryCharge
	r.PackagingCharge = order.PackagingCharge
	r.Discount = order.Discount
	r.TotalAmount = order.TotalAmount
	r.Rating = order.Rating
	r.Feedback = order.Feedback
	r.PlacedAt = order.CreatedAt.Format(time.RFC3339)
	r.Metadata.FromModel(order.Metadata)

	r.Items = make([]OrderItemResponse, len(items))
	for i, item := range items {
		r.Items[i].FromModel(item)
	}
}

type GetOrdersResponse struct {
	Orders    []OrderResponse `json:"orders"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetOrdersResponse) FromModels(models []model.Order, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Orders = make([]OrderResponse, len(models))
	for i, mod := range models {
		r.Orders[i].FromModel(mod, nil)
	}
}
