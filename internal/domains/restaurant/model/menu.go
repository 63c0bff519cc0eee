package model

import "tably/shared/model"

const (
	MenuTableName  = "menu_items"
	MenuEntityName = "menu_item"

	MenuFieldID           = "id"
	MenuFieldRestaurantID = "restaurant_id"
	MenuFieldName         = "name"
	MenuFieldPrice        = "price"
	MenuFieldAvailable    = "available"
)

type MenuItem struct {
	ID           string  `db:"id"`
	RestaurantID string  `db:"restaurant_id"`
	Name         string  `db:"name"`
	Price        float64 `db:"price"`
	Available    bool    `db:"available"`
	model.Metadata
}
