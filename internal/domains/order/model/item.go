package model

import "tably/shared/model"

const (
	ItemTableName  = "order_items"
	ItemEntityName = "order_item"

	ItemFieldID         = "id"
	ItemFieldOrderID    = "order_id"
	ItemFieldMenuItemID = "menu_item_id"
)

// OrderItem snapshots the menu item name and unit price at order time;
// later menu edits never reprice a placed order.
type OrderItem struct {
	ID         string  `db:"id"`
	OrderID    string  `db:"order_id"`
	MenuItemID string  `db:"menu_item_id"`
	Name       string  `db:"name"`
	Quantity   int     `db:"quantity"`
	UnitPrice  float64 `db:"unit_price"`
	LineTotal  float64 `db:"line_total"`
	model.Metadata
}
