package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID          int64           `json:"id"`
	TableNumber int             `json:"table_number"`
	Status      string          `json:"status"` // e.g., "placed", "preparing", "served", "completed"
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// OrderLine is a single dish on an order, joined with the menu item name and
// the creation time of its parent order.
type OrderLine struct {
	OrderID        int64           `json:"order_id"`
	MenuItemID     int64           `json:"menu_item_id"`
	MenuItemName   string          `json:"menu_item_name"`
	Quantity       int             `json:"quantity"`
	PriceAtTime    decimal.Decimal `json:"price_at_time"`
	OrderCreatedAt time.Time       `json:"order_created_at"`
}

// Amount is quantity multiplied by the price charged at order time.
func (l OrderLine) Amount() decimal.Decimal {
	return l.PriceAtTime.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
