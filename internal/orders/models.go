package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line is one basket entry as submitted by the client.
type Line struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"quantity"`
}

// Item is the frozen snapshot of a purchased line: name and unit price
// as they were at placement time, independent of later catalog changes.
type Item struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Qty         int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	Items     []Item          `json:"items"`
}

// ProductRow is the slice of a product the placement transaction needs.
type ProductRow struct {
	ID    string
	Name  string
	Price decimal.Decimal
	Stock int
}
