package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   *string         `json:"category"`
	CategoryName string          `json:"category_name,omitempty"`
	Stock        int             `json:"stock_quantity"`
	ImageURL     *string         `json:"image_url"`
	CreatedAt    time.Time       `json:"created_date"`
}
