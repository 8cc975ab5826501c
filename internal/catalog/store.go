package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateCategory = errors.New("category name already exists")
)

// Filter composes the product query pipeline. Every field is optional;
// set fields apply conjunctively. Query matches the product name OR the
// category name, case-insensitively.
type Filter struct {
	CategoryID string
	PriceMin   *decimal.Decimal // inclusive
	PriceMax   *decimal.Decimal // inclusive
	InStock    bool             // stock strictly greater than zero
	Query      string
	Offset     int
	Limit      int
}

type Store interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id string) (*Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id string) error
	// SearchProducts returns a page of matches plus the total count.
	SearchProducts(ctx context.Context, f Filter) ([]Product, int, error)

	CreateCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, id string) (*Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id string) error
}
