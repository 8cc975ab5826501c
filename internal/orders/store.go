package orders

import (
	"context"

	"github.com/shopspring/decimal"
)

// Store is the persistence boundary of order placement. The placement
// algorithm in Service depends only on this pair of interfaces, never on
// a concrete storage engine.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
	Get(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
}

// Tx is a single placement transaction. ProductForUpdate must lock the
// product row against concurrent placements until Commit or Rollback, so
// that check-then-decrement is atomic per product. Rollback after Commit
// is a no-op.
type Tx interface {
	InsertOrder(ctx context.Context, o *Order) error
	ProductForUpdate(ctx context.Context, productID string) (*ProductRow, error)
	InsertItem(ctx context.Context, orderID string, it Item) error
	DecrementStock(ctx context.Context, productID string, qty int) error
	SetTotal(ctx context.Context, orderID string, total decimal.Decimal) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
