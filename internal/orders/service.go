package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service implements order placement: validate the basket, then inside a
// single transaction create the order, and per line re-check stock under
// a row lock, snapshot the item and decrement. Any failure aborts the
// whole basket; nothing is committed.
type Service struct {
	Store Store

	// Now is a test seam; zero value means time.Now.
	Now func() time.Time
}

func NewService(s Store) *Service { return &Service{Store: s} }

func (s *Service) Place(ctx context.Context, userID string, lines []Line) (*Order, error) {
	if len(lines) == 0 {
		return nil, &BasketError{Field: "items", Message: "basket must not be empty"}
	}
	for i, ln := range lines {
		if ln.ProductID == "" {
			return nil, &BasketError{Field: fmt.Sprintf("items[%d].product_id", i), Message: "product id is required"}
		}
		if ln.Qty <= 0 {
			return nil, &BasketError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "quantity must be a positive integer"}
		}
	}

	tx, err := s.Store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o := &Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Total:     decimal.Zero,
		CreatedAt: s.now(),
	}
	if err := tx.InsertOrder(ctx, o); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, ln := range lines {
		row, err := tx.ProductForUpdate(ctx, ln.ProductID)
		if errors.Is(err, errNoProductRow) {
			return nil, &UnknownProductError{ProductID: ln.ProductID}
		}
		if err != nil {
			return nil, err
		}
		if row.Stock < ln.Qty {
			return nil, &InsufficientStockError{
				ProductID: row.ID,
				Name:      row.Name,
				Requested: ln.Qty,
				Available: row.Stock,
			}
		}

		it := Item{ProductID: row.ID, ProductName: row.Name, Qty: ln.Qty, Price: row.Price}
		if err := tx.InsertItem(ctx, o.ID, it); err != nil {
			return nil, err
		}
		if err := tx.DecrementStock(ctx, row.ID, ln.Qty); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
		total = total.Add(row.Price.Mul(decimal.NewFromInt(int64(ln.Qty))))
	}

	if err := tx.SetTotal(ctx, o.ID, total); err != nil {
		return nil, err
	}
	o.Total = total

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
