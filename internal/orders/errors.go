package orders

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("order not found")

// errNoProductRow is the internal marker a Tx returns when a basket line
// references a product that does not exist.
var errNoProductRow = errors.New("no such product")

// BasketError rejects a malformed basket, naming the offending field.
type BasketError struct {
	Field   string
	Message string
}

func (e *BasketError) Error() string { return e.Field + ": " + e.Message }

type UnknownProductError struct {
	ProductID string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product: %s", e.ProductID)
}

// InsufficientStockError identifies the product by name, per the API
// contract: callers see which line sank the whole basket.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d", e.Name, e.Requested, e.Available)
}
