package reviews

import (
	"context"
	"errors"
)

var (
	// ErrDuplicate: at most one review per (product, user) pair.
	ErrDuplicate = errors.New("user has already reviewed this product")
	ErrRating    = errors.New("rating must be between 1 and 5")
)

type Store interface {
	Create(ctx context.Context, rv *Review) error
	// ListByProduct returns reviews newest-first.
	ListByProduct(ctx context.Context, productID string) ([]Review, error)
}
