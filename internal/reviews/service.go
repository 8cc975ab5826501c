package reviews

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	Store Store
}

func NewService(s Store) *Service { return &Service{Store: s} }

// Create validates the rating and persists the review. The store rejects
// a second review for the same (product, user) pair with ErrDuplicate.
func (s *Service) Create(ctx context.Context, productID, userID string, rating int, text string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrRating
	}
	rv := &Review{
		ID:        uuid.NewString(),
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.Create(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *Service) ListByProduct(ctx context.Context, productID string) ([]Review, error) {
	return s.Store.ListByProduct(ctx, productID)
}
