package reviews

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Create(ctx context.Context, rv *Review) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO reviews(id, product_id, user_id, rating, body, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		rv.ID, rv.ProductID, rv.UserID, rv.Rating, rv.Text, rv.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

func (r *Repo) ListByProduct(ctx context.Context, productID string) ([]Review, error) {
	if uuid.Validate(productID) != nil {
		return []Review{}, nil
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, product_id, user_id, rating, body, created_at
		FROM reviews WHERE product_id=$1
		ORDER BY created_at DESC, id DESC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Text, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
