package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Begin(ctx context.Context) (Tx, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	return &pgxTx{tx: tx}, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Order, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrNotFound
	}
	var o Order
	err := r.DB.QueryRow(ctx, `SELECT id, user_id, total, created_at FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.UserID, &o.Total, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.list(ctx, `SELECT id, user_id, total, created_at FROM orders WHERE user_id=$1 ORDER BY created_at DESC, id`, userID)
}

func (r *Repo) ListAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx, `SELECT id, user_id, total, created_at FROM orders ORDER BY created_at DESC, id`)
}

func (r *Repo) list(ctx context.Context, q string, args ...any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Total, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.loadItems(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Repo) loadItems(ctx context.Context, o *Order) error {
	rows, err := r.DB.Query(ctx, `
		SELECT product_id, product_name, qty, price
		FROM order_items WHERE order_id=$1 ORDER BY id`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	o.Items = []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Qty, &it.Price); err != nil {
			return err
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

type pgxTx struct{ tx pgx.Tx }

func (t *pgxTx) InsertOrder(ctx context.Context, o *Order) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO orders(id, user_id, total, created_at)
		VALUES ($1,$2,$3,$4)`, o.ID, o.UserID, o.Total, o.CreatedAt)
	return err
}

func (t *pgxTx) ProductForUpdate(ctx context.Context, productID string) (*ProductRow, error) {
	if uuid.Validate(productID) != nil {
		return nil, errNoProductRow
	}
	var row ProductRow
	err := t.tx.QueryRow(ctx, `
		SELECT id, name, price, stock_quantity
		FROM products WHERE id=$1 FOR UPDATE`, productID).
		Scan(&row.ID, &row.Name, &row.Price, &row.Stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errNoProductRow
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (t *pgxTx) InsertItem(ctx context.Context, orderID string, it Item) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO order_items(order_id, product_id, product_name, qty, price)
		VALUES ($1,$2,$3,$4,$5)`, orderID, it.ProductID, it.ProductName, it.Qty, it.Price)
	return err
}

func (t *pgxTx) DecrementStock(ctx context.Context, productID string, qty int) error {
	ct, err := t.tx.Exec(ctx, `
		UPDATE products SET stock_quantity = stock_quantity - $2
		WHERE id=$1 AND stock_quantity >= $2`, productID, qty)
	if err != nil {
		return err
	}
	// the row is locked and the caller already checked stock
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("stock decrement lost for product %s", productID)
	}
	return nil
}

func (t *pgxTx) SetTotal(ctx context.Context, orderID string, total decimal.Decimal) error {
	_, err := t.tx.Exec(ctx, `UPDATE orders SET total=$2 WHERE id=$1`, orderID, total)
	return err
}

func (t *pgxTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *pgxTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }
