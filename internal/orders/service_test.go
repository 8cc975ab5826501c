package orders

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore mirrors the row-lock semantics of the SQL implementation with
// one store-wide mutex held from Begin until Commit or Rollback. That is
// coarser than per-row locks but preserves the property under test:
// check-then-decrement is atomic with respect to concurrent placements.
type memStore struct {
	mu       sync.Mutex
	products map[string]*ProductRow
	orders   map[string]*Order
}

func newMemStore(products ...*ProductRow) *memStore {
	s := &memStore{
		products: make(map[string]*ProductRow),
		orders:   make(map[string]*Order),
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *memStore) Begin(ctx context.Context) (Tx, error) {
	s.mu.Lock()
	return &memTx{s: s, dec: make(map[string]int)}, nil
}

func (s *memStore) Get(ctx context.Context, id string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

func (s *memStore) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *memStore) ListAll(ctx context.Context) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Order
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

// memTx stages every write and applies them on Commit only.
type memTx struct {
	s     *memStore
	order *Order
	items []Item
	dec   map[string]int
	total decimal.Decimal
	done  bool
}

func (t *memTx) InsertOrder(ctx context.Context, o *Order) error {
	cp := *o
	t.order = &cp
	return nil
}

func (t *memTx) ProductForUpdate(ctx context.Context, productID string) (*ProductRow, error) {
	p, ok := t.s.products[productID]
	if !ok {
		return nil, errNoProductRow
	}
	cp := *p
	cp.Stock -= t.dec[productID]
	return &cp, nil
}

func (t *memTx) InsertItem(ctx context.Context, orderID string, it Item) error {
	t.items = append(t.items, it)
	return nil
}

func (t *memTx) DecrementStock(ctx context.Context, productID string, qty int) error {
	t.dec[productID] += qty
	return nil
}

func (t *memTx) SetTotal(ctx context.Context, orderID string, total decimal.Decimal) error {
	t.total = total
	return nil
}

func (t *memTx) Commit(ctx context.Context) error {
	for id, n := range t.dec {
		t.s.products[id].Stock -= n
	}
	t.order.Items = t.items
	t.order.Total = t.total
	t.s.orders[t.order.ID] = t.order
	t.done = true
	t.s.mu.Unlock()
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.s.mu.Unlock()
	return nil
}

func price(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestPlaceDecrementsStockAndSnapshotsItems(t *testing.T) {
	store := newMemStore(
		&ProductRow{ID: "p1", Name: "Mechanical Keyboard", Price: price("49.90"), Stock: 5},
	)
	svc := NewService(store)

	o, err := svc.Place(context.Background(), "u1", []Line{{ProductID: "p1", Qty: 2}})
	require.NoError(t, err)

	assert.Equal(t, "u1", o.UserID)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Mechanical Keyboard", o.Items[0].ProductName)
	assert.Equal(t, 2, o.Items[0].Qty)
	assert.True(t, o.Total.Equal(price("99.80")), "total = %s", o.Total)
	assert.Equal(t, 3, store.products["p1"].Stock)

	got, err := store.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(o.Total))
}

func TestPlaceInsufficientStock(t *testing.T) {
	store := newMemStore(
		&ProductRow{ID: "p1", Name: "Webcam", Price: price("30"), Stock: 1},
	)
	svc := NewService(store)

	_, err := svc.Place(context.Background(), "u1", []Line{{ProductID: "p1", Qty: 3}})

	var se *InsufficientStockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Webcam", se.Name)
	assert.Equal(t, 3, se.Requested)
	assert.Equal(t, 1, se.Available)

	assert.Equal(t, 1, store.products["p1"].Stock, "stock must be untouched")
	assert.Empty(t, store.orders, "no order row may survive a failed basket")
}

func TestPlaceAllOrNothing(t *testing.T) {
	store := newMemStore(
		&ProductRow{ID: "p1", Name: "Mouse", Price: price("15"), Stock: 10},
		&ProductRow{ID: "p2", Name: "Monitor", Price: price("200"), Stock: 1},
	)
	svc := NewService(store)

	_, err := svc.Place(context.Background(), "u1", []Line{
		{ProductID: "p1", Qty: 4},
		{ProductID: "p2", Qty: 2},
	})

	var se *InsufficientStockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "p2", se.ProductID)

	assert.Equal(t, 10, store.products["p1"].Stock, "first line must be rolled back too")
	assert.Equal(t, 1, store.products["p2"].Stock)
	assert.Empty(t, store.orders)
}

func TestPlaceUnknownProduct(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	_, err := svc.Place(context.Background(), "u1", []Line{{ProductID: "ghost", Qty: 1}})

	var ue *UnknownProductError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "ghost", ue.ProductID)
	assert.Empty(t, store.orders)
}

func TestPlaceRejectsMalformedBaskets(t *testing.T) {
	svc := NewService(newMemStore())

	cases := []struct {
		name  string
		lines []Line
		field string
	}{
		{"empty basket", nil, "items"},
		{"missing product id", []Line{{ProductID: "", Qty: 1}}, "items[0].product_id"},
		{"zero quantity", []Line{{ProductID: "p1", Qty: 1}, {ProductID: "p2", Qty: 0}}, "items[1].quantity"},
		{"negative quantity", []Line{{ProductID: "p1", Qty: -2}}, "items[0].quantity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Place(context.Background(), "u1", tc.lines)
			var be *BasketError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, tc.field, be.Field)
		})
	}
}

func TestPlaceSameProductTwiceInOneBasket(t *testing.T) {
	store := newMemStore(
		&ProductRow{ID: "p1", Name: "Cable", Price: price("5"), Stock: 3},
	)
	svc := NewService(store)

	_, err := svc.Place(context.Background(), "u1", []Line{
		{ProductID: "p1", Qty: 2},
		{ProductID: "p1", Qty: 2},
	})

	var se *InsufficientStockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Available, "second line must see the staged decrement")
	assert.Equal(t, 3, store.products["p1"].Stock)
}

func TestPlaceConcurrentOverStock(t *testing.T) {
	store := newMemStore(
		&ProductRow{ID: "p1", Name: "GPU", Price: price("999"), Stock: 5},
	)
	svc := NewService(store)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Place(context.Background(), "u1", []Line{{ProductID: "p1", Qty: 3}})
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		default:
			var se *InsufficientStockError
			require.ErrorAs(t, err, &se)
			insufficient++
		}
	}
	assert.Equal(t, 1, ok, "exactly one of two overlapping placements may win")
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, 2, store.products["p1"].Stock)
}

func TestListByUserIsOwnerScoped(t *testing.T) {
	store := newMemStore(
		&ProductRow{ID: "p1", Name: "Pen", Price: price("2"), Stock: 100},
	)
	svc := NewService(store)

	_, err := svc.Place(context.Background(), "alice", []Line{{ProductID: "p1", Qty: 1}})
	require.NoError(t, err)
	_, err = svc.Place(context.Background(), "bob", []Line{{ProductID: "p1", Qty: 2}})
	require.NoError(t, err)

	mine, err := store.ListByUser(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "alice", mine[0].UserID)

	all, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
