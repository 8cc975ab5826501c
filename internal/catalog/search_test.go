package catalog

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is a map-backed Store with the same query semantics as the
// SQL implementation: conjunctive filters, case-insensitive name-or-
// category matching, newest-first ordering.
type memStore struct {
	products   map[string]*Product
	categories map[string]*Category
}

func newMemStore() *memStore {
	return &memStore{
		products:   make(map[string]*Product),
		categories: make(map[string]*Category),
	}
}

func (s *memStore) CreateProduct(ctx context.Context, p *Product) error {
	if p.CategoryID != nil {
		c, ok := s.categories[*p.CategoryID]
		if !ok {
			return ErrCategoryNotFound
		}
		p.CategoryName = c.Name
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.products[p.ID] = p
	return nil
}

func (s *memStore) GetProduct(ctx context.Context, id string) (*Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) UpdateProduct(ctx context.Context, p *Product) error {
	if _, ok := s.products[p.ID]; !ok {
		return ErrProductNotFound
	}
	if p.CategoryID != nil {
		c, ok := s.categories[*p.CategoryID]
		if !ok {
			return ErrCategoryNotFound
		}
		p.CategoryName = c.Name
	}
	s.products[p.ID] = p
	return nil
}

func (s *memStore) DeleteProduct(ctx context.Context, id string) error {
	if _, ok := s.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *memStore) SearchProducts(ctx context.Context, f Filter) ([]Product, int, error) {
	var all []Product
	for _, p := range s.products {
		if matches(p, f) {
			all = append(all, *p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	if f.Offset >= total {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if f.Limit <= 0 || end > total {
		end = total
	}
	return all[f.Offset:end], total, nil
}

func matches(p *Product, f Filter) bool {
	if f.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != f.CategoryID) {
		return false
	}
	if f.PriceMin != nil && p.Price.Cmp(*f.PriceMin) < 0 {
		return false
	}
	if f.PriceMax != nil && p.Price.Cmp(*f.PriceMax) > 0 {
		return false
	}
	if f.InStock && p.Stock <= 0 {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.CategoryName), q) {
			return false
		}
	}
	return true
}

func (s *memStore) CreateCategory(ctx context.Context, c *Category) error {
	for _, have := range s.categories {
		if have.Name == c.Name {
			return ErrDuplicateCategory
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	s.categories[c.ID] = c
	return nil
}

func (s *memStore) GetCategory(ctx context.Context, id string) (*Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *memStore) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	for _, c := range s.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) UpdateCategory(ctx context.Context, c *Category) error {
	if _, ok := s.categories[c.ID]; !ok {
		return ErrCategoryNotFound
	}
	s.categories[c.ID] = c
	return nil
}

func (s *memStore) DeleteCategory(ctx context.Context, id string) error {
	if _, ok := s.categories[id]; !ok {
		return ErrCategoryNotFound
	}
	delete(s.categories, id)
	return nil
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// seed builds a small catalog with deterministic creation times so the
// newest-first ordering is observable.
func seed(t *testing.T) *memStore {
	t.Helper()
	s := newMemStore()

	electronics := &Category{Name: "Electronics"}
	books := &Category{Name: "Books"}
	require.NoError(t, s.CreateCategory(context.Background(), electronics))
	require.NoError(t, s.CreateCategory(context.Background(), books))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ps := []*Product{
		{Name: "USB-C Hub", Price: d("25.00"), CategoryID: &electronics.ID, Stock: 4},
		{Name: "Noise Cancelling Headphones", Price: d("199.99"), CategoryID: &electronics.ID, Stock: 0},
		{Name: "Go Programming", Price: d("35.50"), CategoryID: &books.ID, Stock: 12},
		{Name: "Desk Lamp", Price: d("18.00"), CategoryID: nil, Stock: 7},
	}
	for i, p := range ps {
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.CreateProduct(context.Background(), p))
	}
	return s
}

func TestSearchQueryMatchesNameOrCategory(t *testing.T) {
	s := seed(t)

	got, total, err := s.SearchProducts(context.Background(), Filter{Query: "hub", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "USB-C Hub", got[0].Name)

	// category name matches too, case-insensitively
	got, total, err = s.SearchProducts(context.Background(), Filter{Query: "ELECTRON", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, got, 2)
}

func TestSearchFiltersAreConjunctive(t *testing.T) {
	s := seed(t)
	var catID string
	cats, err := s.ListCategories(context.Background())
	require.NoError(t, err)
	for _, c := range cats {
		if c.Name == "Electronics" {
			catID = c.ID
		}
	}
	require.NotEmpty(t, catID)

	max := d("100")
	got, total, err := s.SearchProducts(context.Background(), Filter{
		CategoryID: catID,
		PriceMax:   &max,
		InStock:    true,
		Limit:      10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "USB-C Hub", got[0].Name)
}

func TestSearchPriceBoundsAreInclusive(t *testing.T) {
	s := seed(t)

	min := d("18.00")
	max := d("35.50")
	_, total, err := s.SearchProducts(context.Background(), Filter{PriceMin: &min, PriceMax: &max, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total, "both boundary prices must be included")
}

func TestSearchOrdersNewestFirstAndPaginates(t *testing.T) {
	s := seed(t)

	first, total, err := s.SearchProducts(context.Background(), Filter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, first, 2)
	assert.Equal(t, "Desk Lamp", first[0].Name)
	assert.Equal(t, "Go Programming", first[1].Name)

	second, _, err := s.SearchProducts(context.Background(), Filter{Offset: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "Noise Cancelling Headphones", second[0].Name)
	assert.Equal(t, "USB-C Hub", second[1].Name)
}

func TestCategoryNamesAreUnique(t *testing.T) {
	s := seed(t)
	err := s.CreateCategory(context.Background(), &Category{Name: "Books"})
	assert.ErrorIs(t, err, ErrDuplicateCategory)
}

func TestDeleteMissingProduct(t *testing.T) {
	s := newMemStore()
	assert.ErrorIs(t, s.DeleteProduct(context.Background(), "nope"), ErrProductNotFound)
}
