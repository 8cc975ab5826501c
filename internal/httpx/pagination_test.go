package httpx

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageParamsDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/products", nil)
	pp, err := parsePageParams(r)
	require.NoError(t, err)
	assert.Equal(t, 1, pp.page)
	assert.Equal(t, defaultPageSize, pp.size)
	assert.Equal(t, 0, pp.offset())
}

func TestParsePageParamsRejectsGarbage(t *testing.T) {
	for _, q := range []string{"page=0", "page=-1", "page=abc", "page_size=0", "page_size=x"} {
		r := httptest.NewRequest("GET", "/products?"+q, nil)
		_, err := parsePageParams(r)
		assert.ErrorIs(t, err, errBadPage, q)
	}
}

func TestPageSizeIsCapped(t *testing.T) {
	r := httptest.NewRequest("GET", "/products?page_size=5000", nil)
	pp, err := parsePageParams(r)
	require.NoError(t, err)
	assert.Equal(t, maxPageSize, pp.size)
}

func TestOutOfRange(t *testing.T) {
	assert.False(t, pageParams{page: 1, size: 10}.outOfRange(0), "page 1 is always in range")
	assert.False(t, pageParams{page: 2, size: 5}.outOfRange(6))
	assert.True(t, pageParams{page: 2, size: 10}.outOfRange(5))
	assert.True(t, pageParams{page: 3, size: 5}.outOfRange(10))
}

func TestNewPageLinks(t *testing.T) {
	r := httptest.NewRequest("GET", "http://shop.local/products?page_size=5", nil)

	// 15 results, 3 pages of 5
	first := newPage(r, pageParams{page: 1, size: 5}, 15, nil)
	assert.Equal(t, 15, first.Count)
	require.NotNil(t, first.Next)
	assert.Contains(t, *first.Next, "page=2")
	assert.Contains(t, *first.Next, "page_size=5")
	assert.Nil(t, first.Previous)

	middle := newPage(r, pageParams{page: 2, size: 5}, 15, nil)
	require.NotNil(t, middle.Next)
	assert.Contains(t, *middle.Next, "page=3")
	require.NotNil(t, middle.Previous)
	assert.Contains(t, *middle.Previous, "page=1")

	last := newPage(r, pageParams{page: 3, size: 5}, 15, nil)
	assert.Nil(t, last.Next)
	require.NotNil(t, last.Previous)
	assert.Contains(t, *last.Previous, "page=2")
}

func TestPageURLFillsHostFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/users?page=2", nil)
	r.Host = "api.example.com"
	u := pageURL(r, 3)
	require.NotNil(t, u)
	assert.Contains(t, *u, "http://api.example.com/users")
	assert.Contains(t, *u, "page=3")
}
