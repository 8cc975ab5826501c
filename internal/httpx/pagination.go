package httpx

import (
	"errors"
	"net/http"
	"strconv"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

var errBadPage = errors.New("page and page_size must be positive integers")

type pageParams struct {
	page int
	size int
}

func parsePageParams(r *http.Request) (pageParams, error) {
	p := pageParams{page: 1, size: defaultPageSize}
	if s := r.URL.Query().Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return p, errBadPage
		}
		p.page = n
	}
	if s := r.URL.Query().Get("page_size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return p, errBadPage
		}
		if n > maxPageSize {
			n = maxPageSize
		}
		p.size = n
	}
	return p, nil
}

func (p pageParams) offset() int { return (p.page - 1) * p.size }

// outOfRange: a page past the last non-empty one resolves to not-found,
// except page 1 which is always valid (possibly empty).
func (p pageParams) outOfRange(count int) bool {
	return p.page > 1 && p.offset() >= count
}

type page struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

func newPage(r *http.Request, p pageParams, count int, results any) page {
	pg := page{Count: count, Results: results}
	if p.offset()+p.size < count {
		pg.Next = pageURL(r, p.page+1)
	}
	if p.page > 1 {
		pg.Previous = pageURL(r, p.page-1)
	}
	return pg
}

func pageURL(r *http.Request, pageNum int) *string {
	u := *r.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(pageNum))
	u.RawQuery = q.Encode()
	if u.Host == "" {
		u.Host = r.Host
		u.Scheme = "http"
		if r.TLS != nil {
			u.Scheme = "https"
		}
	}
	s := u.String()
	return &s
}
