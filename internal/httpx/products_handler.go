package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-shop-api.git/internal/auth"
	"github.com/ariefcatur/go-shop-api.git/internal/catalog"
)

type ProductsHandler struct {
	Catalog catalog.Store
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Get("/products", h.list)
	r.Get("/products/search", h.search)
	r.Post("/products", h.create)
	r.Get("/products/{id}", h.get)
	r.Put("/products/{id}", h.update)
	r.Delete("/products/{id}", h.delete)
}

func parseFilter(r *http.Request) (catalog.Filter, map[string]string) {
	q := r.URL.Query()
	f := catalog.Filter{
		CategoryID: q.Get("category"),
		Query:      q.Get("q"),
	}
	errs := map[string]string{}

	if s := q.Get("price_min"); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			errs["price_min"] = "must be a decimal number"
		} else {
			f.PriceMin = &d
		}
	}
	if s := q.Get("price_max"); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			errs["price_max"] = "must be a decimal number"
		} else {
			f.PriceMax = &d
		}
	}
	if s := q.Get("stock_available"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			errs["stock_available"] = "must be a boolean"
		} else {
			f.InStock = b
		}
	}
	return f, errs
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	h.listFiltered(w, r, false)
}

// search is the /products/search alias: the same pipeline, but q is
// mandatory.
func (h *ProductsHandler) search(w http.ResponseWriter, r *http.Request) {
	h.listFiltered(w, r, true)
}

func (h *ProductsHandler) listFiltered(w http.ResponseWriter, r *http.Request, requireQuery bool) {
	f, errs := parseFilter(r)
	if requireQuery && f.Query == "" {
		errs["q"] = "this field is required"
	}
	pp, err := parsePageParams(r)
	if err != nil {
		errs["page"] = err.Error()
	}
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}
	f.Offset = pp.offset()
	f.Limit = pp.size

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, total, err := h.Catalog.SearchProducts(ctx, f)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if pp.outOfRange(total) {
		writeDetail(w, http.StatusNotFound, "page not found")
		return
	}
	writeJSON(w, http.StatusOK, newPage(r, pp, total, items))
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Catalog.GetProduct(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrProductNotFound) {
		writeDetail(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type productReq struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  *string         `json:"category"`
	Stock       int             `json:"stock_quantity" validate:"gte=0"`
	ImageURL    *string         `json:"image_url"`
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r, auth.CanWriteCatalog); !ok {
		return
	}
	var req productReq
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}
	if req.Price.Cmp(decimal.Zero) <= 0 {
		writeFieldErrors(w, map[string]string{"price": "must be a positive decimal"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p := &catalog.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}
	if err := h.Catalog.CreateProduct(ctx, p); err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			writeFieldErrors(w, map[string]string{"category": "unknown category"})
			return
		}
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

type productPatch struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *string          `json:"category"`
	Stock       *int             `json:"stock_quantity"`
	ImageURL    *string          `json:"image_url"`
}

// update applies only the fields present in the body.
func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r, auth.CanWriteCatalog); !ok {
		return
	}
	var req productPatch
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Catalog.GetProduct(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrProductNotFound) {
		writeDetail(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.Cmp(decimal.Zero) <= 0 {
			writeFieldErrors(w, map[string]string{"price": "must be a positive decimal"})
			return
		}
		p.Price = *req.Price
	}
	if req.CategoryID != nil {
		p.CategoryID = req.CategoryID
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			writeFieldErrors(w, map[string]string{"stock_quantity": "must be greater than or equal to 0"})
			return
		}
		p.Stock = *req.Stock
	}
	if req.ImageURL != nil {
		p.ImageURL = req.ImageURL
	}

	if err := h.Catalog.UpdateProduct(ctx, p); err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			writeFieldErrors(w, map[string]string{"category": "unknown category"})
			return
		}
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r, auth.CanWriteCatalog); !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Catalog.DeleteProduct(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrProductNotFound) {
		writeDetail(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
