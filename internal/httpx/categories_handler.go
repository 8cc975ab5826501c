package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-shop-api.git/internal/auth"
	"github.com/ariefcatur/go-shop-api.git/internal/catalog"
)

type CategoriesHandler struct {
	Catalog catalog.Store
}

func (h *CategoriesHandler) Register(r *chi.Mux) {
	r.Get("/categories", h.list)
	r.Post("/categories", h.create)
	r.Get("/categories/{id}", h.get)
	r.Put("/categories/{id}", h.update)
	r.Delete("/categories/{id}", h.delete)
}

func (h *CategoriesHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	cs, err := h.Catalog.ListCategories(ctx)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *CategoriesHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Catalog.GetCategory(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrCategoryNotFound) {
		writeDetail(w, http.StatusNotFound, "category not found")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type categoryReq struct {
	Name string `json:"name" validate:"required"`
}

func (h *CategoriesHandler) create(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r, auth.CanWriteCatalog); !ok {
		return
	}
	var req categoryReq
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c := &catalog.Category{Name: req.Name}
	if err := h.Catalog.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, catalog.ErrDuplicateCategory) {
			writeFieldErrors(w, map[string]string{"name": "category name already exists"})
			return
		}
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CategoriesHandler) update(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r, auth.CanWriteCatalog); !ok {
		return
	}
	var req categoryReq
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c := &catalog.Category{ID: chi.URLParam(r, "id"), Name: req.Name}
	err := h.Catalog.UpdateCategory(ctx, c)
	switch {
	case errors.Is(err, catalog.ErrCategoryNotFound):
		writeDetail(w, http.StatusNotFound, "category not found")
	case errors.Is(err, catalog.ErrDuplicateCategory):
		writeFieldErrors(w, map[string]string{"name": "category name already exists"})
	case err != nil:
		writeDetail(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, c)
	}
}

func (h *CategoriesHandler) delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r, auth.CanWriteCatalog); !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Catalog.DeleteCategory(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrCategoryNotFound) {
		writeDetail(w, http.StatusNotFound, "category not found")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
