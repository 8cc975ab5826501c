package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-shop-api.git/internal/catalog"
	"github.com/ariefcatur/go-shop-api.git/internal/reviews"
)

type ReviewsHandler struct {
	Reviews *reviews.Service
	Catalog catalog.Store
}

func (h *ReviewsHandler) Register(r *chi.Mux) {
	r.Get("/products/{id}/reviews", h.list)
	r.Post("/products/{id}/reviews", h.create)
}

func (h *ReviewsHandler) productID(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Catalog.GetProduct(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrProductNotFound) {
		writeDetail(w, http.StatusNotFound, "product not found")
		return "", false
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return "", false
	}
	return p.ID, true
}

func (h *ReviewsHandler) list(w http.ResponseWriter, r *http.Request) {
	pid, ok := h.productID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rvs, err := h.Reviews.ListByProduct(ctx, pid)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rvs)
}

type reviewReq struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

func (h *ReviewsHandler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	pid, ok := h.productID(w, r)
	if !ok {
		return
	}
	var req reviewReq
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rv, err := h.Reviews.Create(ctx, pid, actor.ID, req.Rating, req.Text)
	switch {
	case errors.Is(err, reviews.ErrRating):
		writeFieldErrors(w, map[string]string{"rating": err.Error()})
	case errors.Is(err, reviews.ErrDuplicate):
		writeFieldErrors(w, map[string]string{"review": err.Error()})
	case err != nil:
		writeDetail(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusCreated, rv)
	}
}
