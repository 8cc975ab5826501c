package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-shop-api.git/internal/auth"
	kafkax "github.com/ariefcatur/go-shop-api.git/internal/kafka"
	"github.com/ariefcatur/go-shop-api.git/internal/orders"
)

type OrdersHandler struct {
	Service  *orders.Service
	Store    orders.Store
	Producer *kafkax.Producer // optional; nil disables event publishing
	Name     string           // producer name stamped on envelopes
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.create)
	r.Get("/orders", h.list)
	r.Get("/orders/{id}", h.get)
}

type createOrderReq struct {
	Items []orders.Line `json:"items"`
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req createOrderReq
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Service.Place(ctx, actor.ID, req.Items)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	h.publishPlaced(r, o)
	writeJSON(w, http.StatusCreated, o)
}

func writeOrderError(w http.ResponseWriter, err error) {
	var be *orders.BasketError
	var ue *orders.UnknownProductError
	var se *orders.InsufficientStockError
	switch {
	case errors.As(err, &be):
		writeFieldErrors(w, map[string]string{be.Field: be.Message})
	case errors.As(err, &ue):
		writeFieldErrors(w, map[string]string{"items": err.Error()})
	case errors.As(err, &se):
		writeDetail(w, http.StatusBadRequest, err.Error())
	default:
		writeDetail(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *OrdersHandler) publishPlaced(r *http.Request, o *orders.Order) {
	if h.Producer == nil {
		return
	}
	items := make([]orders.PlacedItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orders.PlacedItem{ProductID: it.ProductID, Qty: it.Qty})
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Name,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(orders.OrderPlacedPayload{
			OrderID: o.ID,
			UserID:  o.UserID,
			Items:   items,
			Total:   o.Total.String(),
		}),
	}
	h.Producer.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var (
		os  []orders.Order
		err error
	)
	if auth.CanListAllOrders(actor) {
		os, err = h.Store.ListAll(ctx)
	} else {
		os, err = h.Store.ListByUser(ctx, actor.ID)
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, os)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Store.Get(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, orders.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	// foreign orders are invisible, not forbidden
	if !auth.CanViewOrder(actor, o.UserID) {
		writeDetail(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, o)
}
