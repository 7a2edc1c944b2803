package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type OrdersHandler struct {
	orders OrderService
}

func NewOrdersHandler(orders OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

type CheckoutRequestDTO struct {
	StripeSessionID *string `json:"stripeSessionId" validate:"omitempty,max=255"`
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, "", envelope{"orders": orders})
}

func (h *OrdersHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	order, err := h.orders.Checkout(r.Context(), userIDFromContext(r.Context()), req.StripeSessionID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusCreated, "Order created.", envelope{"order": order})
}

func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, "", envelope{"order": order})
}

func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, "Order status updated.", envelope{"order": order})
}

func (h *OrdersHandler) Complete(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Complete(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, "Order completed.", envelope{"order": order})
}
