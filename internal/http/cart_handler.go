package http

import (
	"context"
	"net/http"

	"github.com/fjod/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	cart CartService
}

func NewCartHandler(cart CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

type lineMutation func(ctx context.Context, userID, productID string) (domain.Cart, error)

// mutateLine runs a per-line cart operation for the {id} path parameter.
func (h *CartHandler) mutateLine(op lineMutation, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cart, err := op(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			handleError(w, r, err)
			return
		}
		respondOK(w, r, http.StatusOK, message, envelope{"cart": cart})
	}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart.Get(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, "", envelope{"cart": cart})
}

func (h *CartHandler) Add() http.HandlerFunc {
	return h.mutateLine(h.cart.Add, "Item added to cart.")
}

func (h *CartHandler) Increment() http.HandlerFunc {
	return h.mutateLine(h.cart.Increment, "Quantity increased.")
}

func (h *CartHandler) Decrement() http.HandlerFunc {
	return h.mutateLine(h.cart.Decrement, "Quantity decreased.")
}

func (h *CartHandler) Remove() http.HandlerFunc {
	return h.mutateLine(h.cart.Remove, "Item removed from cart.")
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart.Clear(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, "Cart cleared.", envelope{"cart": cart})
}
