package http

import (
	"fmt"
	"net/http"

	"github.com/fjod/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	catalog CatalogService
}

func NewProductHandler(catalog CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, "", envelope{"products": products})
}

func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, "", envelope{"categories": categories})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, "", envelope{"product": product})
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.ProductInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	product, err := h.catalog.Create(r.Context(), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusCreated, "Product created successfully.", envelope{"product": product})
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in domain.ProductInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	product, err := h.catalog.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, "Product updated successfully.", envelope{"product": product})
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, "Product deleted successfully.", nil)
}

func (h *ProductHandler) Import(w http.ResponseWriter, r *http.Request) {
	res, err := h.catalog.Import(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	payload := envelope{"imported": res.Imported, "skipped": res.Skipped}
	if len(res.Errors) > 0 {
		payload["errors"] = res.Errors
	}
	msg := fmt.Sprintf("Import completed. %d products imported, %d skipped.", res.Imported, res.Skipped)
	respondOK(w, r, http.StatusOK, msg, payload)
}
