package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Arsh369/thekitabart/internal/cart"
	"github.com/Arsh369/thekitabart/internal/domain"
	"github.com/Arsh369/thekitabart/internal/gateway"
	"github.com/Arsh369/thekitabart/internal/pricing"
	"github.com/go-chi/chi/v5"
)

// BookFetcher is the slice of the catalog gateway the cart handler needs.
type BookFetcher interface {
	GetBook(ctx context.Context, id string) (*domain.Book, error)
}

type CartHandler struct {
	cart    *cart.Store
	catalog BookFetcher
}

func NewCartHandler(cartStore *cart.Store, catalog BookFetcher) *CartHandler {
	return &CartHandler{
		cart:    cartStore,
		catalog: catalog,
	}
}

type AddItemRequestDTO struct {
	BookID   string `json:"book_id"`
	Quantity int    `json:"quantity"`
}

type AdjustQuantityRequestDTO struct {
	Op string `json:"op"` // "increment" or "decrement"
}

// CartViewDTO is the cart plus its derived totals; totals are recomputed
// on every read, never cached.
type CartViewDTO struct {
	Items  domain.Cart    `json:"items"`
	Count  int            `json:"count"`
	Totals pricing.Totals `json:"totals"`
}

func (h *CartHandler) cartView() CartViewDTO {
	snapshot := h.cart.Snapshot()
	if snapshot == nil {
		snapshot = domain.Cart{}
	}
	return CartViewDTO{
		Items:  snapshot,
		Count:  len(snapshot),
		Totals: pricing.ComputeTotals(snapshot),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cartView())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.BookID == "" {
		respondError(w, http.StatusBadRequest, "invalid_book_id", "book_id is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	book, err := h.catalog.GetBook(r.Context(), req.BookID)
	if err != nil {
		switch {
		case errors.Is(err, gateway.ErrBookNotFound):
			respondError(w, http.StatusNotFound, "book_not_found", "no such book in the catalog")
		case errors.Is(err, gateway.ErrUnavailable):
			respondError(w, http.StatusServiceUnavailable, "catalog_unavailable", "catalog is unavailable, try again")
		default:
			respondError(w, http.StatusInternalServerError, "internal", "failed to look up book")
		}
		return
	}

	if err := h.cart.AddItem(r.Context(), *book, req.Quantity); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, h.cartView())
}

func (h *CartHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AdjustQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	switch req.Op {
	case "increment":
		h.cart.AdjustQuantity(r.Context(), id, +1)
	case "decrement":
		h.cart.AdjustQuantity(r.Context(), id, -1)
	default:
		respondError(w, http.StatusBadRequest, "invalid_op", "op must be increment or decrement")
		return
	}

	respondJSON(w, http.StatusOK, h.cartView())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.cart.RemoveItem(r.Context(), chi.URLParam(r, "id"))
	respondJSON(w, http.StatusOK, h.cartView())
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear(r.Context())
	respondJSON(w, http.StatusNoContent, nil)
}
