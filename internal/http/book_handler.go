package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/Arsh369/thekitabart/internal/domain"
	"github.com/Arsh369/thekitabart/internal/gateway"
	"github.com/go-chi/chi/v5"
)

// Catalog is what the book handler needs from the catalog gateway.
type Catalog interface {
	BookFetcher
	ListBooks(ctx context.Context) ([]domain.Book, error)
}

type BookHandler struct {
	catalog Catalog
}

func NewBookHandler(catalog Catalog) *BookHandler {
	return &BookHandler{catalog: catalog}
}

func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.catalog.ListBooks(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "catalog_unavailable", "catalog is unavailable, try again")
		return
	}
	respondJSON(w, http.StatusOK, books)
}

func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.catalog.GetBook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, gateway.ErrBookNotFound) {
			respondError(w, http.StatusNotFound, "book_not_found", "no such book in the catalog")
			return
		}
		respondError(w, http.StatusServiceUnavailable, "catalog_unavailable", "catalog is unavailable, try again")
		return
	}
	respondJSON(w, http.StatusOK, book)
}
