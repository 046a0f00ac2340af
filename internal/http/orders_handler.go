package http

import (
	"context"
	"net/http"

	"github.com/Arsh369/thekitabart/internal/domain"
)

// OrderLister is what the orders handler needs from the order gateway.
type OrderLister interface {
	ListOrders(ctx context.Context, userID string) ([]domain.Order, error)
}

type OrdersHandler struct {
	orders OrderLister
}

func NewOrdersHandler(orders OrderLister) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user session")
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusBadGateway, "order_service_unavailable", "failed to fetch orders, try again")
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}
