package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Arsh369/thekitabart/internal/checkout"
	"github.com/Arsh369/thekitabart/internal/gateway"
)

type CheckoutHandler struct {
	coordinator *checkout.Coordinator
}

func NewCheckoutHandler(coordinator *checkout.Coordinator) *CheckoutHandler {
	return &CheckoutHandler{coordinator: coordinator}
}

// PlaceOrder drives one checkout attempt. Error mapping mirrors the
// coordinator's state machine: empty cart redirects back to the cart
// view, validation failures stay on the form, a gateway fault is a
// retryable failure.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user session")
		return
	}

	var form checkout.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// The order is recorded under the session user, the same identity the
	// order-history view queries by.
	order, err := h.coordinator.PlaceOrder(r.Context(), form, userID)
	if err != nil {
		var vErr *checkout.ValidationError
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			respondJSON(w, http.StatusConflict, ErrorResponse{
				Error:    http.StatusText(http.StatusConflict),
				Code:     "empty_cart",
				Details:  "cart is empty",
				Redirect: "/cart",
			})
		case errors.As(err, &vErr):
			respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:   http.StatusText(http.StatusUnprocessableEntity),
				Code:    "validation_failed",
				Details: "fix the highlighted fields",
				Fields:  vErr.Fields,
			})
		case errors.Is(err, checkout.ErrSubmissionInFlight):
			respondError(w, http.StatusConflict, "submission_in_flight", "an order is already being submitted")
		case errors.Is(err, gateway.ErrUnavailable):
			respondError(w, http.StatusBadGateway, "order_service_unavailable", "failed to place order, please try again")
		default:
			respondError(w, http.StatusBadGateway, "order_failed", "failed to place order, please try again")
		}
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *CheckoutHandler) State(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"state": h.coordinator.State().String()})
}
