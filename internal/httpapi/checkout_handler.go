package httpapi

import (
	"net/http"

	"github.com/nikolayk812/cartsim/internal/domain"
	"go.uber.org/zap"
)

type checkoutHandler struct {
	shop   Shop
	logger *zap.Logger
}

func (h *checkoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var buyer domain.Buyer
	if !decodeJSON(w, r, &buyer, false) {
		return
	}

	order, err := h.shop.Checkout(r.Context(), buyer)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, h.shop.OrderView(order))
}

func (h *checkoutHandler) SampleBuyer(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.shop.SampleBuyer())
}

// Demo buys one unit of the first product, as the sample buyer unless a
// buyer is posted.
func (h *checkoutHandler) Demo(w http.ResponseWriter, r *http.Request) {
	buyer := h.shop.SampleBuyer()
	if !decodeJSON(w, r, &buyer, true) {
		return
	}

	order, err := h.shop.DemoPurchase(r.Context(), buyer)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, h.shop.OrderView(order))
}
