package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nikolayk812/cartsim/internal/app"
	"go.uber.org/zap"
)

type cartHandler struct {
	shop   Shop
	logger *zap.Logger
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	// Quantity defaults to 1 when omitted.
	Quantity *int `json:"quantity,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity"`
}

func (h *cartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.shop.View())
}

// AddItem answers 200 with the unchanged cart for a product that is not in
// the catalog.
func (h *cartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if !decodeJSON(w, r, &req, false) {
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a UUID")
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 1 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
		return
	}

	h.respondView(w, http.StatusOK)(h.shop.AddToCart(r.Context(), productID, quantity))
}

func (h *cartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if !decodeJSON(w, r, &req, false) {
		return
	}
	if req.Quantity == nil || *req.Quantity < 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be zero or more")
		return
	}

	h.respondView(w, http.StatusOK)(h.shop.SetQuantity(r.Context(), productID, *req.Quantity))
}

func (h *cartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	h.respondView(w, http.StatusOK)(h.shop.RemoveFromCart(r.Context(), productID))
}

func (h *cartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.respondView(w, http.StatusOK)(h.shop.ClearCart(r.Context()))
}

func (h *cartHandler) respondView(w http.ResponseWriter, status int) func(app.View, error) {
	return func(view app.View, err error) {
		if err != nil {
			respondDomainError(w, h.logger, err)
			return
		}
		respondJSON(w, status, view)
	}
}

func productIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	productID, err := uuid.Parse(chi.URLParam(r, "product_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a UUID")
		return uuid.Nil, false
	}
	return productID, true
}
