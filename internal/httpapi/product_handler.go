package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

type productHandler struct {
	shop   Shop
	logger *zap.Logger
}

func (h *productHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.shop.Products())
}

func (h *productHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.shop.ReloadCatalog(r.Context()); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, h.shop.Products())
}
