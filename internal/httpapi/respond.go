package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/nikolayk812/cartsim/internal/domain"
	"go.uber.org/zap"
)

const maxRequestBodySize = 1 << 20 // 1MB

type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Details string   `json:"details,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Details: message,
	})
}

// respondDomainError maps domain sentinels to status codes. Anything else is
// logged and reported as 500.
func respondDomainError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		stockErr      *domain.StockError
		validationErr *domain.ValidationError
	)

	switch {
	case errors.As(err, &stockErr):
		respondJSON(w, http.StatusConflict, ErrorResponse{
			Error:   http.StatusText(http.StatusConflict),
			Code:    "stock_insufficient",
			Details: stockErr.Error(),
		})
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   http.StatusText(http.StatusUnprocessableEntity),
			Code:    "validation_failed",
			Details: "buyer fields are missing or invalid",
			Fields:  validationErr.Fields,
		})
	case errors.Is(err, domain.ErrCartEmpty):
		respondError(w, http.StatusConflict, "cart_empty", "the cart has no items")
	case errors.Is(err, domain.ErrCatalogLoad):
		respondError(w, http.StatusServiceUnavailable, "catalog_unavailable", err.Error())
	default:
		logger.Error("request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// decodeJSON reads a single JSON object. An empty body is allowed when
// allowEmpty is set and leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}

	respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
	return false
}
