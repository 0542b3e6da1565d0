package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrStockInsufficient = errors.New("stock insufficient")
	ErrValidation        = errors.New("validation failed")
	ErrCatalogLoad       = errors.New("catalog load failed")
	ErrCartEmpty         = errors.New("cart is empty")
	ErrMalformedCart     = errors.New("malformed cart payload")
)

// StockError reports the first cart line that cannot be fulfilled.
type StockError struct {
	ProductID uuid.UUID
	Requested int
	Available int
	// Missing is set when the product is not in the catalog at all.
	Missing bool
}

func (e *StockError) Error() string {
	if e.Missing {
		return fmt.Sprintf("%s: product[%s] not found", ErrStockInsufficient, e.ProductID)
	}
	return fmt.Sprintf("%s: product[%s] requested %d, available %d",
		ErrStockInsufficient, e.ProductID, e.Requested, e.Available)
}

func (e *StockError) Is(target error) bool {
	return target == ErrStockInsufficient
}

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid fields [%s]", ErrValidation, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
