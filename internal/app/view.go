package app

import (
	"github.com/google/uuid"
	"github.com/nikolayk812/cartsim/internal/domain"
)

// Amount pairs the exact decimal value with its locale display form.
type Amount struct {
	Value   string `json:"value"`
	Display string `json:"display"`
}

type ProductView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       Amount    `json:"price"`
	Stock       int       `json:"stock"`
}

type LineView struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice Amount    `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	Stock     int       `json:"stock"`
	LineTotal Amount    `json:"line_total"`
}

// View is the rendered cart: lines resolved against the catalog plus totals.
// Lines whose product left the catalog are omitted, as they are from totals.
type View struct {
	Lines     []LineView `json:"lines"`
	ItemCount int        `json:"item_count"`
	Subtotal  Amount     `json:"subtotal"`
	Shipping  Amount     `json:"shipping"`
	Total     Amount     `json:"total"`
	Currency  string     `json:"currency"`

	// FreeShippingOver is the subtotal that must be exceeded to ship free.
	FreeShippingOver Amount `json:"free_shipping_over"`
}

type OrderView struct {
	ID        string            `json:"id"`
	Buyer     domain.Buyer      `json:"buyer"`
	Lines     []domain.CartLine `json:"lines"`
	ItemCount int               `json:"item_count"`
	Subtotal  Amount            `json:"subtotal"`
	Shipping  Amount            `json:"shipping"`
	Total     Amount            `json:"total"`
	CreatedAt string            `json:"created_at"`
}
