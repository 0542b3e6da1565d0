package domain

import (
	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       Money
	Stock       int
}

// Summary is the pricing view of a set of cart lines.
type Summary struct {
	Subtotal  Money
	Shipping  Money
	Total     Money
	ItemCount int
}
