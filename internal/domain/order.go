package domain

import (
	"strings"
	"time"
)

// Buyer holds the checkout form fields. Payment is a method code such as "card".
type Buyer struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	DNI     string `json:"dni" validate:"required"`
	Address string `json:"address" validate:"required"`
	Payment string `json:"payment" validate:"required"`
}

func (b Buyer) Trimmed() Buyer {
	return Buyer{
		Name:    strings.TrimSpace(b.Name),
		Email:   strings.TrimSpace(b.Email),
		DNI:     strings.TrimSpace(b.DNI),
		Address: strings.TrimSpace(b.Address),
		Payment: strings.TrimSpace(b.Payment),
	}
}

// Order is a checkout receipt. It is built once by the order processor and
// its Lines slice is never shared with the ledger.
type Order struct {
	ID        string
	Buyer     Buyer
	Summary   Summary
	Lines     []CartLine
	CreatedAt time.Time
}
