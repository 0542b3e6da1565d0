// Package pricing derives cart totals from ledger lines and the catalog.
package pricing

import (
	"github.com/nikolayk812/cartsim/internal/domain"
	"github.com/nikolayk812/cartsim/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const (
	DefaultShippingFee      = 500
	DefaultFreeShippingOver = 10000
)

// Rules hold the flat shipping policy. Shipping is free for an empty cart and
// for a subtotal strictly above FreeShippingOver.
type Rules struct {
	Currency         currency.Unit
	ShippingFee      decimal.Decimal
	FreeShippingOver decimal.Decimal
}

func DefaultRules(cur currency.Unit) Rules {
	return Rules{
		Currency:         cur,
		ShippingFee:      decimal.NewFromInt(DefaultShippingFee),
		FreeShippingOver: decimal.NewFromInt(DefaultFreeShippingOver),
	}
}

type Engine struct {
	rules Rules
}

func NewEngine(rules Rules) *Engine {
	return &Engine{rules: rules}
}

func (e *Engine) Rules() Rules {
	return e.rules
}

// Compute skips lines whose product cannot be resolved.
func (e *Engine) Compute(lines []domain.CartLine, finder port.ProductFinder) domain.Summary {
	subtotal := domain.Zero(e.rules.Currency)
	itemCount := 0

	for _, line := range lines {
		product, ok := finder.FindProduct(line.ProductID)
		if !ok {
			continue
		}

		subtotal = subtotal.Add(product.Price.Mul(line.Quantity))
		itemCount += line.Quantity
	}

	shipping := e.Shipping(subtotal)

	return domain.Summary{
		Subtotal:  subtotal,
		Shipping:  shipping,
		Total:     subtotal.Add(shipping),
		ItemCount: itemCount,
	}
}

func (e *Engine) Shipping(subtotal domain.Money) domain.Money {
	if subtotal.IsZero() || subtotal.GreaterThan(e.rules.FreeShippingOver) {
		return domain.Zero(e.rules.Currency)
	}
	return domain.NewMoney(e.rules.ShippingFee, e.rules.Currency)
}
