// Package checkout validates a cart against stock and buyer data and turns it
// into an order receipt.
package checkout

import (
	"fmt"
	"sync"
	"time"

	"github.com/nikolayk812/cartsim/internal/domain"
	"github.com/nikolayk812/cartsim/internal/port"
	"github.com/nikolayk812/cartsim/internal/pricing"
	"go.uber.org/zap"
)

// Stock is the part of the catalog the processor reads and mutates.
type Stock interface {
	port.ProductFinder
	CheckStock(lines []domain.CartLine) error
	Decrement(lines []domain.CartLine) error
}

type Processor struct {
	mu        sync.Mutex
	stock     Stock
	pricing   *pricing.Engine
	validator *Validator
	ids       port.IDGenerator
	logger    *zap.Logger
}

func NewProcessor(stock Stock, engine *pricing.Engine, validator *Validator, ids port.IDGenerator, logger *zap.Logger) *Processor {
	return &Processor{
		stock:     stock,
		pricing:   engine,
		validator: validator,
		ids:       ids,
		logger:    logger,
	}
}

// ProcessOrder fails with domain.ErrStockInsufficient or domain.ErrValidation
// before touching stock. Once both checks pass, stock is decremented and the
// order is returned. The caller clears the cart only on success.
func (p *Processor) ProcessOrder(buyer domain.Buyer, lines []domain.CartLine) (domain.Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	lines = domain.CopyLines(lines)

	if err := p.stock.CheckStock(lines); err != nil {
		return domain.Order{}, fmt.Errorf("stock.CheckStock: %w", err)
	}

	buyer = buyer.Trimmed()
	if err := p.validator.Validate(buyer); err != nil {
		return domain.Order{}, fmt.Errorf("validator.Validate: %w", err)
	}

	if err := p.stock.Decrement(lines); err != nil {
		return domain.Order{}, fmt.Errorf("stock.Decrement: %w", err)
	}

	// prices are not touched by Decrement, so this equals the pre-decrement summary
	summary := p.pricing.Compute(lines, p.stock)

	order := domain.Order{
		ID:        p.ids.GenerateID(),
		Buyer:     buyer,
		Summary:   summary,
		Lines:     lines,
		CreatedAt: time.Now().UTC(),
	}

	p.logger.Info("order processed",
		zap.String("order_id", order.ID),
		zap.Int("lines", len(lines)),
		zap.Int("items", summary.ItemCount),
		zap.String("total", summary.Total.Amount.String()))

	return order, nil
}
