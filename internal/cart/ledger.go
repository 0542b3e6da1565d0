// Package cart owns the user's cart lines and enforces the stock-bounded
// quantity rules.
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartsim/internal/domain"
	"github.com/nikolayk812/cartsim/internal/port"
	"go.uber.org/zap"
)

// Listener receives a copy of the lines after every committed mutation.
// It runs while the ledger is locked and must not call back into the Ledger.
type Listener func(lines []domain.CartLine)

type Ledger struct {
	mu        sync.Mutex
	ownerID   string
	lines     []domain.CartLine
	listeners []Listener

	catalog port.ProductFinder
	repo    port.CartRepository
	logger  *zap.Logger
}

func NewLedger(ownerID string, catalog port.ProductFinder, repo port.CartRepository, logger *zap.Logger) *Ledger {
	return &Ledger{
		ownerID: ownerID,
		lines:   []domain.CartLine{},
		catalog: catalog,
		repo:    repo,
		logger:  logger.With(zap.String("owner_id", ownerID)),
	}
}

func (l *Ledger) Subscribe(fn Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.listeners = append(l.listeners, fn)
}

// Restore replaces the in-memory lines with the persisted cart. A failing or
// malformed load starts from an empty cart. Lines with a non-positive
// quantity and repeated product ids are dropped.
func (l *Ledger) Restore(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	stored, err := l.repo.GetCart(ctx, l.ownerID)
	if err != nil {
		l.logger.Warn("cart restore failed, starting empty", zap.Error(err))
		stored = domain.Cart{}
	}

	l.lines = sanitize(stored.Lines)
	l.logger.Info("cart restored", zap.Int("lines", len(l.lines)))
	l.notifyLocked()
}

// Add merges quantity into the product's line, capped at the product stock.
// Unknown products are ignored.
func (l *Ledger) Add(ctx context.Context, productID uuid.UUID, quantity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	product, ok := l.catalog.FindProduct(productID)
	if !ok {
		return nil
	}

	if i := l.indexLocked(productID); i >= 0 {
		l.setLocked(i, min(product.Stock, l.lines[i].Quantity+min(quantity, product.Stock)))
	} else if qty := min(product.Stock, max(1, quantity)); qty >= 1 {
		l.lines = append(l.lines, domain.CartLine{ProductID: productID, Quantity: qty})
	}

	return l.commitLocked(ctx)
}

// SetQuantity replaces the quantity of an existing line, capped at stock.
// It never creates a line; a resulting quantity below 1 removes the line.
func (l *Ledger) SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	product, ok := l.catalog.FindProduct(productID)
	if !ok {
		return nil
	}

	if i := l.indexLocked(productID); i >= 0 {
		l.setLocked(i, min(product.Stock, quantity))
	}

	return l.commitLocked(ctx)
}

func (l *Ledger) Remove(ctx context.Context, productID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i := l.indexLocked(productID); i >= 0 {
		l.lines = append(l.lines[:i], l.lines[i+1:]...)
	}

	return l.commitLocked(ctx)
}

func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = []domain.CartLine{}

	return l.commitLocked(ctx)
}

func (l *Ledger) Lines() []domain.CartLine {
	l.mu.Lock()
	defer l.mu.Unlock()

	return domain.CopyLines(l.lines)
}

func (l *Ledger) indexLocked(productID uuid.UUID) int {
	_, i := domain.Cart{Lines: l.lines}.Line(productID)
	return i
}

func (l *Ledger) setLocked(i, qty int) {
	if qty < 1 {
		l.lines = append(l.lines[:i], l.lines[i+1:]...)
		return
	}
	l.lines[i].Quantity = qty
}

// commitLocked persists and notifies once. A save error is returned but the
// in-memory mutation stays applied.
func (l *Ledger) commitLocked(ctx context.Context) error {
	err := l.repo.SaveCart(ctx, domain.Cart{
		OwnerID: l.ownerID,
		Lines:   domain.CopyLines(l.lines),
	})
	if err != nil {
		l.logger.Error("cart save failed", zap.Error(err))
		err = fmt.Errorf("repo.SaveCart: %w", err)
	}

	l.notifyLocked()

	return err
}

func (l *Ledger) notifyLocked() {
	for _, fn := range l.listeners {
		fn(domain.CopyLines(l.lines))
	}
}

func sanitize(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(lines))
	seen := make(map[uuid.UUID]struct{}, len(lines))

	for _, line := range lines {
		if line.Quantity < 1 {
			continue
		}
		if _, dup := seen[line.ProductID]; dup {
			continue
		}
		seen[line.ProductID] = struct{}{}
		out = append(out, line)
	}

	return out
}
