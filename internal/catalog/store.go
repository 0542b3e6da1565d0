// Package catalog holds the session's purchasable products and their
// simulated stock.
package catalog

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartsim/internal/domain"
	"github.com/nikolayk812/cartsim/internal/port"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type Store struct {
	mu       sync.RWMutex
	products []domain.Product
	index    map[uuid.UUID]int
	source   port.CatalogSource

	sfg    singleflight.Group
	logger *zap.Logger
}

func NewStore(logger *zap.Logger) *Store {
	return &Store{
		index:  make(map[uuid.UUID]int),
		logger: logger,
	}
}

// Load replaces the catalog with the source's products. On failure the store
// is left empty and the error wraps domain.ErrCatalogLoad.
func (s *Store) Load(ctx context.Context, src port.CatalogSource) error {
	s.mu.Lock()
	s.source = src
	s.mu.Unlock()

	err := s.fetch(ctx)
	if err != nil {
		s.replace(nil)
		return err
	}

	return nil
}

// Reload refetches from the source given to Load. Concurrent callers share one
// fetch, which is not cancelled with the caller that started it. A failed
// reload keeps the current products.
func (s *Store) Reload(ctx context.Context) error {
	_, err, _ := s.sfg.Do("catalog", func() (any, error) {
		return nil, s.fetch(context.WithoutCancel(ctx))
	})
	return err
}

func (s *Store) fetch(ctx context.Context) error {
	s.mu.RLock()
	src := s.source
	s.mu.RUnlock()

	if src == nil {
		return fmt.Errorf("%w: source is not set", domain.ErrCatalogLoad)
	}

	products, err := src.LoadProducts(ctx)
	if err != nil {
		s.logger.Error("catalog load failed", zap.Error(err))
		return fmt.Errorf("%w: src.LoadProducts: %w", domain.ErrCatalogLoad, err)
	}

	if err := validateProducts(products); err != nil {
		s.logger.Error("catalog rejected", zap.Error(err))
		return fmt.Errorf("%w: %w", domain.ErrCatalogLoad, err)
	}

	s.replace(products)
	s.logger.Info("catalog loaded", zap.Int("products", len(products)))

	return nil
}

func (s *Store) replace(products []domain.Product) {
	index := make(map[uuid.UUID]int, len(products))
	for i, p := range products {
		index[p.ID] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = append([]domain.Product(nil), products...)
	s.index = index
}

// Products returns the catalog in source order.
func (s *Store) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) FindProduct(id uuid.UUID) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i], true
}

// CheckStock returns a *domain.StockError for the first line that is unknown
// or exceeds the product's stock.
func (s *Store) CheckStock(lines []domain.CartLine) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.checkStockLocked(lines)
}

// Decrement validates all lines again and only then subtracts every line
// quantity, so a failure leaves stock untouched.
func (s *Store) Decrement(lines []domain.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStockLocked(lines); err != nil {
		return err
	}

	for _, line := range lines {
		p := &s.products[s.index[line.ProductID]]
		p.Stock = max(0, p.Stock-line.Quantity)
	}

	return nil
}

func (s *Store) checkStockLocked(lines []domain.CartLine) error {
	for _, line := range lines {
		i, ok := s.index[line.ProductID]
		if !ok {
			return &domain.StockError{ProductID: line.ProductID, Requested: line.Quantity, Missing: true}
		}

		p := s.products[i]
		if line.Quantity > p.Stock {
			return &domain.StockError{ProductID: p.ID, Requested: line.Quantity, Available: p.Stock}
		}
	}

	return nil
}

func validateProducts(products []domain.Product) error {
	seen := make(map[uuid.UUID]struct{}, len(products))

	for _, p := range products {
		if p.ID == uuid.Nil {
			return fmt.Errorf("product[%s] has empty id", p.Name)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("product[%s] is duplicated", p.ID)
		}
		if p.Price.IsNegative() {
			return fmt.Errorf("product[%s] has negative price", p.ID)
		}
		if p.Stock < 0 {
			return fmt.Errorf("product[%s] has negative stock", p.ID)
		}
		if p.Stock > math.MaxInt32 {
			return fmt.Errorf("product[%s] stock exceeds %d", p.ID, math.MaxInt32)
		}
		seen[p.ID] = struct{}{}
	}

	return nil
}
