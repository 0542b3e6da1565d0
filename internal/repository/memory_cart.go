package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/cartsim/internal/domain"
	"github.com/nikolayk812/cartsim/internal/port"
)

type memoryCartRepository struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartLine
}

// NewMemoryCart keeps carts for the lifetime of the process only.
func NewMemoryCart() port.CartRepository {
	return &memoryCartRepository{
		carts: make(map[string][]domain.CartLine),
	}
}

func (r *memoryCartRepository) GetCart(_ context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return domain.Cart{OwnerID: ownerID, Lines: domain.CopyLines(r.carts[ownerID])}, nil
}

func (r *memoryCartRepository) SaveCart(_ context.Context, cart domain.Cart) error {
	if cart.OwnerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.carts[cart.OwnerID] = domain.CopyLines(cart.Lines)

	return nil
}
