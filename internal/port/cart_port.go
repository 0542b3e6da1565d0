package port

import (
	"context"

	"github.com/nikolayk812/cartsim/internal/domain"
)

// CartRepository persists a whole cart into a single slot keyed by owner.
// GetCart returns an empty cart and nil error when nothing is stored, and an
// error wrapping domain.ErrMalformedCart when the stored payload cannot be read.
type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)
	SaveCart(ctx context.Context, cart domain.Cart) error
}
