package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartsim/internal/domain"
)

type CatalogSource interface {
	LoadProducts(ctx context.Context) ([]domain.Product, error)
}

type ProductFinder interface {
	FindProduct(id uuid.UUID) (domain.Product, bool)
}
