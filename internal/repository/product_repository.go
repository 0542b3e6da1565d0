package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartsim/internal/db"
	"github.com/nikolayk812/cartsim/internal/domain"
	"github.com/nikolayk812/cartsim/internal/port"
	"golang.org/x/text/currency"
)

type productRepository struct {
	q *db.Queries
}

// NewProductSource reads the catalog from the products table, in insertion order.
func NewProductSource(pool *pgxpool.Pool) port.CatalogSource {
	return &productRepository{
		q: db.New(pool),
	}
}

func (r *productRepository) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.q.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.ListProducts: %w", err)
	}

	products, err := mapProductRowsToDomain(rows)
	if err != nil {
		return nil, fmt.Errorf("mapProductRowsToDomain: %w", err)
	}

	return products, nil
}

func mapProductRowToDomain(row db.ListProductsRow) (domain.Product, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.Product{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Price:       domain.NewMoney(row.PriceAmount, parsedCurrency),
		Stock:       int(row.Stock),
	}, nil
}

func mapProductRowsToDomain(rows []db.ListProductsRow) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(rows))

	for _, row := range rows {
		product, err := mapProductRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapProductRowToDomain: %w", err)
		}

		products = append(products, product)
	}

	return products, nil
}
