package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartsim/internal/db"
	"github.com/nikolayk812/cartsim/internal/domain"
	"github.com/nikolayk812/cartsim/internal/port"
)

type cartRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	rows, err := r.q.GetCartLines(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetCartLines: %w", err)
	}

	return domain.Cart{
		OwnerID: ownerID,
		Lines:   mapCartLineRowsToDomain(rows),
	}, nil
}

// SaveCart replaces every stored line of the owner, so the table always
// mirrors the last saved cart.
func (r *cartRepository) SaveCart(ctx context.Context, cart domain.Cart) error {
	if cart.OwnerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		if _, err := q.DeleteCartLines(ctx, cart.OwnerID); err != nil {
			return struct{}{}, fmt.Errorf("q.DeleteCartLines: %w", err)
		}

		for i, line := range cart.Lines {
			err := q.InsertCartLine(ctx, db.InsertCartLineParams{
				OwnerID:   cart.OwnerID,
				ProductID: line.ProductID,
				Quantity:  int32(line.Quantity),
				Position:  int32(i),
			})
			if err != nil {
				return struct{}{}, fmt.Errorf("q.InsertCartLine[%s]: %w", line.ProductID, err)
			}
		}

		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

func mapCartLineRowsToDomain(rows []db.GetCartLinesRow) []domain.CartLine {
	lines := make([]domain.CartLine, 0, len(rows))

	for _, row := range rows {
		lines = append(lines, domain.CartLine{
			ProductID: row.ProductID,
			Quantity:  int(row.Quantity),
		})
	}

	return lines
}
