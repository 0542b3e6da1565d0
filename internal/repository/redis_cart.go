package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/cartsim/internal/domain"
	"github.com/nikolayk812/cartsim/internal/port"
	"github.com/redis/go-redis/v9"
)

type redisCartRepository struct {
	client *redis.Client
}

// NewRedisCart keeps the cart under cart:<owner> with no expiry.
func NewRedisCart(client *redis.Client) port.CartRepository {
	return &redisCartRepository{client: client}
}

func (r *redisCartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	data, err := r.client.Get(ctx, cartKey(ownerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Cart{OwnerID: ownerID, Lines: []domain.CartLine{}}, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("client.Get: %w", err)
	}

	lines, err := decodeLines(data)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("decodeLines: %w", err)
	}

	return domain.Cart{OwnerID: ownerID, Lines: lines}, nil
}

func (r *redisCartRepository) SaveCart(ctx context.Context, cart domain.Cart) error {
	if cart.OwnerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	data, err := encodeLines(cart.Lines)
	if err != nil {
		return fmt.Errorf("encodeLines: %w", err)
	}

	if err := r.client.Set(ctx, cartKey(cart.OwnerID), data, 0).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}

func cartKey(ownerID string) string {
	return fmt.Sprintf("cart:%s", ownerID)
}
