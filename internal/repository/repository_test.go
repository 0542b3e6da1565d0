package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/nikolayk812/cartsim/internal/domain"
	"github.com/nikolayk812/cartsim/internal/port"
	"github.com/nikolayk812/cartsim/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.WithDatabase("cartsim"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	if err := repository.MigratePostgres(connStr); err != nil {
		return nil, "", fmt.Errorf("repository.MigratePostgres: %w", err)
	}

	return postgresContainer, connStr, nil
}

func startMongo(ctx context.Context) (*mongodb.MongoDBContainer, string, error) {
	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		return nil, "", fmt.Errorf("mongodb.Run: %w", err)
	}

	uri, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("mc.ConnectionString: %w", err)
	}

	return mongoContainer, uri, nil
}

// testCartRepository checks the behaviour every cart store shares.
func testCartRepository(t *testing.T, repo port.CartRepository) {
	t.Helper()

	t.Run("nothing stored: empty cart", func(t *testing.T) {
		ownerID := gofakeit.UUID()

		cart, err := repo.GetCart(t.Context(), ownerID)
		require.NoError(t, err)

		assert.Equal(t, ownerID, cart.OwnerID)
		assert.NotNil(t, cart.Lines)
		assert.Empty(t, cart.Lines)
	})

	t.Run("save then get: same lines in order", func(t *testing.T) {
		cart := randomCart(3)

		require.NoError(t, repo.SaveCart(t.Context(), cart))

		got, err := repo.GetCart(t.Context(), cart.OwnerID)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(cart, got))
	})

	t.Run("second save replaces first", func(t *testing.T) {
		cart := randomCart(3)
		require.NoError(t, repo.SaveCart(t.Context(), cart))

		cart.Lines = cart.Lines[1:]
		cart.Lines[0].Quantity++
		require.NoError(t, repo.SaveCart(t.Context(), cart))

		got, err := repo.GetCart(t.Context(), cart.OwnerID)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(cart, got))
	})

	t.Run("save empty cart: cleared", func(t *testing.T) {
		cart := randomCart(2)
		require.NoError(t, repo.SaveCart(t.Context(), cart))

		require.NoError(t, repo.SaveCart(t.Context(), domain.Cart{OwnerID: cart.OwnerID}))

		got, err := repo.GetCart(t.Context(), cart.OwnerID)
		require.NoError(t, err)
		assert.Empty(t, got.Lines)
	})

	t.Run("owners are isolated", func(t *testing.T) {
		first, second := randomCart(1), randomCart(2)
		require.NoError(t, repo.SaveCart(t.Context(), first))
		require.NoError(t, repo.SaveCart(t.Context(), second))

		got, err := repo.GetCart(t.Context(), first.OwnerID)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(first, got))
	})

	t.Run("empty owner ID: error", func(t *testing.T) {
		_, err := repo.GetCart(t.Context(), "")
		require.EqualError(t, err, "ownerID is empty")

		cart := randomCart(1)
		cart.OwnerID = ""
		err = repo.SaveCart(t.Context(), cart)
		require.EqualError(t, err, "ownerID is empty")
	})
}

func randomCart(n int) domain.Cart {
	cart := domain.Cart{
		OwnerID: gofakeit.UUID(),
		Lines:   make([]domain.CartLine, 0, n),
	}

	for range n {
		cart.Lines = append(cart.Lines, domain.CartLine{
			ProductID: uuid.MustParse(gofakeit.UUID()),
			Quantity:  gofakeit.IntRange(1, 20),
		})
	}

	return cart
}
