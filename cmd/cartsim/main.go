package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartsim/internal/app"
	"github.com/nikolayk812/cartsim/internal/catalog"
	"github.com/nikolayk812/cartsim/internal/config"
	"github.com/nikolayk812/cartsim/internal/httpapi"
	"github.com/nikolayk812/cartsim/internal/logging"
	"github.com/nikolayk812/cartsim/internal/messaging"
	"github.com/nikolayk812/cartsim/internal/port"
	"github.com/nikolayk812/cartsim/internal/pricing"
	"github.com/nikolayk812/cartsim/internal/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cartsim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logging.New: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	var pool *pgxpool.Pool
	if cfg.CartStore == config.StorePostgres || cfg.CatalogSource == config.CatalogPostgres {
		if err := repository.MigratePostgres(cfg.PostgresURL); err != nil {
			return fmt.Errorf("repository.MigratePostgres: %w", err)
		}
		if pool, err = pgxpool.New(ctx, cfg.PostgresURL); err != nil {
			return fmt.Errorf("pgxpool.New: %w", err)
		}
		closers = append(closers, pool.Close)
	}

	carts, closeCarts, err := openCartStore(ctx, cfg, pool)
	if err != nil {
		return fmt.Errorf("openCartStore[%s]: %w", cfg.CartStore, err)
	}
	closers = append(closers, closeCarts)

	publisher := port.ReceiptPublisher(messaging.NopPublisher{})
	if cfg.AMQPURL != "" {
		conn, ch, err := messaging.SetupConn(ctx, cfg.AMQPURL, logger.Named("amqp"))
		if err != nil {
			return fmt.Errorf("messaging.SetupConn: %w", err)
		}
		closers = append(closers, func() {
			_ = ch.Close()
			_ = conn.Close()
		})
		publisher = messaging.NewPublisher(ch)
	}

	rules := pricing.Rules{
		Currency:         cfg.Currency,
		ShippingFee:      cfg.ShippingFee,
		FreeShippingOver: cfg.FreeShippingOver,
	}

	sim := app.New(ctx, app.Options{
		CartKey:        cfg.CartKey,
		Catalog:        catalogSource(cfg, pool),
		Carts:          carts,
		Rules:          rules,
		Locale:         cfg.Locale,
		PaymentMethods: cfg.PaymentMethods,
		Publisher:      publisher,
		Logger:         logger,
	})

	router := httpapi.NewRouter(sim, httpapi.Config{RequestTimeout: cfg.RequestTimeout}, logger.Named("http"))
	srv := httpapi.NewServer(cfg.HTTPAddr, router)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.HTTPAddr), zap.String("cart_store", cfg.CartStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("srv.ListenAndServe: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown: %w", err)
	}

	logger.Info("http server stopped")
	return nil
}

func openCartStore(ctx context.Context, cfg config.Config, pool *pgxpool.Pool) (port.CartRepository, func(), error) {
	switch cfg.CartStore {
	case config.StoreMemory:
		return repository.NewMemoryCart(), func() {}, nil

	case config.StoreSQLite:
		sqlDB, err := repository.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("repository.OpenSQLite: %w", err)
		}
		return repository.NewSQLiteCart(sqlDB), func() { _ = sqlDB.Close() }, nil

	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("client.Ping: %w", err)
		}
		return repository.NewRedisCart(client), func() { _ = client.Close() }, nil

	case config.StorePostgres:
		return repository.NewCart(pool), func() {}, nil

	case config.StoreMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		db, err := repository.ConnectMongo(connectCtx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, fmt.Errorf("repository.ConnectMongo: %w", err)
		}
		return repository.NewMongoCart(db), func() { _ = db.Client().Disconnect(context.Background()) }, nil
	}

	return nil, nil, fmt.Errorf("cart store[%s] is not supported", cfg.CartStore)
}

func catalogSource(cfg config.Config, pool *pgxpool.Pool) port.CatalogSource {
	switch {
	case cfg.CatalogSource == config.CatalogPostgres:
		return repository.NewProductSource(pool)
	case strings.HasPrefix(cfg.CatalogSource, "http://"), strings.HasPrefix(cfg.CatalogSource, "https://"):
		return catalog.NewHTTPSource(cfg.CatalogSource, cfg.Currency, &http.Client{Timeout: 10 * time.Second})
	default:
		return catalog.NewFileSource(cfg.CatalogSource, cfg.Currency)
	}
}
