package app

import (
	"context"

	"github.com/nikolayk812/cartsim/internal/cart"
	"github.com/nikolayk812/cartsim/internal/catalog"
	"github.com/nikolayk812/cartsim/internal/checkout"
	"github.com/nikolayk812/cartsim/internal/messaging"
	"github.com/nikolayk812/cartsim/internal/port"
	"github.com/nikolayk812/cartsim/internal/pricing"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

type Options struct {
	CartKey        string
	Catalog        port.CatalogSource
	Carts          port.CartRepository
	Rules          pricing.Rules
	Locale         language.Tag
	PaymentMethods []string
	// IDs defaults to checkout.ULIDGenerator.
	IDs port.IDGenerator
	// Publisher defaults to messaging.NopPublisher.
	Publisher port.ReceiptPublisher
	Logger    *zap.Logger
}

// New loads the catalog, restores the persisted cart and returns a ready
// Simulator. A catalog load failure is logged and leaves the catalog empty;
// the catalog can be reloaded later.
func New(ctx context.Context, opts Options) *Simulator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ids := opts.IDs
	if ids == nil {
		ids = checkout.ULIDGenerator{}
	}
	publisher := opts.Publisher
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}

	store := catalog.NewStore(logger.Named("catalog"))
	if err := store.Load(ctx, opts.Catalog); err != nil {
		logger.Error("catalog unavailable, starting with an empty catalog", zap.Error(err))
	}

	engine := pricing.NewEngine(opts.Rules)
	processor := checkout.NewProcessor(
		store,
		engine,
		checkout.NewValidator(opts.PaymentMethods),
		ids,
		logger.Named("checkout"),
	)

	ledger := cart.NewLedger(opts.CartKey, store, opts.Carts, logger.Named("cart"))

	sim := NewSimulator(store, ledger, engine, pricing.NewFormatter(opts.Locale), processor, publisher, logger)
	ledger.Restore(ctx)

	return sim
}
