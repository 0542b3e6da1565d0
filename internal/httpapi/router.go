// Package httpapi exposes the cart simulator over HTTP and a websocket
// change stream.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/nikolayk812/cartsim/internal/app"
	"github.com/nikolayk812/cartsim/internal/domain"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Shop is the application surface the handlers drive.
type Shop interface {
	Products() []app.ProductView
	ReloadCatalog(ctx context.Context) error

	View() app.View
	AddToCart(ctx context.Context, productID uuid.UUID, quantity int) (app.View, error)
	SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) (app.View, error)
	RemoveFromCart(ctx context.Context, productID uuid.UUID) (app.View, error)
	ClearCart(ctx context.Context) (app.View, error)
	Subscribe(fn app.Subscriber) (unsubscribe func())

	Checkout(ctx context.Context, buyer domain.Buyer) (domain.Order, error)
	DemoPurchase(ctx context.Context, buyer domain.Buyer) (domain.Order, error)
	SampleBuyer() domain.Buyer
	OrderView(order domain.Order) app.OrderView
}

type Config struct {
	RequestTimeout time.Duration
}

// NewRouter mounts every route under /api/v1. The websocket stream is kept
// outside the request timeout.
func NewRouter(shop Shop, cfg Config, logger *zap.Logger) http.Handler {
	products := &productHandler{shop: shop, logger: logger}
	carts := &cartHandler{shop: shop, logger: logger}
	orders := &checkoutHandler{shop: shop, logger: logger}
	stream := newStreamHandler(shop, logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/cart/stream", stream.ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(cfg.RequestTimeout))

			r.Get("/products", products.List)
			r.Post("/catalog/reload", products.Reload)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", carts.GetCart)
				r.Delete("/", carts.ClearCart)
				r.Post("/items", carts.AddItem)
				r.Put("/items/{product_id}", carts.UpdateQuantity)
				r.Delete("/items/{product_id}", carts.RemoveItem)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", orders.Checkout)
				r.Get("/sample-buyer", orders.SampleBuyer)
				r.Post("/demo", orders.Demo)
			})
		})
	})

	return r
}

// NewServer wraps handler with OpenTelemetry instrumentation. Spans go to the
// global tracer provider, a no-op unless one is installed.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(handler, "cartsim"),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
