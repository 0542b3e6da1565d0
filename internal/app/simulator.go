// Package app wires the catalog, cart ledger, pricing and checkout into the
// single-user commands the presentation layer calls.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartsim/internal/cart"
	"github.com/nikolayk812/cartsim/internal/catalog"
	"github.com/nikolayk812/cartsim/internal/checkout"
	"github.com/nikolayk812/cartsim/internal/domain"
	"github.com/nikolayk812/cartsim/internal/port"
	"github.com/nikolayk812/cartsim/internal/pricing"
	"go.uber.org/zap"
)

// Subscriber receives the cart view after every change. It is called
// synchronously and must not block or call back into the Simulator.
type Subscriber func(View)

type Simulator struct {
	// mu serialises commands so a checkout sees no interleaved cart edits.
	mu sync.Mutex

	catalog   *catalog.Store
	ledger    *cart.Ledger
	engine    *pricing.Engine
	formatter *pricing.Formatter
	processor *checkout.Processor
	publisher port.ReceiptPublisher
	logger    *zap.Logger

	subMu       sync.Mutex
	subscribers map[int]Subscriber
	nextSubID   int
}

func NewSimulator(
	store *catalog.Store,
	ledger *cart.Ledger,
	engine *pricing.Engine,
	formatter *pricing.Formatter,
	processor *checkout.Processor,
	publisher port.ReceiptPublisher,
	logger *zap.Logger,
) *Simulator {
	s := &Simulator{
		catalog:     store,
		ledger:      ledger,
		engine:      engine,
		formatter:   formatter,
		processor:   processor,
		publisher:   publisher,
		logger:      logger,
		subscribers: make(map[int]Subscriber),
	}

	ledger.Subscribe(func(lines []domain.CartLine) {
		s.broadcast(s.render(lines))
	})

	return s
}

// Subscribe registers fn and returns a function that removes it.
func (s *Simulator) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Simulator) Products() []ProductView {
	products := s.catalog.Products()

	out := make([]ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, ProductView{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       s.amount(p.Price),
			Stock:       p.Stock,
		})
	}

	return out
}

// ReloadCatalog refetches products and pushes a fresh view, since prices and
// stock may have changed under the current lines.
func (s *Simulator) ReloadCatalog(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.catalog.Reload(ctx); err != nil {
		return fmt.Errorf("catalog.Reload: %w", err)
	}

	s.broadcast(s.render(s.ledger.Lines()))

	return nil
}

func (s *Simulator) View() View {
	return s.render(s.ledger.Lines())
}

func (s *Simulator) AddToCart(ctx context.Context, productID uuid.UUID, quantity int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.ledger.Add(ctx, productID, quantity)
	return s.View(), err
}

func (s *Simulator) SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.ledger.SetQuantity(ctx, productID, quantity)
	return s.View(), err
}

func (s *Simulator) RemoveFromCart(ctx context.Context, productID uuid.UUID) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.ledger.Remove(ctx, productID)
	return s.View(), err
}

func (s *Simulator) ClearCart(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.ledger.Clear(ctx)
	return s.View(), err
}

// Checkout places an order for the current cart. The cart is cleared only
// when the order succeeds.
func (s *Simulator) Checkout(ctx context.Context, buyer domain.Buyer) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.checkoutLocked(ctx, buyer)
}

// DemoPurchase adds one unit of the first catalog product and checks out.
func (s *Simulator) DemoPurchase(ctx context.Context, buyer domain.Buyer) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := s.catalog.Products()
	if len(products) == 0 {
		return domain.Order{}, fmt.Errorf("%w: catalog is empty", domain.ErrCatalogLoad)
	}

	if err := s.ledger.Add(ctx, products[0].ID, 1); err != nil {
		s.logger.Warn("demo purchase: cart not persisted", zap.Error(err))
	}

	return s.checkoutLocked(ctx, buyer)
}

func (s *Simulator) checkoutLocked(ctx context.Context, buyer domain.Buyer) (domain.Order, error) {
	lines := s.ledger.Lines()
	if len(lines) == 0 {
		return domain.Order{}, domain.ErrCartEmpty
	}

	order, err := s.processor.ProcessOrder(buyer, lines)
	if err != nil {
		return domain.Order{}, fmt.Errorf("processor.ProcessOrder: %w", err)
	}

	// the order stands even if the cleared cart cannot be persisted
	if err := s.ledger.Clear(ctx); err != nil {
		s.logger.Error("cart clear after checkout failed", zap.String("order_id", order.ID), zap.Error(err))
	}

	if err := s.publisher.PublishReceipt(ctx, order); err != nil {
		s.logger.Error("receipt publish failed", zap.String("order_id", order.ID), zap.Error(err))
	}

	return order, nil
}

// SampleBuyer is the buyer the checkout form is prefilled with.
func (s *Simulator) SampleBuyer() domain.Buyer {
	return SampleBuyer()
}

func SampleBuyer() domain.Buyer {
	return domain.Buyer{
		Name:    "Martin Perez Romero",
		Email:   "martin@example.com",
		DNI:     "12345678",
		Address: "Córdoba, Argentina",
		Payment: "mercado",
	}
}

func (s *Simulator) OrderView(order domain.Order) OrderView {
	return OrderView{
		ID:        order.ID,
		Buyer:     order.Buyer,
		Lines:     domain.CopyLines(order.Lines),
		ItemCount: order.Summary.ItemCount,
		Subtotal:  s.amount(order.Summary.Subtotal),
		Shipping:  s.amount(order.Summary.Shipping),
		Total:     s.amount(order.Summary.Total),
		CreatedAt: order.CreatedAt.Format(time.RFC3339),
	}
}

func (s *Simulator) render(lines []domain.CartLine) View {
	summary := s.engine.Compute(lines, s.catalog)

	view := View{
		Lines:     make([]LineView, 0, len(lines)),
		ItemCount: summary.ItemCount,
		Subtotal:  s.amount(summary.Subtotal),
		Shipping:  s.amount(summary.Shipping),
		Total:     s.amount(summary.Total),
		Currency:  summary.Total.Currency.String(),
	}

	rules := s.engine.Rules()
	view.FreeShippingOver = s.amount(domain.NewMoney(rules.FreeShippingOver, rules.Currency))

	for _, line := range lines {
		product, ok := s.catalog.FindProduct(line.ProductID)
		if !ok {
			continue
		}

		view.Lines = append(view.Lines, LineView{
			ProductID: line.ProductID,
			Name:      product.Name,
			UnitPrice: s.amount(product.Price),
			Quantity:  line.Quantity,
			Stock:     product.Stock,
			LineTotal: s.amount(product.Price.Mul(line.Quantity)),
		})
	}

	return view
}

func (s *Simulator) amount(m domain.Money) Amount {
	return Amount{
		Value:   m.Amount.String(),
		Display: s.formatter.Format(m),
	}
}

func (s *Simulator) broadcast(view View) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, fn := range s.subscribers {
		fn(view)
	}
}
