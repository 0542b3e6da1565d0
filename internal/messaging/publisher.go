package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nikolayk812/cartsim/internal/domain"
	"github.com/nikolayk812/cartsim/internal/port"
	amqp "github.com/rabbitmq/amqp091-go"
)

const RoutingKey = "order.placed"

// Receipt is the wire form of a placed order.
type Receipt struct {
	OrderID   string            `json:"order_id"`
	Buyer     domain.Buyer      `json:"buyer"`
	Lines     []domain.CartLine `json:"lines"`
	Subtotal  string            `json:"subtotal"`
	Shipping  string            `json:"shipping"`
	Total     string            `json:"total"`
	Currency  string            `json:"currency"`
	ItemCount int               `json:"item_count"`
	CreatedAt time.Time         `json:"created_at"`
}

func NewReceipt(order domain.Order) Receipt {
	return Receipt{
		OrderID:   order.ID,
		Buyer:     order.Buyer,
		Lines:     domain.CopyLines(order.Lines),
		Subtotal:  order.Summary.Subtotal.Amount.String(),
		Shipping:  order.Summary.Shipping.Amount.String(),
		Total:     order.Summary.Total.Amount.String(),
		Currency:  order.Summary.Total.Currency.String(),
		ItemCount: order.Summary.ItemCount,
		CreatedAt: order.CreatedAt,
	}
}

type publisher struct {
	ch *amqp.Channel
}

func NewPublisher(ch *amqp.Channel) port.ReceiptPublisher {
	return &publisher{ch: ch}
}

func (p *publisher) PublishReceipt(ctx context.Context, order domain.Order) error {
	body, err := json.Marshal(NewReceipt(order))
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		ExchangeName, // exchange
		RoutingKey,   // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    order.ID,
			Timestamp:    order.CreatedAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("ch.PublishWithContext: %w", err)
	}

	return nil
}

// NopPublisher drops receipts; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishReceipt(context.Context, domain.Order) error {
	return nil
}
