package port

import (
	"context"

	"github.com/nikolayk812/cartsim/internal/domain"
)

type IDGenerator interface {
	GenerateID() string
}

type ReceiptPublisher interface {
	PublishReceipt(ctx context.Context, order domain.Order) error
}
