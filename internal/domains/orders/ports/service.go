package ports

import (
	"context"

	ordertypes "github.com/ordercore/go-orders-service/internal/domains/orders/application/types"
)

// Service defines the orders use cases exposed to adapters (inbound port).
type Service interface {
	CreateOrder(ctx context.Context, input ordertypes.CreateOrderInput) (*ordertypes.OrderView, error)
	GetOrder(ctx context.Context, id string) (*ordertypes.OrderView, error)
	ListOrders(ctx context.Context, input ordertypes.ListOrdersInput) (*ordertypes.OrderPage, error)
	ChangeOrderStatus(ctx context.Context, input ordertypes.ChangeOrderStatusInput) (*ordertypes.OrderView, error)
}
