package ports

import (
	"context"

	ordertypes "github.com/ordercore/go-orders-service/internal/domains/orders/application/types"
)

// WorkflowOrchestrator runs the order placement flow, durably or inline.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, input ordertypes.CreateOrderInput) (*ordertypes.OrderView, error)
}
