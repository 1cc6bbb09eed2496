package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	orderstypes "github.com/ordercore/go-orders-service/internal/domains/orders/application/types"
	ordersports "github.com/ordercore/go-orders-service/internal/domains/orders/ports"
)

const (
	// CreateOrderActivityName validates and persists an order aggregate.
	CreateOrderActivityName = "orders.activities.CreateOrder"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// CreateOrder validates the draft against the catalog and stores the aggregate.
func (a *Activities) CreateOrder(ctx context.Context, input orderstypes.CreateOrderInput) (*orderstypes.OrderView, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order create activity not initialized")
		return nil, errors.New("order create activity not initialized")
	}
	logger.Info("CreateOrder activity started", "items", len(input.Items))
	view, err := a.service.CreateOrder(ctx, input)
	if err != nil {
		logger.Error("CreateOrder activity failed", "error", err)
		return nil, err
	}
	logger.Info("CreateOrder activity completed", "orderId", view.ID)
	return view, nil
}
