package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	orderstypes "github.com/ordercore/go-orders-service/internal/domains/orders/application/types"
	orderactivities "github.com/ordercore/go-orders-service/internal/durable/temporal/activities/orders"
)

// RunOrderPlacementSequence executes the ordered set of activities needed to
// place an order aggregate. Catalog validation and the insert run inside one
// activity so a retry never persists a half-validated draft.
func RunOrderPlacementSequence(ctx workflow.Context, input orderstypes.CreateOrderInput) (*orderstypes.OrderView, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "items", len(input.Items))
	createOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}

	var view orderstypes.OrderView
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, createOptions), orderactivities.CreateOrderActivityName, input).Get(ctx, &view)
	if err != nil {
		logger.Error("order placement sequence failed", "error", err)
		return nil, err
	}
	logger.Info("order placement sequence persisted", "orderId", view.ID)
	return &view, nil
}
