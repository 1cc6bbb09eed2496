package orders

import (
	"go.temporal.io/sdk/workflow"

	orderstypes "github.com/ordercore/go-orders-service/internal/domains/orders/application/types"
	"github.com/ordercore/go-orders-service/internal/durable/temporal/sequences"
)

const (
	// OrderPlacementWorkflowName is the public identifier for registering the workflow.
	OrderPlacementWorkflowName = "orders.workflows.Placement"
	// OrderPlacementTaskQueue is the queue consumed by the worker processing order workflows.
	OrderPlacementTaskQueue = "ORDER_PLACEMENT"
)

// OrderPlacementWorkflowInput captures the payload required to place a new order.
type OrderPlacementWorkflowInput struct {
	Command orderstypes.CreateOrderInput
	TraceID string
}

// OrderPlacementWorkflow orchestrates the activities needed to place an order aggregate.
func OrderPlacementWorkflow(ctx workflow.Context, input OrderPlacementWorkflowInput) (*orderstypes.OrderView, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderPlacementWorkflow started", withTraceID(input.TraceID, "items", len(input.Command.Items))...)
	view, err := sequences.RunOrderPlacementSequence(ctx, input.Command)
	if err != nil {
		logger.Error("OrderPlacementWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID, "orderId", view.ID)...)
	return view, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
