package httpx

import (
	ordertypes "github.com/ordercore/go-orders-service/internal/domains/orders/application/types"
)

// CreateOrderRequest is the inbound order draft payload.
type CreateOrderRequest struct {
	Items []CreateOrderItem `json:"items" binding:"required"`
}

// CreateOrderItem is one (productId, quantity) pair of the draft.
type CreateOrderItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int32 `json:"quantity"`
}

// ChangeStatusRequest carries the requested status transition.
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (r CreateOrderRequest) toInput() ordertypes.CreateOrderInput {
	items := make([]ordertypes.DraftItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, ordertypes.DraftItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return ordertypes.CreateOrderInput{Items: items}
}
