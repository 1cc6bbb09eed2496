// Package types holds the transport-agnostic inputs and projections of the
// orders use cases.
package types

import "time"

// DraftItem is one caller-supplied (productId, quantity) pair before
// validation and pricing.
type DraftItem struct {
	ProductID int64
	Quantity  int32
}

// CreateOrderInput carries the unpersisted order draft. IdempotencyKey is
// optional; when set, retries with the same key and payload replay the
// original order instead of creating a new one.
type CreateOrderInput struct {
	Items          []DraftItem
	IdempotencyKey string
}

// OrderItemView is a line of an order response. Name is a response-time
// decoration joined from the catalog and is never stored.
type OrderItemView struct {
	ProductID int64   `json:"productId"`
	Quantity  int32   `json:"quantity"`
	Price     float64 `json:"price"`
	Name      string  `json:"name,omitempty"`
}

// OrderView is the order aggregate as returned to callers.
type OrderView struct {
	ID          string          `json:"id"`
	TotalAmount float64         `json:"totalAmount"`
	TotalItems  int32           `json:"totalItems"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Items       []OrderItemView `json:"items,omitempty"`
}

// ListOrdersInput selects one page of orders, optionally filtered by status.
type ListOrdersInput struct {
	Page   int
	Limit  int
	Status string
}

// PageMeta describes the pagination window of a listing.
type PageMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	LastPage int   `json:"lastPage"`
}

// OrderPage bundles one page of orders with its metadata.
type OrderPage struct {
	Data []OrderView `json:"data"`
	Meta PageMeta    `json:"meta"`
}

// ChangeOrderStatusInput requests a single status transition.
type ChangeOrderStatusInput struct {
	ID     string
	Status string
}
