package ports

import (
	"context"
	"errors"

	"github.com/ordercore/go-orders-service/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists and retrieves order aggregates. Insert is the only
// concurrency-sensitive primitive: readers must never observe an order with a
// strict subset of its items.
type Repository interface {
	// Insert atomically creates the order row and all of its item rows.
	Insert(ctx context.Context, order *domain.Order) (*domain.Order, error)
	// Count returns how many orders match the status filter; empty matches all.
	Count(ctx context.Context, status domain.Status) (int64, error)
	// List returns one page ordered by creation, skipping (page-1)*limit rows.
	// Items are not loaded for listings.
	List(ctx context.Context, status domain.Status, page, limit int) ([]*domain.Order, error)
	// GetByID fetches an order with its items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// UpdateStatus updates the status of an existing order and returns the
	// refreshed aggregate. Skipping same-status writes is the caller's job.
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
}
