package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ordercore/go-orders-service/internal/domains/orders/domain"
	"github.com/ordercore/go-orders-service/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter used as a development
// and test fallback. Insertion order doubles as the stable listing key.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
	seq    []string
}

func NewRepository() *Repository {
	return &Repository{orders: map[string]*domain.Order{}}
}

func (r *Repository) Insert(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := cloneOrder(order)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	clone.CreatedAt = now
	clone.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[clone.ID]; ok {
		return nil, errors.New("order id already exists")
	}
	r.orders[clone.ID] = clone
	r.seq = append(r.seq, clone.ID)
	return cloneOrder(clone), nil
}

func (r *Repository) Count(_ context.Context, status domain.Status) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total int64
	for _, order := range r.orders {
		if status == "" || order.Status == status {
			total++
		}
	}
	return total, nil
}

func (r *Repository) List(_ context.Context, status domain.Status, page, limit int) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := make([]*domain.Order, 0, len(r.seq))
	for _, id := range r.seq {
		order := r.orders[id]
		if status == "" || order.Status == status {
			matched = append(matched, order)
		}
	}
	offset := (page - 1) * limit
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	result := make([]*domain.Order, 0, end-offset)
	for _, order := range matched[offset:end] {
		listed := cloneOrder(order)
		listed.Items = nil
		result = append(result, listed)
	}
	return result, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) UpdateStatus(_ context.Context, id string, status domain.Status) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	return cloneOrder(order), nil
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Items = append([]domain.OrderItem(nil), order.Items...)
	return &clone
}
