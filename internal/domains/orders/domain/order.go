package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

var (
	ErrNoItems          = errors.New("order must contain at least one item")
	ErrInvalidProductID = errors.New("product id must be greater than zero")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrInvalidPrice     = errors.New("price must not be negative")
	ErrInvalidStatus    = errors.New("order status is invalid")
)

// OrderItem is a single priced line of an order. Price is the unit price
// captured when the order was created; later catalog changes never touch it.
type OrderItem struct {
	ProductID int64
	Quantity  int32
	Price     float64
}

// Order models the order aggregate: one order row plus its full item set,
// always created and read as a unit.
type Order struct {
	ID          string
	TotalAmount float64
	TotalItems  int32
	Status      Status
	Items       []OrderItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOrder builds a pending order from priced items, deriving both totals.
// Duplicate product ids stay as separate lines.
func NewOrder(items []OrderItem) (*Order, error) {
	order := &Order{
		ID:     uuid.NewString(),
		Status: StatusPending,
		Items:  items,
	}
	for _, item := range order.Items {
		order.TotalAmount += item.Price * float64(item.Quantity)
		order.TotalItems += item.Quantity
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range o.Items {
		if item.ProductID <= 0 {
			return ErrInvalidProductID
		}
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if item.Price < 0 {
			return ErrInvalidPrice
		}
	}
	if !isValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// ParseStatus converts transport input into a known Status.
func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	if !isValidStatus(status) {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusPaid, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}
