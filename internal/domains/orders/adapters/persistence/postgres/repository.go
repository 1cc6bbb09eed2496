package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ordercore/go-orders-service/internal/domains/orders/domain"
	"github.com/ordercore/go-orders-service/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists order aggregates in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle;
// schema is applied via platform/migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate root to a relational table.
type orderRecord struct {
	ID          string            `gorm:"primaryKey;column:id;type:uuid"`
	TotalAmount float64           `gorm:"column:total_amount;not null"`
	TotalItems  int32             `gorm:"column:total_items;not null"`
	Status      string            `gorm:"column:status;type:varchar(20);not null;index:idx_orders_status_created"`
	CreatedAt   time.Time         `gorm:"column:created_at;not null;autoCreateTime;index:idx_orders_status_created"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;not null;autoUpdateTime"`
	Items       []orderItemRecord `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID        int64   `gorm:"primaryKey;column:id;autoIncrement"`
	OrderID   string  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID int64   `gorm:"column:product_id;not null;index"`
	Quantity  int32   `gorm:"column:quantity;not null"`
	Price     float64 `gorm:"column:price;not null"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Insert creates the order row and all item rows inside one transaction so a
// concurrent reader sees either the full aggregate or nothing.
func (r *Repository) Insert(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&record).Error
	}); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// Count returns the number of orders matching the optional status filter.
func (r *Repository) Count(ctx context.Context, status domain.Status) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	query := r.db.WithContext(ctx).Model(&orderRecord{})
	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// List returns one page ordered by creation time. Items are not loaded.
func (r *Repository) List(ctx context.Context, status domain.Status, page, limit int) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx)
	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	var records []orderRecord
	if err := query.
		Order("created_at, id").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

// GetByID fetches an order with its items.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).Preload("Items").First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// UpdateStatus sets the status of an existing order and returns the refreshed
// aggregate.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	record := orderRecord{
		ID:          order.ID,
		TotalAmount: order.TotalAmount,
		TotalItems:  order.TotalItems,
		Status:      string(order.Status),
	}
	for _, item := range order.Items {
		record.Items = append(record.Items, orderItemRecord{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return record
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:          r.ID,
		TotalAmount: r.TotalAmount,
		TotalItems:  r.TotalItems,
		Status:      domain.Status(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return order
}
