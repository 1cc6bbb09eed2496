package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the orders schema. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&orderItemRecord{},
		&idempotencyRecord{},
	)
}

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID          string    `gorm:"primaryKey;column:id;type:uuid"`
	TotalAmount float64   `gorm:"column:total_amount;not null"`
	TotalItems  int32     `gorm:"column:total_items;not null"`
	Status      string    `gorm:"column:status;type:varchar(20);not null;index:idx_orders_status_created"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;index:idx_orders_status_created"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`

	Items []orderItemRecord `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

func (orderRecord) TableName() string { return "orders" }

// Order item schema mirrors the orders Postgres adapter. Item rows are bound
// to their order's lifecycle via the cascade constraint.
type orderItemRecord struct {
	ID        int64   `gorm:"primaryKey;column:id;autoIncrement"`
	OrderID   string  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID int64   `gorm:"column:product_id;not null;index"`
	Quantity  int32   `gorm:"column:quantity;not null"`
	Price     float64 `gorm:"column:price;not null"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Idempotency key schema mirrors the orders Postgres adapter.
type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;type:uuid"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }
