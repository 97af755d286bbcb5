package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/plantnet-backend/pkg/enums"
)

// OrderItem is an ordered product and quantity, stored inline on the order.
type OrderItem struct {
	ProductID uuid.UUID       `json:"productId"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name,omitempty"`
	Price     decimal.Decimal `json:"price"`
}

// Order is a placed order. Items are kept as a JSON column so the order reads
// back as one document.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserEmail       string            `gorm:"column:user_email;type:text;not null;index:orders_user_email_idx"`
	Items           []OrderItem       `gorm:"column:items;type:jsonb;serializer:json;not null"`
	Status          enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CustomerName    string            `gorm:"column:customer_name;type:text"`
	Phone           string            `gorm:"column:phone;type:text"`
	Address         string            `gorm:"column:address;type:text"`
	PaymentMethod   string            `gorm:"column:payment_method;type:text"`
	TotalPrice      decimal.Decimal   `gorm:"column:total_price;type:numeric(12,2);not null;default:0"`
	OrderTime       time.Time         `gorm:"column:order_time;not null"`
	OrderTimestamp  int64             `gorm:"column:order_timestamp;not null;index:orders_order_timestamp_idx"`
	StatusUpdatedAt *time.Time        `gorm:"column:status_updated_at"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}
