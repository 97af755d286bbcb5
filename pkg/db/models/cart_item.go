package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItem is one product line in a user's cart, with a snapshot of the
// product fields shown in the cart UI.
type CartItem struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserEmail    string          `gorm:"column:user_email;type:text;not null;index:cart_items_user_email_idx"`
	ProductID    uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	CartQuantity int             `gorm:"column:cart_quantity;not null"`
	Name         string          `gorm:"column:name;type:text"`
	Category     string          `gorm:"column:category;type:text"`
	Image        string          `gorm:"column:image;type:text"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null;default:0"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *CartItem) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
