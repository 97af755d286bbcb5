package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog listing. Quantity is the available stock.
type Product struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name          string          `gorm:"column:name;type:text;not null"`
	Description   string          `gorm:"column:description;type:text"`
	Category      string          `gorm:"column:category;type:text;not null;index:products_category_idx"`
	CategoryImage string          `gorm:"column:category_image;type:text"`
	Image         string          `gorm:"column:image;type:text"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null;default:0"`
	Quantity      int             `gorm:"column:quantity;not null;default:0"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime;index:products_created_at_idx"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
