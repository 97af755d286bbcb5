package wishlist

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/plantnet-backend/pkg/db/models"
)

// WishlistItemDTO is a liked product as returned to clients.
type WishlistItemDTO struct {
	ID        uuid.UUID       `json:"_id"`
	UserEmail string          `json:"userEmail"`
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Category  string          `json:"category,omitempty"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"createdAt"`
}

// AddItemRequest is the add-to-wishlist body.
type AddItemRequest struct {
	UserEmail string    `json:"userEmail"`
	ProductID uuid.UUID `json:"productId"`
}

func FromModel(item *models.WishlistItem) WishlistItemDTO {
	return WishlistItemDTO{
		ID:        item.ID,
		UserEmail: item.UserEmail,
		ProductID: item.ProductID,
		Name:      item.Name,
		Category:  item.Category,
		Image:     item.Image,
		Price:     item.Price,
		CreatedAt: item.CreatedAt,
	}
}
