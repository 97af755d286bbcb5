package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/plantnet-backend/pkg/db/models"
)

// CartItemDTO is one cart line as returned to clients.
type CartItemDTO struct {
	ID           uuid.UUID       `json:"_id"`
	UserEmail    string          `json:"userEmail"`
	ProductID    uuid.UUID       `json:"productId"`
	CartQuantity int             `json:"cartQuantity"`
	Name         string          `json:"name"`
	Category     string          `json:"category,omitempty"`
	Image        string          `json:"image,omitempty"`
	Price        decimal.Decimal `json:"price"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// AddItemRequest is the add-to-cart body. Snapshot fields the client sends
// (name, price, image) are ignored in favour of the stored product.
type AddItemRequest struct {
	UserEmail    string    `json:"userEmail"`
	ProductID    uuid.UUID `json:"productId"`
	CartQuantity int       `json:"cartQuantity"`
}

// UpdateQuantityRequest is the quantity patch body.
type UpdateQuantityRequest struct {
	CartQuantity int `json:"cartQuantity"`
}

func FromModel(item *models.CartItem) CartItemDTO {
	return CartItemDTO{
		ID:           item.ID,
		UserEmail:    item.UserEmail,
		ProductID:    item.ProductID,
		CartQuantity: item.CartQuantity,
		Name:         item.Name,
		Category:     item.Category,
		Image:        item.Image,
		Price:        item.Price,
		CreatedAt:    item.CreatedAt,
	}
}
