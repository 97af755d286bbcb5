package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/plantnet-backend/pkg/db/models"
)

// ProductDTO is the catalog payload returned to clients.
type ProductDTO struct {
	ID            uuid.UUID       `json:"_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category"`
	CategoryImage string          `json:"categoryImage,omitempty"`
	Image         string          `json:"image,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// CreateProductRequest is the body accepted by product creation.
type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	Description   string          `json:"description"`
	Category      string          `json:"category" validate:"required,max=100"`
	CategoryImage string          `json:"categoryImage"`
	Image         string          `json:"image"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity" validate:"min=0"`
}

// UpdateProductRequest carries only the fields to overwrite; nil fields are left alone.
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description"`
	Category      *string          `json:"category" validate:"omitempty,min=1,max=100"`
	CategoryImage *string          `json:"categoryImage"`
	Image         *string          `json:"image"`
	Price         *decimal.Decimal `json:"price"`
	Quantity      *int             `json:"quantity" validate:"omitempty,min=0"`
}

// CategoryDTO is one distinct category with a representative image.
type CategoryDTO struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// PopularCategoryDTO is a category with its product count.
type PopularCategoryDTO struct {
	Category      string `json:"category"`
	CategoryImage string `json:"categoryImage"`
	Count         int64  `json:"count"`
}

// DeleteResult is the product deletion acknowledgement.
type DeleteResult struct {
	Success      bool  `json:"success"`
	DeletedCount int64 `json:"deletedCount"`
}

func FromModel(p *models.Product) ProductDTO {
	return ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		CategoryImage: p.CategoryImage,
		Image:         p.Image,
		Price:         p.Price,
		Quantity:      p.Quantity,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func fromModels(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

func (r CreateProductRequest) toModel() *models.Product {
	return &models.Product{
		Name:          r.Name,
		Description:   r.Description,
		Category:      r.Category,
		CategoryImage: r.CategoryImage,
		Image:         r.Image,
		Price:         r.Price,
		Quantity:      r.Quantity,
	}
}

// changes returns the columns whose requested value differs from current.
func (r UpdateProductRequest) changes(current *models.Product) map[string]any {
	updates := map[string]any{}
	setString := func(column string, next *string, cur string) {
		if next != nil && *next != cur {
			updates[column] = *next
		}
	}
	setString("name", r.Name, current.Name)
	setString("description", r.Description, current.Description)
	setString("category", r.Category, current.Category)
	setString("category_image", r.CategoryImage, current.CategoryImage)
	setString("image", r.Image, current.Image)
	if r.Price != nil && !r.Price.Equal(current.Price) {
		updates["price"] = *r.Price
	}
	if r.Quantity != nil && *r.Quantity != current.Quantity {
		updates["quantity"] = *r.Quantity
	}
	return updates
}
