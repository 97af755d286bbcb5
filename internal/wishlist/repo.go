package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/plantnet-backend/pkg/db/models"
)

// UniqueConstraint names the (user_email, product_id) unique index.
const UniqueConstraint = "wishlist_items_user_product_key"

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, item *models.WishlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Exists reports whether the user already liked the product.
func (r *Repository) Exists(ctx context.Context, email string, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_email = ? AND product_id = ?", email, productID).
		Count(&count).Error
	return count > 0, err
}

// ListByEmail returns the user's wishlist, newest first.
func (r *Repository) ListByEmail(ctx context.Context, email string) ([]models.WishlistItem, error) {
	var rows []models.WishlistItem
	err := r.db.WithContext(ctx).
		Where("user_email = ?", email).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	return rows, err
}

// Remove deletes the user-product like if it exists.
func (r *Repository) Remove(ctx context.Context, email string, productID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_email = ? AND product_id = ?", email, productID).
		Delete(&models.WishlistItem{})
	return res.RowsAffected, res.Error
}
