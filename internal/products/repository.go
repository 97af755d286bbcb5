package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/plantnet-backend/pkg/db/models"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Repository encapsulates product persistence, including stock adjustments
// used by the order workflow.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Sample returns up to limit products in random order.
func (r *Repository) Sample(ctx context.Context, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Order("RANDOM()").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// SearchByName matches q as a literal, case-insensitive substring of the name.
func (r *Repository) SearchByName(ctx context.Context, q string) ([]models.Product, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	return rows, err
}

// List returns every product, or those whose category equals category ignoring case.
func (r *Repository) List(ctx context.Context, category string) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if category != "" {
		query = query.Where("LOWER(category) = LOWER(?)", category)
	}
	var rows []models.Product
	err := query.Order("created_at DESC").Order("id DESC").Find(&rows).Error
	return rows, err
}

func (r *Repository) Categories(ctx context.Context) ([]CategoryDTO, error) {
	var rows []CategoryDTO
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("category AS name, MIN(category_image) AS image").
		Group("category").
		Order("category ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *Repository) PopularCategories(ctx context.Context) ([]PopularCategoryDTO, error) {
	var rows []PopularCategoryDTO
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("category, MIN(category_image) AS category_image, COUNT(*) AS count").
		Group("category").
		Order("count DESC").Order("category ASC").
		Scan(&rows).Error
	return rows, err
}

// Update writes the given columns and reports rows touched.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	return res.RowsAffected, res.Error
}

// DecrementStock subtracts qty from the product's stock. With conditional set
// the update only applies while stock >= qty, and zero rows affected means the
// stock ran out (or the product vanished) since it was checked.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int, conditional bool) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id)
	if conditional {
		query = query.Where("quantity >= ?", qty)
	}
	res := query.UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	return res.RowsAffected, res.Error
}

// IncrementStock adds qty back to the product's stock.
func (r *Repository) IncrementStock(ctx context.Context, id uuid.UUID, qty int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty))
	return res.RowsAffected, res.Error
}
