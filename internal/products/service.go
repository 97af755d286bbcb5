package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/plantnet-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/plantnet-backend/pkg/errors"
	"github.com/angelmondragon/plantnet-backend/pkg/types"
)

const defaultSampleSize = 100

type repository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Sample(ctx context.Context, limit int) ([]models.Product, error)
	SearchByName(ctx context.Context, q string) ([]models.Product, error)
	List(ctx context.Context, category string) ([]models.Product, error)
	Categories(ctx context.Context) ([]CategoryDTO, error)
	PopularCategories(ctx context.Context) ([]PopularCategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// ServiceParams groups dependencies for the product service.
type ServiceParams struct {
	Repo       repository
	SampleSize int
}

// Service exposes catalog reads and writes.
type Service interface {
	Create(ctx context.Context, input CreateProductRequest) (types.InsertResult, error)
	Sample(ctx context.Context) ([]ProductDTO, error)
	Search(ctx context.Context, q string) ([]ProductDTO, error)
	List(ctx context.Context, category string) ([]ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (ProductDTO, error)
	Categories(ctx context.Context) ([]CategoryDTO, error)
	PopularCategories(ctx context.Context) ([]PopularCategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductRequest) (types.UpdateResult, error)
	Delete(ctx context.Context, id uuid.UUID) (DeleteResult, error)
}

type service struct {
	repo       repository
	sampleSize int
}

// NewService builds a product service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	size := params.SampleSize
	if size <= 0 {
		size = defaultSampleSize
	}
	return &service{repo: params.Repo, sampleSize: size}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductRequest) (types.InsertResult, error) {
	product := input.toModel()
	if product.Price.IsNegative() {
		return types.InsertResult{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return types.InsertResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to add product")
	}
	return types.Inserted(product.ID), nil
}

func (s *service) Sample(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.Sample(ctx, s.sampleSize)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to load products")
	}
	return fromModels(rows), nil
}

// Search returns an empty list for a blank query rather than every product.
func (s *service) Search(ctx context.Context, q string) ([]ProductDTO, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []ProductDTO{}, nil
	}
	rows, err := s.repo.SearchByName(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Search failed")
	}
	return fromModels(rows), nil
}

func (s *service) List(ctx context.Context, category string) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to load products")
	}
	return fromModels(rows), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (ProductDTO, error) {
	product, err := s.load(ctx, id, "Failed to load product")
	if err != nil {
		return ProductDTO{}, err
	}
	return FromModel(product), nil
}

func (s *service) Categories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to load categories")
	}
	if rows == nil {
		rows = []CategoryDTO{}
	}
	return rows, nil
}

func (s *service) PopularCategories(ctx context.Context) ([]PopularCategoryDTO, error) {
	rows, err := s.repo.PopularCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to load popular categories")
	}
	if rows == nil {
		rows = []PopularCategoryDTO{}
	}
	return rows, nil
}

// Update applies set semantics: matched is 1 when the product exists, modified
// is 1 only when some provided field differs from what is stored.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductRequest) (types.UpdateResult, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.Updated(0, 0), nil
		}
		return types.UpdateResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to update product")
	}
	if input.Price != nil && input.Price.IsNegative() {
		return types.UpdateResult{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	updates := input.changes(current)
	if len(updates) == 0 {
		return types.Updated(1, 0), nil
	}
	modified, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return types.UpdateResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to update product")
	}
	return types.Updated(1, modified), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) (DeleteResult, error) {
	if _, err := s.load(ctx, id, "Failed to delete product"); err != nil {
		return DeleteResult{}, err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return DeleteResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to delete product")
	}
	return DeleteResult{Success: true, DeletedCount: deleted}, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID, failure string) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, failure)
	}
	return product, nil
}
