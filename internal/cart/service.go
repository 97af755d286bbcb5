package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/plantnet-backend/pkg/auth"
	"github.com/angelmondragon/plantnet-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/plantnet-backend/pkg/errors"
	"github.com/angelmondragon/plantnet-backend/pkg/types"
)

type cartRepository interface {
	Create(ctx context.Context, item *models.CartItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CartItem, error)
	ListByEmail(ctx context.Context, email string) ([]models.CartItem, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, qty int) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	CartRepo    cartRepository
	ProductRepo productFinder
}

// Service exposes cart rules. Every call is scoped to the caller's identity.
type Service interface {
	AddItem(ctx context.Context, identity auth.Identity, input AddItemRequest) (types.InsertResult, error)
	ListByEmail(ctx context.Context, identity auth.Identity, email string) ([]CartItemDTO, error)
	UpdateQuantity(ctx context.Context, identity auth.Identity, id uuid.UUID, qty int) (types.UpdateResult, error)
	DeleteItem(ctx context.Context, identity auth.Identity, id uuid.UUID) (types.DeleteResult, error)
}

type service struct {
	cartRepo    cartRepository
	productRepo productFinder
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{cartRepo: params.CartRepo, productRepo: params.ProductRepo}, nil
}

// AddItem validates quantity against current stock and stores a snapshot of the product.
func (s *service) AddItem(ctx context.Context, identity auth.Identity, input AddItemRequest) (types.InsertResult, error) {
	email := strings.TrimSpace(input.UserEmail)
	if email == "" {
		return types.InsertResult{}, pkgerrors.New(pkgerrors.CodeValidation, "User email missing")
	}
	if !identity.IsOwner(email) {
		return types.InsertResult{}, forbidden()
	}

	product, err := s.loadProduct(ctx, input.ProductID, "Failed to add to cart")
	if err != nil {
		return types.InsertResult{}, err
	}
	if err := checkQuantity(input.CartQuantity, product); err != nil {
		return types.InsertResult{}, err
	}

	item := &models.CartItem{
		UserEmail:    email,
		ProductID:    product.ID,
		CartQuantity: input.CartQuantity,
		Name:         product.Name,
		Category:     product.Category,
		Image:        product.Image,
		Price:        product.Price,
	}
	if err := s.cartRepo.Create(ctx, item); err != nil {
		return types.InsertResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to add to cart")
	}
	return types.Inserted(item.ID), nil
}

func (s *service) ListByEmail(ctx context.Context, identity auth.Identity, email string) ([]CartItemDTO, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Email required")
	}
	if !identity.IsOwner(email) {
		return nil, forbidden()
	}

	rows, err := s.cartRepo.ListByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to get cart")
	}
	out := make([]CartItemDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

// UpdateQuantity rewrites cartQuantity only, after re-checking stock.
func (s *service) UpdateQuantity(ctx context.Context, identity auth.Identity, id uuid.UUID, qty int) (types.UpdateResult, error) {
	if qty < 1 {
		return types.UpdateResult{}, pkgerrors.New(pkgerrors.CodeValidation, "Invalid quantity")
	}

	item, err := s.cartRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.UpdateResult{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Cart item not found")
		}
		return types.UpdateResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to update quantity")
	}
	if !identity.IsOwner(item.UserEmail) {
		return types.UpdateResult{}, forbidden()
	}

	product, err := s.loadProduct(ctx, item.ProductID, "Failed to update quantity")
	if err != nil {
		return types.UpdateResult{}, err
	}
	if qty > product.Quantity {
		return types.UpdateResult{}, pkgerrors.New(pkgerrors.CodeValidation, "Stock limit exceeded")
	}

	if qty == item.CartQuantity {
		return types.Updated(1, 0), nil
	}
	modified, err := s.cartRepo.UpdateQuantity(ctx, id, qty)
	if err != nil {
		return types.UpdateResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to update quantity")
	}
	return types.Updated(1, modified), nil
}

func (s *service) DeleteItem(ctx context.Context, identity auth.Identity, id uuid.UUID) (types.DeleteResult, error) {
	item, err := s.cartRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.DeleteResult{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Item not found")
		}
		return types.DeleteResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to delete item")
	}
	if !identity.IsOwner(item.UserEmail) {
		return types.DeleteResult{}, forbidden()
	}

	deleted, err := s.cartRepo.Delete(ctx, id)
	if err != nil {
		return types.DeleteResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to delete item")
	}
	if deleted == 0 {
		return types.DeleteResult{}, pkgerrors.New(pkgerrors.CodeNotFound, "Item not found")
	}
	return types.Deleted(deleted), nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID, failure string) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, failure)
	}
	return product, nil
}

func checkQuantity(qty int, product *models.Product) error {
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Invalid quantity")
	}
	if qty > product.Quantity {
		return pkgerrors.New(pkgerrors.CodeValidation, "Stock limit exceeded")
	}
	return nil
}

func forbidden() error {
	return pkgerrors.New(pkgerrors.CodeForbidden, "Forbidden access")
}
