package wishlist

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/plantnet-backend/pkg/auth"
	"github.com/angelmondragon/plantnet-backend/pkg/db"
	"github.com/angelmondragon/plantnet-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/plantnet-backend/pkg/errors"
	"github.com/angelmondragon/plantnet-backend/pkg/types"
)

type wishlistRepository interface {
	Create(ctx context.Context, item *models.WishlistItem) error
	Exists(ctx context.Context, email string, productID uuid.UUID) (bool, error)
	ListByEmail(ctx context.Context, email string) ([]models.WishlistItem, error)
	Remove(ctx context.Context, email string, productID uuid.UUID) (int64, error)
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	WishlistRepo wishlistRepository
	ProductRepo  productFinder
}

// Service exposes business rules for wishlist management.
type Service interface {
	AddItem(ctx context.Context, identity auth.Identity, input AddItemRequest) (types.InsertResult, error)
	ListByEmail(ctx context.Context, identity auth.Identity, email string) ([]WishlistItemDTO, error)
	RemoveItem(ctx context.Context, identity auth.Identity, productID uuid.UUID, email string) (types.DeleteResult, error)
}

type service struct {
	wishlistRepo wishlistRepository
	productRepo  productFinder
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{wishlistRepo: params.WishlistRepo, productRepo: params.ProductRepo}, nil
}

// AddItem ensures the product exists and adds it once per user.
func (s *service) AddItem(ctx context.Context, identity auth.Identity, input AddItemRequest) (types.InsertResult, error) {
	email := strings.TrimSpace(input.UserEmail)
	if email == "" || input.ProductID == uuid.Nil {
		return types.InsertResult{}, pkgerrors.New(pkgerrors.CodeValidation, "Missing data")
	}
	if !identity.IsOwner(email) {
		return types.InsertResult{}, pkgerrors.New(pkgerrors.CodeForbidden, "Forbidden access")
	}

	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.InsertResult{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Product not found")
		}
		return types.InsertResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to add wishlist")
	}

	exists, err := s.wishlistRepo.Exists(ctx, email, product.ID)
	if err != nil {
		return types.InsertResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to add wishlist")
	}
	if exists {
		return types.InsertResult{}, alreadyListed(nil)
	}

	item := &models.WishlistItem{
		UserEmail: email,
		ProductID: product.ID,
		Name:      product.Name,
		Category:  product.Category,
		Image:     product.Image,
		Price:     product.Price,
	}
	if err := s.wishlistRepo.Create(ctx, item); err != nil {
		// A concurrent add can pass the pre-check; the unique index settles it.
		if db.IsUniqueViolation(err, UniqueConstraint) {
			return types.InsertResult{}, alreadyListed(err)
		}
		return types.InsertResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to add wishlist")
	}
	return types.Inserted(item.ID), nil
}

func (s *service) ListByEmail(ctx context.Context, identity auth.Identity, email string) ([]WishlistItemDTO, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Email is required")
	}
	if !identity.IsOwner(email) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Forbidden access")
	}

	rows, err := s.wishlistRepo.ListByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to get wishlist")
	}
	out := make([]WishlistItemDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) RemoveItem(ctx context.Context, identity auth.Identity, productID uuid.UUID, email string) (types.DeleteResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || productID == uuid.Nil {
		return types.DeleteResult{}, pkgerrors.New(pkgerrors.CodeValidation, "productId and email required")
	}
	if !identity.IsOwner(email) {
		return types.DeleteResult{}, pkgerrors.New(pkgerrors.CodeForbidden, "Forbidden access")
	}

	deleted, err := s.wishlistRepo.Remove(ctx, email, productID)
	if err != nil {
		return types.DeleteResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to delete item")
	}
	if deleted == 0 {
		return types.DeleteResult{}, pkgerrors.New(pkgerrors.CodeNotFound, "Item not found")
	}
	return types.Deleted(deleted), nil
}

func alreadyListed(cause error) error {
	return pkgerrors.Wrap(pkgerrors.CodeConflict, cause, "Already in wishlist")
}
