package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/plantnet-backend/internal/products"
	"github.com/angelmondragon/plantnet-backend/pkg/auth"
	"github.com/angelmondragon/plantnet-backend/pkg/db/dbtest"
	"github.com/angelmondragon/plantnet-backend/pkg/db/models"
	"github.com/angelmondragon/plantnet-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/plantnet-backend/pkg/errors"
)

var buyer = auth.Identity{Email: "buyer@example.com", Role: enums.UserRoleCustomer}

type fixture struct {
	conn    *gorm.DB
	svc     Service
	repo    *Repository
	product *models.Product
}

func newFixture(t *testing.T, stock int) fixture {
	t.Helper()
	conn := dbtest.Open(t)
	product := &models.Product{
		Name:     "Fern",
		Category: "Indoor",
		Image:    "fern.png",
		Price:    decimal.RequireFromString("12.00"),
		Quantity: stock,
	}
	require.NoError(t, conn.Create(product).Error)

	repo := NewRepository(conn)
	svc, err := NewService(ServiceParams{CartRepo: repo, ProductRepo: products.NewRepository(conn)})
	require.NoError(t, err)
	return fixture{conn: conn, svc: svc, repo: repo, product: product}
}

func requireCode(t *testing.T, err error, code pkgerrors.Code, message string) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
	assert.Equal(t, message, typed.Message())
}

func TestAddItemSnapshotsProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)

	res, err := f.svc.AddItem(ctx, buyer, AddItemRequest{UserEmail: buyer.Email, ProductID: f.product.ID, CartQuantity: 2})
	require.NoError(t, err)
	assert.True(t, res.Acknowledged)

	stored, err := f.repo.FindByID(ctx, res.InsertedID)
	require.NoError(t, err)
	assert.Equal(t, "Fern", stored.Name)
	assert.Equal(t, "fern.png", stored.Image)
	assert.True(t, stored.Price.Equal(f.product.Price))
	assert.Equal(t, 2, stored.CartQuantity)
}

func TestAddItemValidationOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)

	_, err := f.svc.AddItem(ctx, buyer, AddItemRequest{ProductID: f.product.ID, CartQuantity: 1})
	requireCode(t, err, pkgerrors.CodeValidation, "User email missing")

	_, err = f.svc.AddItem(ctx, buyer, AddItemRequest{UserEmail: "other@example.com", ProductID: f.product.ID, CartQuantity: 1})
	requireCode(t, err, pkgerrors.CodeForbidden, "Forbidden access")

	_, err = f.svc.AddItem(ctx, buyer, AddItemRequest{UserEmail: buyer.Email, ProductID: uuid.New(), CartQuantity: 0})
	requireCode(t, err, pkgerrors.CodeNotFound, "Product not found")

	_, err = f.svc.AddItem(ctx, buyer, AddItemRequest{UserEmail: buyer.Email, ProductID: f.product.ID})
	requireCode(t, err, pkgerrors.CodeValidation, "Invalid quantity")

	_, err = f.svc.AddItem(ctx, buyer, AddItemRequest{UserEmail: buyer.Email, ProductID: f.product.ID, CartQuantity: 6})
	requireCode(t, err, pkgerrors.CodeValidation, "Stock limit exceeded")

	rows, err := f.repo.ListByEmail(ctx, buyer.Email)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)
	res, err := f.svc.AddItem(ctx, buyer, AddItemRequest{UserEmail: buyer.Email, ProductID: f.product.ID, CartQuantity: 1})
	require.NoError(t, err)

	_, err = f.svc.UpdateQuantity(ctx, buyer, res.InsertedID, 0)
	requireCode(t, err, pkgerrors.CodeValidation, "Invalid quantity")

	_, err = f.svc.UpdateQuantity(ctx, buyer, uuid.New(), 2)
	requireCode(t, err, pkgerrors.CodeNotFound, "Cart item not found")

	intruder := auth.Identity{Email: "intruder@example.com"}
	_, err = f.svc.UpdateQuantity(ctx, intruder, res.InsertedID, 2)
	requireCode(t, err, pkgerrors.CodeForbidden, "Forbidden access")

	_, err = f.svc.UpdateQuantity(ctx, buyer, res.InsertedID, 9)
	requireCode(t, err, pkgerrors.CodeValidation, "Stock limit exceeded")

	updated, err := f.svc.UpdateQuantity(ctx, buyer, res.InsertedID, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.MatchedCount)
	assert.Equal(t, int64(1), updated.ModifiedCount)

	same, err := f.svc.UpdateQuantity(ctx, buyer, res.InsertedID, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(0), same.ModifiedCount)

	stored, err := f.repo.FindByID(ctx, res.InsertedID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.CartQuantity)
}

func TestUpdateQuantityProductRemoved(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)
	res, err := f.svc.AddItem(ctx, buyer, AddItemRequest{UserEmail: buyer.Email, ProductID: f.product.ID, CartQuantity: 1})
	require.NoError(t, err)
	require.NoError(t, f.conn.Delete(&models.Product{}, "id = ?", f.product.ID).Error)

	_, err = f.svc.UpdateQuantity(ctx, buyer, res.InsertedID, 2)
	requireCode(t, err, pkgerrors.CodeNotFound, "Product not found")
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)
	res, err := f.svc.AddItem(ctx, buyer, AddItemRequest{UserEmail: buyer.Email, ProductID: f.product.ID, CartQuantity: 1})
	require.NoError(t, err)

	_, err = f.svc.ListByEmail(ctx, buyer, "")
	requireCode(t, err, pkgerrors.CodeValidation, "Email required")

	_, err = f.svc.ListByEmail(ctx, buyer, "other@example.com")
	requireCode(t, err, pkgerrors.CodeForbidden, "Forbidden access")

	items, err := f.svc.ListByEmail(ctx, buyer, buyer.Email)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, f.product.ID, items[0].ProductID)

	_, err = f.svc.DeleteItem(ctx, auth.Identity{Email: "other@example.com"}, res.InsertedID)
	requireCode(t, err, pkgerrors.CodeForbidden, "Forbidden access")

	deleted, err := f.svc.DeleteItem(ctx, buyer, res.InsertedID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted.DeletedCount)

	_, err = f.svc.DeleteItem(ctx, buyer, res.InsertedID)
	requireCode(t, err, pkgerrors.CodeNotFound, "Item not found")
}
