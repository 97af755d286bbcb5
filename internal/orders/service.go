package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/plantnet-backend/pkg/auth"
	"github.com/angelmondragon/plantnet-backend/pkg/db/models"
	"github.com/angelmondragon/plantnet-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/plantnet-backend/pkg/errors"
	"github.com/angelmondragon/plantnet-backend/pkg/logger"
	"github.com/angelmondragon/plantnet-backend/pkg/metrics"
)

const (
	msgOrderFailed    = "Order failed"
	msgOrderNotFound  = "Order not found"
	msgStatusUpdated  = "Order status updated successfully"
	msgOrderDeleted   = "Order deleted & stock restored"
	msgDeleteFailed   = "Failed to delete order"
	msgStatusFailed   = "Failed to update order status"
	msgOrdersFailed   = "Something went wrong"
	msgForbidden      = "Forbidden access"
	msgNotEnoughStock = "Not enough stock for %s"
)

type orderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByEmail(ctx context.Context, email string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, at time.Time) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// StockStore reads products and adjusts their stock one item at a time.
type StockStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	DecrementStock(ctx context.Context, id uuid.UUID, qty int, conditional bool) (int64, error)
	IncrementStock(ctx context.Context, id uuid.UUID, qty int) (int64, error)
}

// CartClearer empties a user's cart after a successful placement.
type CartClearer interface {
	DeleteByEmail(ctx context.Context, email string) (int64, error)
}

// ServiceParams groups dependencies for the order workflow.
type ServiceParams struct {
	OrderRepo orderRepository
	Stock     StockStore
	Carts     CartClearer
	Metrics   *metrics.OrderMetrics
	Logger    *logger.Logger
	// ConditionalStock makes every decrement a guarded update so concurrent
	// placements cannot drive stock negative.
	ConditionalStock bool
	Now              func() time.Time
}

// Service runs order placement, status transitions and deletion with stock restoration.
type Service interface {
	PlaceOrder(ctx context.Context, identity auth.Identity, input PlaceOrderRequest) (PlaceOrderResult, error)
	ListAll(ctx context.Context, identity auth.Identity) ([]OrderDTO, error)
	ListByEmail(ctx context.Context, identity auth.Identity, email string) ([]OrderDTO, error)
	UpdateStatus(ctx context.Context, identity auth.Identity, id uuid.UUID, status string) (UpdateStatusResult, error)
	DeleteOrder(ctx context.Context, identity auth.Identity, id uuid.UUID) (DeleteOrderResult, error)
}

type service struct {
	orders      orderRepository
	stock       StockStore
	carts       CartClearer
	metrics     *metrics.OrderMetrics
	logg        *logger.Logger
	conditional bool
	now         func() time.Time
}

// NewService builds the order workflow with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if params.Stock == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock store is required")
	}
	if params.Carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart store is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		orders:      params.OrderRepo,
		stock:       params.Stock,
		carts:       params.Carts,
		metrics:     params.Metrics,
		logg:        params.Logger,
		conditional: params.ConditionalStock,
		now:         now,
	}, nil
}

// PlaceOrder checks every item before writing, persists the order, then
// decrements stock per item and clears the cart. The steps after the check are
// not atomic; a failure part way leaves the earlier steps applied.
func (s *service) PlaceOrder(ctx context.Context, identity auth.Identity, input PlaceOrderRequest) (PlaceOrderResult, error) {
	if len(input.Items) == 0 {
		return PlaceOrderResult{}, pkgerrors.New(pkgerrors.CodeValidation, "No order items found")
	}

	products := make(map[uuid.UUID]*models.Product, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return PlaceOrderResult{}, pkgerrors.New(pkgerrors.CodeValidation, "Invalid quantity")
		}
		product, err := s.stock.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return PlaceOrderResult{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Product not found")
			}
			return PlaceOrderResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, msgOrderFailed)
		}
		if product.Quantity < item.Quantity {
			return PlaceOrderResult{}, notEnoughStock(product.Name)
		}
		products[product.ID] = product
	}

	now := s.now()
	order := &models.Order{
		UserEmail:      identity.Email,
		Items:          buildItems(input.Items, products),
		Status:         enums.OrderStatusPending,
		CustomerName:   strings.TrimSpace(input.CustomerName),
		Phone:          strings.TrimSpace(input.Phone),
		Address:        strings.TrimSpace(input.Address),
		PaymentMethod:  strings.TrimSpace(input.PaymentMethod),
		TotalPrice:     input.TotalPrice,
		OrderTime:      now,
		OrderTimestamp: now.UnixMilli(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return PlaceOrderResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, msgOrderFailed)
	}

	if err := s.decrementStock(ctx, order, products); err != nil {
		return PlaceOrderResult{}, err
	}

	if _, err := s.carts.DeleteByEmail(ctx, identity.Email); err != nil {
		s.logError(ctx, "orders.place.cart_clear_failed", order.ID, err)
		return PlaceOrderResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, msgOrderFailed)
	}

	s.metrics.IncPlaced()
	return PlaceOrderResult{Success: true, OrderID: order.ID}, nil
}

// decrementStock applies one decrement per item. When a guarded decrement
// finds the stock gone, the decrements already applied for this order are
// put back and the order row is removed.
func (s *service) decrementStock(ctx context.Context, order *models.Order, products map[uuid.UUID]*models.Product) error {
	applied := make([]models.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		affected, err := s.stock.DecrementStock(ctx, item.ProductID, item.Quantity, s.conditional)
		if err != nil {
			s.logError(ctx, "orders.place.decrement_failed", order.ID, err)
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msgOrderFailed)
		}
		if affected == 0 && s.conditional {
			s.metrics.IncStockConflict()
			if compErr := s.compensate(ctx, order.ID, applied); compErr != nil {
				s.logError(ctx, "orders.place.compensation_failed", order.ID, compErr)
				return pkgerrors.Wrap(pkgerrors.CodeInternal, compErr, msgOrderFailed)
			}
			return notEnoughStock(products[item.ProductID].Name)
		}
		applied = append(applied, item)
	}
	return nil
}

func (s *service) compensate(ctx context.Context, orderID uuid.UUID, applied []models.OrderItem) error {
	var errs error
	for _, item := range applied {
		if _, err := s.stock.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("restore %s: %w", item.ProductID, err))
		}
	}
	if _, err := s.orders.Delete(ctx, orderID); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("remove order: %w", err))
	}
	return errs
}

func (s *service) ListAll(ctx context.Context, identity auth.Identity) ([]OrderDTO, error) {
	if !identity.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, msgForbidden)
	}
	rows, err := s.orders.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, msgOrdersFailed)
	}
	return fromModels(rows), nil
}

// ListByEmail is open to the owner of email and to admins.
func (s *service) ListByEmail(ctx context.Context, identity auth.Identity, email string) ([]OrderDTO, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Email is required")
	}
	if !identity.IsOwner(email) && !identity.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, msgForbidden)
	}
	rows, err := s.orders.ListByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, msgOrdersFailed)
	}
	return fromModels(rows), nil
}

// UpdateStatus checks the caller's role before looking at the requested value.
func (s *service) UpdateStatus(ctx context.Context, identity auth.Identity, id uuid.UUID, raw string) (UpdateStatusResult, error) {
	if !identity.IsAdmin() {
		return UpdateStatusResult{}, pkgerrors.New(pkgerrors.CodeForbidden, msgForbidden)
	}
	status, err := enums.ParseOrderStatus(raw)
	if err != nil {
		return UpdateStatusResult{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid order status")
	}
	if _, err := s.findOrder(ctx, id, msgStatusFailed); err != nil {
		return UpdateStatusResult{}, err
	}

	modified, err := s.orders.UpdateStatus(ctx, id, status, s.now())
	if err != nil {
		return UpdateStatusResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, msgStatusFailed)
	}
	return UpdateStatusResult{Success: true, Message: msgStatusUpdated, ModifiedCount: modified}, nil
}

// DeleteOrder restores every item's stock before removing the order. If any
// restoration fails the order is kept so the deletion can be retried.
func (s *service) DeleteOrder(ctx context.Context, identity auth.Identity, id uuid.UUID) (DeleteOrderResult, error) {
	if !identity.IsAdmin() {
		return DeleteOrderResult{}, pkgerrors.New(pkgerrors.CodeForbidden, msgForbidden)
	}
	order, err := s.findOrder(ctx, id, msgDeleteFailed)
	if err != nil {
		return DeleteOrderResult{}, err
	}

	units := 0
	for _, item := range order.Items {
		if _, err := s.stock.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logError(ctx, "orders.delete.restore_failed", order.ID, err)
			return DeleteOrderResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, msgDeleteFailed)
		}
		units += item.Quantity
	}

	deleted, err := s.orders.Delete(ctx, id)
	if err != nil {
		return DeleteOrderResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, msgDeleteFailed)
	}

	s.metrics.ObserveDeleted(units)
	return DeleteOrderResult{Success: true, Message: msgOrderDeleted, DeletedCount: deleted}, nil
}

func (s *service) findOrder(ctx context.Context, id uuid.UUID, failure string) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msgOrderNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, failure)
	}
	return order, nil
}

func (s *service) logError(ctx context.Context, msg string, orderID uuid.UUID, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithOrderID(ctx, orderID.String())
	s.logg.Error(ctx, msg, err)
}

func buildItems(items []OrderItemRequest, products map[uuid.UUID]*models.Product) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		product := products[item.ProductID]
		line := models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Name:      strings.TrimSpace(item.Name),
			Price:     product.Price,
		}
		if line.Name == "" {
			line.Name = product.Name
		}
		if item.Price != nil {
			line.Price = *item.Price
		}
		out = append(out, line)
	}
	return out
}

func notEnoughStock(name string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf(msgNotEnoughStock, name))
}
