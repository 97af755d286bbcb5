package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/plantnet-backend/pkg/db/models"
	"github.com/angelmondragon/plantnet-backend/pkg/enums"
)

// OrderItemRequest is one ordered line. Name and price are optional; the
// stored product fills them when omitted.
type OrderItemRequest struct {
	ProductID uuid.UUID        `json:"productId"`
	Quantity  int              `json:"quantity"`
	Name      string           `json:"name"`
	Price     *decimal.Decimal `json:"price"`
}

// PlaceOrderRequest is the order body. The owner email always comes from the
// authenticated identity, never from the body.
type PlaceOrderRequest struct {
	Items         []OrderItemRequest `json:"items"`
	CustomerName  string             `json:"customerName"`
	Phone         string             `json:"phone"`
	Address       string             `json:"address"`
	PaymentMethod string             `json:"paymentMethod"`
	TotalPrice    decimal.Decimal    `json:"totalPrice"`
}

type OrderItemDTO struct {
	ProductID uuid.UUID       `json:"productId"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name,omitempty"`
	Price     decimal.Decimal `json:"price"`
}

// OrderDTO is a stored order as returned to clients.
type OrderDTO struct {
	ID              uuid.UUID         `json:"_id"`
	UserEmail       string            `json:"userEmail"`
	Items           []OrderItemDTO    `json:"items"`
	Status          enums.OrderStatus `json:"status"`
	CustomerName    string            `json:"customerName,omitempty"`
	Phone           string            `json:"phone,omitempty"`
	Address         string            `json:"address,omitempty"`
	PaymentMethod   string            `json:"paymentMethod,omitempty"`
	TotalPrice      decimal.Decimal   `json:"totalPrice"`
	OrderTime       time.Time         `json:"orderTime"`
	OrderTimestamp  int64             `json:"orderTimestamp"`
	StatusUpdatedAt *time.Time        `json:"statusUpdatedAt,omitempty"`
}

type PlaceOrderResult struct {
	Success bool      `json:"success"`
	OrderID uuid.UUID `json:"orderId"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type UpdateStatusResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ModifiedCount int64  `json:"modifiedCount"`
}

type DeleteOrderResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

func FromModel(o *models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Name:      item.Name,
			Price:     item.Price,
		})
	}
	return OrderDTO{
		ID:              o.ID,
		UserEmail:       o.UserEmail,
		Items:           items,
		Status:          o.Status,
		CustomerName:    o.CustomerName,
		Phone:           o.Phone,
		Address:         o.Address,
		PaymentMethod:   o.PaymentMethod,
		TotalPrice:      o.TotalPrice,
		OrderTime:       o.OrderTime,
		OrderTimestamp:  o.OrderTimestamp,
		StatusUpdatedAt: o.StatusUpdatedAt,
	}
}

func fromModels(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
