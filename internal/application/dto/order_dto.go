package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest one cart line. Prices are never taken from the client.
type OrderItemRequest struct {
	ID       string `json:"id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

// CreateOrderRequest checkout payload.
type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	CustomerName  string             `json:"customerName" validate:"required,max=200"`
	CustomerEmail string             `json:"customerEmail" validate:"required,email"`
	CustomerPhone string             `json:"customerPhone" validate:"omitempty,max=30"`
	PickupNotes   string             `json:"pickupNotes" validate:"omitempty,max=1000"`
}

// CreateOrderResponse checkout result.
type CreateOrderResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}

// UpdateOrderStatusRequest admin status change.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderItemResponse one order line.
type OrderItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// OrderResponse an order with its lines.
type OrderResponse struct {
	ID            string              `json:"id"`
	UserID        string              `json:"userId"`
	Status        string              `json:"status"`
	Total         decimal.Decimal     `json:"total"`
	CustomerName  string              `json:"customerName"`
	CustomerEmail string              `json:"customerEmail"`
	CustomerPhone string              `json:"customerPhone,omitempty"`
	PickupNotes   string              `json:"pickupNotes,omitempty"`
	Items         []OrderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}
