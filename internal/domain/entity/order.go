package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the pickup workflow state, changed manually by an admin.
type OrderStatus string

const (
	OrderPending        OrderStatus = "PENDING"
	OrderConfirmed      OrderStatus = "CONFIRMED"
	OrderPreparing      OrderStatus = "PREPARING"
	OrderReadyForPickup OrderStatus = "READY_FOR_PICKUP"
	OrderPickedUp       OrderStatus = "PICKED_UP"
	OrderCancelled      OrderStatus = "CANCELLED"
)

// Order is a pickup order placed by a signed-in user.
type Order struct {
	ID            string
	UserID        string
	Status        OrderStatus
	Total         decimal.Decimal
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	PickupNotes   string
	Items         []OrderItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem is one line of an order. Price is the unit price at checkout time.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string // filled on reads
	Quantity    int
	Price       decimal.Decimal
}

// Subtotal returns Price × Quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
