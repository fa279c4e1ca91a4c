package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus enumerates the states an order can be in. Transitions are
// administrative overrides; no ordering between states is enforced.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is an immutable snapshot of a cart at checkout time. Total is
// computed once at creation and never recomputed.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          uuid.UUID       `json:"user_id" db:"user_id"`
	Status          OrderStatus     `json:"status" db:"status"`
	Total           decimal.Decimal `json:"total" db:"total"`
	ShippingAddress string          `json:"shipping_address" db:"shipping_address"`
	OrderDate       time.Time       `json:"order_date" db:"order_date"`
	Items           []*OrderItem    `json:"items,omitempty" db:"-"`
}

// OrderItem is one line of an order. Price is the book's price at the time
// the order was placed, decoupled from later price changes.
type OrderItem struct {
	ID       uuid.UUID       `json:"id" db:"id"`
	OrderID  uuid.UUID       `json:"order_id" db:"order_id"`
	BookID   uuid.UUID       `json:"book_id" db:"book_id"`
	Quantity int             `json:"quantity" db:"quantity"`
	Price    decimal.Decimal `json:"price" db:"price"`
}
