package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShoppingCart is the single cart owned by a user. Line items are owned by
// the cart; at most one line item exists per (cart, book) pair.
type ShoppingCart struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CartItem is one (book, quantity) line inside a shopping cart. BookTitle and
// BookPrice are read through the book join and are not stored on the row.
type CartItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	CartID    uuid.UUID       `json:"cart_id" db:"cart_id"`
	BookID    uuid.UUID       `json:"book_id" db:"book_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	BookTitle string          `json:"book_title" db:"-"`
	BookPrice decimal.Decimal `json:"book_price" db:"-"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}
