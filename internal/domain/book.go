package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Book represents a book in the catalog. A soft-deleted book keeps its row
// but carries a DeletedAt tombstone and is excluded from every read path.
type Book struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Author      string          `json:"author" db:"author"`
	ISBN        string          `json:"isbn" db:"isbn"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Description string          `json:"description" db:"description"`
	CoverImage  string          `json:"cover_image" db:"cover_image"`
	CategoryIDs []uuid.UUID     `json:"category_ids" db:"-"`
	DeletedAt   *time.Time      `json:"-" db:"deleted_at"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// Category represents a book category
type Category struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	DeletedAt   *time.Time `json:"-" db:"deleted_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}
