package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bookmart/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrCartNotFound     = errors.New("shopping cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartRepository defines the interface for shopping cart data access. Every
// cart belongs to exactly one user; every item mutation is scoped to a cart
// so an item outside the caller's cart behaves as not found.
type CartRepository interface {
	Create(ctx context.Context, cart *domain.ShoppingCart) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.ShoppingCart, error)
	ListItems(ctx context.Context, cartID uuid.UUID) ([]*domain.CartItem, error)
	UpsertItem(ctx context.Context, item *domain.CartItem) error
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

// Create inserts a new shopping cart for a user
func (r *cartRepository) Create(ctx context.Context, cart *domain.ShoppingCart) error {
	query := `
		INSERT INTO shopping_carts (id, user_id, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query, cart.ID, cart.UserID, cart.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create shopping cart: %w", err)
	}

	return nil
}

// FindByUserID retrieves the cart owned by the given user
func (r *cartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.ShoppingCart, error) {
	query := `
		SELECT id, user_id, created_at
		FROM shopping_carts
		WHERE user_id = $1
	`

	cart := &domain.ShoppingCart{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to find shopping cart: %w", err)
	}

	return cart, nil
}

// ListItems retrieves the cart's line items joined with the current book
// title and price. Items for soft-deleted books are excluded.
func (r *cartRepository) ListItems(ctx context.Context, cartID uuid.UUID) ([]*domain.CartItem, error) {
	query := `
		SELECT ci.id, ci.cart_id, ci.book_id, ci.quantity, b.title, b.price, ci.created_at, ci.updated_at
		FROM cart_items ci
		JOIN books b ON b.id = ci.book_id
		WHERE ci.cart_id = $1 AND b.deleted_at IS NULL
		ORDER BY ci.created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := []*domain.CartItem{}
	for rows.Next() {
		item := &domain.CartItem{}
		err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.BookID,
			&item.Quantity,
			&item.BookTitle,
			&item.BookPrice,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// UpsertItem inserts a line item, or overwrites the quantity of the existing
// line for the same (cart, book) pair. Last write wins.
func (r *cartRepository) UpsertItem(ctx context.Context, item *domain.CartItem) error {
	query := `
		INSERT INTO cart_items (id, cart_id, book_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (cart_id, book_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.CartID,
		item.BookID,
		item.Quantity,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}

	return nil
}

// UpdateItemQuantity overwrites the quantity of an item that belongs to the
// given cart
func (r *cartRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error {
	query := `
		UPDATE cart_items
		SET quantity = $3, updated_at = NOW()
		WHERE id = $2 AND cart_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, cartID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// DeleteItem removes an item that belongs to the given cart
func (r *cartRepository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE id = $2 AND cart_id = $1`

	result, err := r.db.ExecContext(ctx, query, cartID, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}
