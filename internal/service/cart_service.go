package service

import (
	"context"
	"fmt"
	"time"

	"bookmart/internal/domain"
	"bookmart/internal/repository"

	"github.com/google/uuid"
)

// CartService defines the interface for shopping cart business logic. The
// caller's user identity is an explicit parameter on every operation.
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*domain.ShoppingCart, []*domain.CartItem, error)
	AddItem(ctx context.Context, userID, bookID uuid.UUID, quantity int) (*domain.CartItem, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
}

type cartService struct {
	cartRepo repository.CartRepository
	bookRepo repository.BookRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(cartRepo repository.CartRepository, bookRepo repository.BookRepository) CartService {
	return &cartService{
		cartRepo: cartRepo,
		bookRepo: bookRepo,
	}
}

// GetCart retrieves the user's cart and its line items
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*domain.ShoppingCart, []*domain.CartItem, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, nil, err
	}

	return cart, items, nil
}

// AddItem puts a book into the user's cart. If the cart already has a line
// for the book, its quantity is overwritten with the requested quantity
// rather than added to it; the cart never holds two lines for one book.
func (s *cartService) AddItem(ctx context.Context, userID, bookID uuid.UUID, quantity int) (*domain.CartItem, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	book, err := s.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	item := &domain.CartItem{
		ID:        uuid.New(),
		CartID:    cart.ID,
		BookID:    book.ID,
		Quantity:  quantity,
		BookTitle: book.Title,
		BookPrice: book.Price,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.cartRepo.UpsertItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add item to cart: %w", err)
	}

	return item, nil
}

// UpdateItem overwrites the quantity of a line item. The item must belong to
// the caller's cart; anything else reports not found.
func (s *cartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}

	return s.cartRepo.UpdateItemQuantity(ctx, cart.ID, itemID, quantity)
}

// RemoveItem deletes a line item from the caller's cart
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}

	return s.cartRepo.DeleteItem(ctx, cart.ID, itemID)
}
