package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookmart/internal/domain"
	"bookmart/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart      = errors.New("cannot create order: cart is empty")
	ErrItemNotInOrder = errors.New("order item does not belong to the specified order")
)

// OrderService defines the interface for order business logic
type OrderService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, shippingAddress string) (*domain.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*domain.Order, int, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
	ListOrderItems(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error)
	GetOrderItem(ctx context.Context, orderID, itemID uuid.UUID) (*domain.OrderItem, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	userRepo  repository.UserRepository
	now       func() time.Time
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	userRepo repository.UserRepository,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		userRepo:  userRepo,
		now:       time.Now,
	}
}

// PlaceOrder converts the user's cart into an order. The cart must exist and
// hold at least one item; both checks happen before any write. Unit prices
// are snapshotted from the books' current prices, and the order, its items,
// and the cart cleanup are persisted as one transaction.
func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, shippingAddress string) (*domain.Order, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	if shippingAddress == "" {
		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve shipping address: %w", err)
		}
		shippingAddress = user.ShippingAddress
	}

	order := &domain.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Status:          domain.OrderStatusPending,
		Total:           orderTotal(items),
		ShippingAddress: shippingAddress,
		OrderDate:       s.now(),
	}

	for _, item := range items {
		order.Items = append(order.Items, &domain.OrderItem{
			ID:       uuid.New(),
			OrderID:  order.ID,
			BookID:   item.BookID,
			Quantity: item.Quantity,
			Price:    item.BookPrice,
		})
	}

	if err := s.orderRepo.CreateFromCart(ctx, order, cart.ID); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	return order, nil
}

// ListOrders retrieves the user's order history
func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*domain.Order, int, error) {
	return s.orderRepo.ListByUserID(ctx, userID, page, pageSize)
}

// UpdateStatus overwrites an order's status. Any known status is accepted;
// no transition ordering is enforced.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}

	return s.orderRepo.FindByID(ctx, orderID)
}

// ListOrderItems retrieves the line items of an order
func (s *orderService) ListOrderItems(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error) {
	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.orderRepo.ListItems(ctx, orderID)
}

// GetOrderItem retrieves a single order item, checking it belongs to the
// given order
func (s *orderService) GetOrderItem(ctx context.Context, orderID, itemID uuid.UUID) (*domain.OrderItem, error) {
	item, err := s.orderRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.OrderID != orderID {
		return nil, ErrItemNotInOrder
	}

	return item, nil
}

// orderTotal sums price x quantity across the cart's line items using
// decimal arithmetic.
func orderTotal(items []*domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.BookPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
