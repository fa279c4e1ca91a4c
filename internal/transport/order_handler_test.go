package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookmart/internal/domain"
	"bookmart/internal/middleware"
	"bookmart/internal/repository"
	"bookmart/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type mockOrderRepository struct {
	orders   map[uuid.UUID]*domain.Order
	items    map[uuid.UUID]*domain.OrderItem
	cartRepo *mockCartRepository
}

func newMockOrderRepository(cartRepo *mockCartRepository) *mockOrderRepository {
	return &mockOrderRepository{
		orders:   make(map[uuid.UUID]*domain.Order),
		items:    make(map[uuid.UUID]*domain.OrderItem),
		cartRepo: cartRepo,
	}
}

func (m *mockOrderRepository) CreateFromCart(ctx context.Context, order *domain.Order, cartID uuid.UUID) error {
	m.orders[order.ID] = order
	for _, item := range order.Items {
		m.items[item.ID] = item
	}
	m.cartRepo.items[cartID] = nil
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, exists := m.orders[id]
	if !exists {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (m *mockOrderRepository) ListByUserID(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*domain.Order, int, error) {
	var orders []*domain.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	return orders, len(orders), nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	order, exists := m.orders[id]
	if !exists {
		return repository.ErrOrderNotFound
	}
	order.Status = status
	return nil
}

func (m *mockOrderRepository) ListItems(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error) {
	var items []*domain.OrderItem
	for _, item := range m.items {
		if item.OrderID == orderID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (m *mockOrderRepository) FindItemByID(ctx context.Context, itemID uuid.UUID) (*domain.OrderItem, error) {
	item, exists := m.items[itemID]
	if !exists {
		return nil, repository.ErrOrderItemNotFound
	}
	return item, nil
}

// authedRequest attaches the user identity the auth middleware would have
// placed in the context.
func authedRequest(method, target string, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID.String())
	return req.WithContext(ctx)
}

type orderHandlerFixture struct {
	handler  *OrderHandler
	cartRepo *mockCartRepository
	userID   uuid.UUID
	cartID   uuid.UUID
}

func newOrderHandlerFixture(t *testing.T) *orderHandlerFixture {
	t.Helper()

	userRepo := newMockUserRepository()
	cartRepo := newMockCartRepository()
	orderRepo := newMockOrderRepository(cartRepo)

	userID := uuid.New()
	userRepo.users["buyer@example.com"] = &domain.User{
		ID:              userID,
		Email:           "buyer@example.com",
		ShippingAddress: "42 Book Lane",
		Role:            domain.RoleUser,
	}

	cart := &domain.ShoppingCart{ID: uuid.New(), UserID: userID, CreatedAt: time.Now()}
	if err := cartRepo.Create(context.Background(), cart); err != nil {
		t.Fatalf("Failed to create cart: %v", err)
	}

	orderService := service.NewOrderService(orderRepo, cartRepo, userRepo)
	return &orderHandlerFixture{
		handler:  NewOrderHandler(orderService, zap.NewNop()),
		cartRepo: cartRepo,
		userID:   userID,
		cartID:   cart.ID,
	}
}

func TestPlaceOrderEndpointEmptyCart(t *testing.T) {
	f := newOrderHandlerFixture(t)

	w := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/orders", f.userID)

	f.handler.PlaceOrder(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 for empty cart, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Could not decode error response: %v", err)
	}
	if _, exists := response["error"]; !exists {
		t.Error("Response missing 'error' field")
	}
}

func TestPlaceOrderEndpointReturnsOrder(t *testing.T) {
	f := newOrderHandlerFixture(t)

	for _, seed := range []struct {
		price string
		qty   int
	}{{"19.99", 2}, {"24.99", 1}} {
		item := &domain.CartItem{
			ID:        uuid.New(),
			CartID:    f.cartID,
			BookID:    uuid.New(),
			Quantity:  seed.qty,
			BookPrice: decimal.RequireFromString(seed.price),
		}
		if err := f.cartRepo.UpsertItem(context.Background(), item); err != nil {
			t.Fatalf("Failed to seed cart item: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/orders", f.userID)

	f.handler.PlaceOrder(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var response OrderResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Could not decode response: %v", err)
	}

	if response.Total != "64.97" {
		t.Errorf("Total = %s, want 64.97", response.Total)
	}
	if response.Status != string(domain.OrderStatusPending) {
		t.Errorf("Status = %s, want %s", response.Status, domain.OrderStatusPending)
	}
	// Falls back to the user's stored address when the body omits one
	if response.ShippingAddress != "42 Book Lane" {
		t.Errorf("ShippingAddress = %q, want %q", response.ShippingAddress, "42 Book Lane")
	}
	if len(response.Items) != 2 {
		t.Errorf("Order has %d items, want 2", len(response.Items))
	}
}

func TestPlaceOrderEndpointUnauthenticated(t *testing.T) {
	f := newOrderHandlerFixture(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)

	f.handler.PlaceOrder(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without identity, got %d", w.Code)
	}
}
