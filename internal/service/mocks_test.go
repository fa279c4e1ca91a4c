package service

import (
	"context"
	"errors"

	"bookmart/internal/domain"
	"bookmart/internal/repository"

	"github.com/google/uuid"
)

// In-memory repository fakes shared by the service tests.

type mockUserRepository struct {
	users map[string]*domain.User

	// carts created alongside users land here, mirroring the joint insert
	cartRepo *mockCartRepository

	failCartWrite bool
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) CreateWithCart(ctx context.Context, user *domain.User, cart *domain.ShoppingCart) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	if m.failCartWrite {
		return errors.New("failed to create shopping cart")
	}
	m.users[user.Email] = user
	if m.cartRepo != nil {
		m.cartRepo.Create(ctx, cart)
	}
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{
		tokens: make(map[string]*domain.RefreshToken),
	}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

type mockCartRepository struct {
	carts map[uuid.UUID]*domain.ShoppingCart // keyed by user ID
	items map[uuid.UUID][]*domain.CartItem   // keyed by cart ID
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{
		carts: make(map[uuid.UUID]*domain.ShoppingCart),
		items: make(map[uuid.UUID][]*domain.CartItem),
	}
}

func (m *mockCartRepository) Create(ctx context.Context, cart *domain.ShoppingCart) error {
	m.carts[cart.UserID] = cart
	return nil
}

func (m *mockCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.ShoppingCart, error) {
	cart, exists := m.carts[userID]
	if !exists {
		return nil, repository.ErrCartNotFound
	}
	return cart, nil
}

func (m *mockCartRepository) ListItems(ctx context.Context, cartID uuid.UUID) ([]*domain.CartItem, error) {
	return m.items[cartID], nil
}

func (m *mockCartRepository) UpsertItem(ctx context.Context, item *domain.CartItem) error {
	for _, existing := range m.items[item.CartID] {
		if existing.BookID == item.BookID {
			existing.Quantity = item.Quantity
			existing.UpdatedAt = item.UpdatedAt
			return nil
		}
	}
	m.items[item.CartID] = append(m.items[item.CartID], item)
	return nil
}

func (m *mockCartRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error {
	for _, item := range m.items[cartID] {
		if item.ID == itemID {
			item.Quantity = quantity
			return nil
		}
	}
	return repository.ErrCartItemNotFound
}

func (m *mockCartRepository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	items := m.items[cartID]
	for i, item := range items {
		if item.ID == itemID {
			m.items[cartID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return repository.ErrCartItemNotFound
}

type mockBookRepository struct {
	books map[uuid.UUID]*domain.Book
}

func newMockBookRepository() *mockBookRepository {
	return &mockBookRepository{
		books: make(map[uuid.UUID]*domain.Book),
	}
}

func (m *mockBookRepository) Create(ctx context.Context, book *domain.Book) error {
	for _, existing := range m.books {
		if existing.ISBN == book.ISBN {
			return repository.ErrDuplicateISBN
		}
	}
	m.books[book.ID] = book
	return nil
}

func (m *mockBookRepository) Update(ctx context.Context, book *domain.Book) error {
	if _, exists := m.books[book.ID]; !exists {
		return repository.ErrBookNotFound
	}
	m.books[book.ID] = book
	return nil
}

func (m *mockBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.books[id]; !exists {
		return repository.ErrBookNotFound
	}
	delete(m.books, id)
	return nil
}

func (m *mockBookRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	book, exists := m.books[id]
	if !exists {
		return nil, repository.ErrBookNotFound
	}
	return book, nil
}

func (m *mockBookRepository) List(ctx context.Context, page, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]*domain.Book, int, error) {
	books := make([]*domain.Book, 0, len(m.books))
	for _, book := range m.books {
		books = append(books, book)
	}
	return books, len(books), nil
}

func (m *mockBookRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID, page, pageSize int) ([]*domain.Book, int, error) {
	var books []*domain.Book
	for _, book := range m.books {
		for _, id := range book.CategoryIDs {
			if id == categoryID {
				books = append(books, book)
				break
			}
		}
	}
	return books, len(books), nil
}

func (m *mockBookRepository) Search(ctx context.Context, filter repository.BookFilter, page, pageSize int) ([]*domain.Book, int, error) {
	var books []*domain.Book
	for _, book := range m.books {
		if filter.Author != "" && book.Author != filter.Author {
			continue
		}
		if filter.Title != "" && book.Title != filter.Title {
			continue
		}
		if filter.ISBN != "" && book.ISBN != filter.ISBN {
			continue
		}
		books = append(books, book)
	}
	return books, len(books), nil
}

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{
		categories: make(map[uuid.UUID]*domain.Category),
	}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	for _, existing := range m.categories {
		if existing.Name == category.Name {
			return repository.ErrCategoryAlreadyExists
		}
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if _, exists := m.categories[category.ID]; !exists {
		return repository.ErrCategoryNotFound
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.categories[id]; !exists {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	categories := make([]*domain.Category, 0, len(m.categories))
	for _, category := range m.categories {
		categories = append(categories, category)
	}
	return categories, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, exists := m.categories[id]
	if !exists {
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}

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
	// Mirrors the transactional cart cleanup
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
