package service

import (
	"context"
	"testing"
	"time"

	"bookmart/internal/domain"
	"bookmart/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

type cartFixture struct {
	cartRepo *mockCartRepository
	bookRepo *mockBookRepository
	service  CartService
	userID   uuid.UUID
	cartID   uuid.UUID
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()

	cartRepo := newMockCartRepository()
	bookRepo := newMockBookRepository()

	userID := uuid.New()
	cart := &domain.ShoppingCart{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := cartRepo.Create(context.Background(), cart); err != nil {
		t.Fatalf("Failed to create cart: %v", err)
	}

	return &cartFixture{
		cartRepo: cartRepo,
		bookRepo: bookRepo,
		service:  NewCartService(cartRepo, bookRepo),
		userID:   userID,
		cartID:   cart.ID,
	}
}

func (f *cartFixture) addBook(t *testing.T, title, price string) *domain.Book {
	t.Helper()

	book := &domain.Book{
		ID:     uuid.New(),
		Title:  title,
		Author: "Test Author",
		ISBN:   uuid.NewString(),
		Price:  decimal.RequireFromString(price),
	}
	if err := f.bookRepo.Create(context.Background(), book); err != nil {
		t.Fatalf("Failed to create book: %v", err)
	}
	return book
}

func TestAddItemSnapshotsBookDetails(t *testing.T) {
	f := newCartFixture(t)
	book := f.addBook(t, "The Go Programming Language", "39.99")

	item, err := f.service.AddItem(context.Background(), f.userID, book.ID, 2)
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	if item.BookTitle != book.Title {
		t.Errorf("Item title = %q, want %q", item.BookTitle, book.Title)
	}
	if !item.BookPrice.Equal(book.Price) {
		t.Errorf("Item price = %s, want %s", item.BookPrice, book.Price)
	}
	if item.Quantity != 2 {
		t.Errorf("Item quantity = %d, want 2", item.Quantity)
	}
}

func TestAddItemUnknownBook(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.service.AddItem(context.Background(), f.userID, uuid.New(), 1)
	if err != repository.ErrBookNotFound {
		t.Errorf("Expected ErrBookNotFound, got: %v", err)
	}
}

func TestAddItemUnknownUser(t *testing.T) {
	f := newCartFixture(t)
	book := f.addBook(t, "Orphaned", "5.00")

	_, err := f.service.AddItem(context.Background(), uuid.New(), book.ID, 1)
	if err != repository.ErrCartNotFound {
		t.Errorf("Expected ErrCartNotFound, got: %v", err)
	}
}

func TestProperty_AddingSameBookKeepsOneLine(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("repeated adds of one book leave one line with the last quantity", prop.ForAll(
		func(quantities []int) bool {
			if len(quantities) == 0 {
				return true
			}

			f := newCartFixture(t)
			book := f.addBook(t, "Repeated", "10.00")
			ctx := context.Background()

			for _, qty := range quantities {
				if _, err := f.service.AddItem(ctx, f.userID, book.ID, qty); err != nil {
					t.Logf("FAIL: AddItem failed: %v", err)
					return false
				}
			}

			_, items, err := f.service.GetCart(ctx, f.userID)
			if err != nil {
				t.Logf("FAIL: GetCart failed: %v", err)
				return false
			}

			if len(items) != 1 {
				t.Logf("FAIL: Cart holds %d lines for one book", len(items))
				return false
			}

			// Last write wins
			want := quantities[len(quantities)-1]
			if items[0].Quantity != want {
				t.Logf("FAIL: Quantity = %d, want %d", items[0].Quantity, want)
				return false
			}

			return true
		},
		gen.SliceOf(gen.IntRange(1, 50)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestUpdateItemNotInCart(t *testing.T) {
	f := newCartFixture(t)

	err := f.service.UpdateItem(context.Background(), f.userID, uuid.New(), 3)
	if err != repository.ErrCartItemNotFound {
		t.Errorf("Expected ErrCartItemNotFound, got: %v", err)
	}
}

func TestUpdateItemOverwritesQuantity(t *testing.T) {
	f := newCartFixture(t)
	book := f.addBook(t, "Adjustable", "8.00")

	item, err := f.service.AddItem(context.Background(), f.userID, book.ID, 1)
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	if err := f.service.UpdateItem(context.Background(), f.userID, item.ID, 7); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}

	_, items, err := f.service.GetCart(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("GetCart failed: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 7 {
		t.Errorf("Expected one line with quantity 7, got %+v", items)
	}
}

func TestRemoveItem(t *testing.T) {
	f := newCartFixture(t)
	book := f.addBook(t, "Removable", "4.00")

	item, err := f.service.AddItem(context.Background(), f.userID, book.ID, 1)
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	if err := f.service.RemoveItem(context.Background(), f.userID, item.ID); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}

	_, items, err := f.service.GetCart(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("GetCart failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Cart still holds %d items after removal", len(items))
	}

	// A second removal reports not found
	if err := f.service.RemoveItem(context.Background(), f.userID, item.ID); err != repository.ErrCartItemNotFound {
		t.Errorf("Expected ErrCartItemNotFound, got: %v", err)
	}
}
