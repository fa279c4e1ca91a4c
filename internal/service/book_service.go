package service

import (
	"context"
	"fmt"
	"time"

	"bookmart/internal/domain"
	"bookmart/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBookInput carries the fields needed to create or replace a book
type CreateBookInput struct {
	Title       string
	Author      string
	ISBN        string
	Price       decimal.Decimal
	Description string
	CoverImage  string
	CategoryIDs []uuid.UUID
}

// BookService defines the interface for book business logic
type BookService interface {
	Create(ctx context.Context, input CreateBookInput) (*domain.Book, error)
	Update(ctx context.Context, id uuid.UUID, input CreateBookInput) (*domain.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	List(ctx context.Context, page, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]*domain.Book, int, error)
	Search(ctx context.Context, filter repository.BookFilter, page, pageSize int) ([]*domain.Book, int, error)
}

type bookService struct {
	bookRepo     repository.BookRepository
	categoryRepo repository.CategoryRepository
}

// NewBookService creates a new instance of BookService
func NewBookService(bookRepo repository.BookRepository, categoryRepo repository.CategoryRepository) BookService {
	return &bookService{
		bookRepo:     bookRepo,
		categoryRepo: categoryRepo,
	}
}

// Create adds a new book to the catalog. Referenced categories must exist.
func (s *bookService) Create(ctx context.Context, input CreateBookInput) (*domain.Book, error) {
	if err := s.checkCategories(ctx, input.CategoryIDs); err != nil {
		return nil, err
	}

	book := &domain.Book{
		ID:          uuid.New(),
		Title:       input.Title,
		Author:      input.Author,
		ISBN:        input.ISBN,
		Price:       input.Price,
		Description: input.Description,
		CoverImage:  input.CoverImage,
		CategoryIDs: input.CategoryIDs,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		if err == repository.ErrDuplicateISBN {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return book, nil
}

// Update replaces a book's fields and category links
func (s *bookService) Update(ctx context.Context, id uuid.UUID, input CreateBookInput) (*domain.Book, error) {
	if err := s.checkCategories(ctx, input.CategoryIDs); err != nil {
		return nil, err
	}

	book := &domain.Book{
		ID:          id,
		Title:       input.Title,
		Author:      input.Author,
		ISBN:        input.ISBN,
		Price:       input.Price,
		Description: input.Description,
		CoverImage:  input.CoverImage,
		CategoryIDs: input.CategoryIDs,
		UpdatedAt:   time.Now(),
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		if err == repository.ErrBookNotFound || err == repository.ErrDuplicateISBN {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	return book, nil
}

// Delete soft-deletes a book
func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.bookRepo.Delete(ctx, id)
}

// GetByID retrieves a book by ID
func (s *bookService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	return s.bookRepo.FindByID(ctx, id)
}

// List retrieves books with pagination and sorting
func (s *bookService) List(ctx context.Context, page, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]*domain.Book, int, error) {
	return s.bookRepo.List(ctx, page, pageSize, sortBy, sortOrder)
}

// Search retrieves books matching the filter
func (s *bookService) Search(ctx context.Context, filter repository.BookFilter, page, pageSize int) ([]*domain.Book, int, error) {
	return s.bookRepo.Search(ctx, filter, page, pageSize)
}

func (s *bookService) checkCategories(ctx context.Context, categoryIDs []uuid.UUID) error {
	for _, categoryID := range categoryIDs {
		if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
			if err == repository.ErrCategoryNotFound {
				return err
			}
			return fmt.Errorf("failed to check category: %w", err)
		}
	}
	return nil
}
