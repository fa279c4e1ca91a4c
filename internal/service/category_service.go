package service

import (
	"context"
	"time"

	"bookmart/internal/domain"
	"bookmart/internal/repository"

	"github.com/google/uuid"
)

// CategoryService defines the interface for category business logic
type CategoryService interface {
	Create(ctx context.Context, name, description string) (*domain.Category, error)
	Update(ctx context.Context, id uuid.UUID, name, description string) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	GetBooks(ctx context.Context, id uuid.UUID, page, pageSize int) ([]*domain.Book, int, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	bookRepo     repository.BookRepository
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository, bookRepo repository.BookRepository) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		bookRepo:     bookRepo,
	}
}

// Create adds a new category with a unique name
func (s *categoryService) Create(ctx context.Context, name, description string) (*domain.Category, error) {
	category := &domain.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// Update renames a category
func (s *categoryService) Update(ctx context.Context, id uuid.UUID, name, description string) (*domain.Category, error) {
	category := &domain.Category{
		ID:          id,
		Name:        name,
		Description: description,
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// Delete soft-deletes a category. Books keep their link rows; reads through
// the category simply stop resolving.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}

// GetByID retrieves a category by ID
func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

// List retrieves all categories
func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// GetBooks retrieves the books linked to a category
func (s *categoryService) GetBooks(ctx context.Context, id uuid.UUID, page, pageSize int) ([]*domain.Book, int, error) {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return nil, 0, err
	}
	return s.bookRepo.ListByCategory(ctx, id, page, pageSize)
}
