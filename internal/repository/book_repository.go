package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bookmart/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrBookNotFound  = errors.New("book not found")
	ErrDuplicateISBN = errors.New("book with this ISBN already exists")
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// BookRepository defines the interface for book data access. All reads
// exclude soft-deleted rows; Delete sets the tombstone rather than removing
// the row.
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	List(ctx context.Context, page, pageSize int, sortBy string, sortOrder SortOrder) ([]*domain.Book, int, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID, page, pageSize int) ([]*domain.Book, int, error)
	Search(ctx context.Context, filter BookFilter, page, pageSize int) ([]*domain.Book, int, error)
}

type bookRepository struct {
	db *sql.DB
}

// NewBookRepository creates a new instance of BookRepository
func NewBookRepository(db *sql.DB) BookRepository {
	return &bookRepository{db: db}
}

const bookColumns = "id, title, author, isbn, price, description, cover_image, created_at, updated_at"

func scanBook(row interface{ Scan(...interface{}) error }) (*domain.Book, error) {
	book := &domain.Book{}
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.ISBN,
		&book.Price,
		&book.Description,
		&book.CoverImage,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return book, nil
}

// Create inserts a new book and its category links
func (r *bookRepository) Create(ctx context.Context, book *domain.Book) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO books (id, title, author, isbn, price, description, cover_image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = tx.ExecContext(
		ctx,
		query,
		book.ID,
		book.Title,
		book.Author,
		book.ISBN,
		book.Price,
		book.Description,
		book.CoverImage,
		book.CreatedAt,
		book.UpdatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "books_isbn_key") {
			return ErrDuplicateISBN
		}
		return fmt.Errorf("failed to create book: %w", err)
	}

	if err := replaceBookCategories(ctx, tx, book.ID, book.CategoryIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// Update updates an existing book and rewrites its category links
func (r *bookRepository) Update(ctx context.Context, book *domain.Book) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE books
		SET title = $2, author = $3, isbn = $4, price = $5,
		    description = $6, cover_image = $7, updated_at = $8
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := tx.ExecContext(
		ctx,
		query,
		book.ID,
		book.Title,
		book.Author,
		book.ISBN,
		book.Price,
		book.Description,
		book.CoverImage,
		book.UpdatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "books_isbn_key") {
			return ErrDuplicateISBN
		}
		return fmt.Errorf("failed to update book: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrBookNotFound
	}

	if err := replaceBookCategories(ctx, tx, book.ID, book.CategoryIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete soft-deletes a book by setting its tombstone
func (r *bookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE books SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrBookNotFound
	}

	return nil
}

// FindByID retrieves a non-deleted book by ID, including its category IDs
func (r *bookRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM books
		WHERE id = $1 AND deleted_at IS NULL
	`, bookColumns)

	book, err := scanBook(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to find book by ID: %w", err)
	}

	categoryIDs, err := r.findCategoryIDs(ctx, book.ID)
	if err != nil {
		return nil, err
	}
	book.CategoryIDs = categoryIDs

	return book, nil
}

// List retrieves books with pagination and sorting
func (r *bookRepository) List(ctx context.Context, page, pageSize int, sortBy string, sortOrder SortOrder) ([]*domain.Book, int, error) {
	// Validate sort field to prevent SQL injection
	validSortFields := map[string]bool{
		"title":      true,
		"author":     true,
		"price":      true,
		"created_at": true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at" // Default sort field
	}

	if sortOrder != SortOrderAsc && sortOrder != SortOrderDesc {
		sortOrder = SortOrderDesc // Default sort order
	}

	countQuery := `SELECT COUNT(*) FROM books WHERE deleted_at IS NULL`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`
		SELECT %s
		FROM books
		WHERE deleted_at IS NULL
		ORDER BY %s %s
		LIMIT $1 OFFSET $2
	`, bookColumns, sortBy, sortOrder)

	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books, err := collectBooks(rows)
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

// ListByCategory retrieves non-deleted books linked to the given category
func (r *bookRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID, page, pageSize int) ([]*domain.Book, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM books b
		JOIN books_categories bc ON bc.book_id = b.id
		WHERE bc.category_id = $1 AND b.deleted_at IS NULL
	`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, categoryID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books by category: %w", err)
	}

	offset := (page - 1) * pageSize

	query := `
		SELECT b.id, b.title, b.author, b.isbn, b.price, b.description, b.cover_image, b.created_at, b.updated_at
		FROM books b
		JOIN books_categories bc ON bc.book_id = b.id
		WHERE bc.category_id = $1 AND b.deleted_at IS NULL
		ORDER BY b.title ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, categoryID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books by category: %w", err)
	}
	defer rows.Close()

	books, err := collectBooks(rows)
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

// Search retrieves books matching the filter with pagination. The zero
// filter matches all non-deleted books.
func (r *bookRepository) Search(ctx context.Context, filter BookFilter, page, pageSize int) ([]*domain.Book, int, error) {
	whereClause := "WHERE deleted_at IS NULL"
	predicate, args := filter.Predicate(1)
	if predicate != "" {
		whereClause += " AND " + predicate
	}
	argIndex := len(args) + 1

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM books %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`
		SELECT %s
		FROM books
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, bookColumns, whereClause, argIndex, argIndex+1)

	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search books: %w", err)
	}
	defer rows.Close()

	books, err := collectBooks(rows)
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

func collectBooks(rows *sql.Rows) ([]*domain.Book, error) {
	books := []*domain.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}

	return books, nil
}

func (r *bookRepository) findCategoryIDs(ctx context.Context, bookID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category_id FROM books_categories WHERE book_id = $1`, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to find book categories: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan category id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category ids: %w", err)
	}

	return ids, nil
}

func replaceBookCategories(ctx context.Context, tx *sql.Tx, bookID uuid.UUID, categoryIDs []uuid.UUID) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM books_categories WHERE book_id = $1`, bookID); err != nil {
		return fmt.Errorf("failed to clear book categories: %w", err)
	}

	for _, categoryID := range categoryIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO books_categories (book_id, category_id) VALUES ($1, $2)`,
			bookID, categoryID); err != nil {
			return fmt.Errorf("failed to link book category: %w", err)
		}
	}

	return nil
}
