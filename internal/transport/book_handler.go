package transport

import (
	"net/http"

	"bookmart/internal/domain"
	"bookmart/internal/middleware"
	"bookmart/internal/repository"
	"bookmart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateBookRequest represents the create/update book payload
type CreateBookRequest struct {
	Title       string   `json:"title" validate:"required"`
	Author      string   `json:"author" validate:"required"`
	ISBN        string   `json:"isbn" validate:"required,min=10,max=17"`
	Price       string   `json:"price" validate:"required"`
	Description string   `json:"description"`
	CoverImage  string   `json:"cover_image"`
	CategoryIDs []string `json:"category_ids" validate:"dive,uuid"`
}

// BookResponse represents a book in API responses
type BookResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	ISBN        string   `json:"isbn"`
	Price       string   `json:"price"`
	Description string   `json:"description"`
	CoverImage  string   `json:"cover_image"`
	CategoryIDs []string `json:"category_ids"`
}

func toBookResponse(book *domain.Book) BookResponse {
	categoryIDs := []string{}
	for _, id := range book.CategoryIDs {
		categoryIDs = append(categoryIDs, id.String())
	}

	return BookResponse{
		ID:          book.ID.String(),
		Title:       book.Title,
		Author:      book.Author,
		ISBN:        book.ISBN,
		Price:       book.Price.StringFixed(2),
		Description: book.Description,
		CoverImage:  book.CoverImage,
		CategoryIDs: categoryIDs,
	}
}

func toBookResponses(books []*domain.Book) []BookResponse {
	responses := []BookResponse{}
	for _, book := range books {
		responses = append(responses, toBookResponse(book))
	}
	return responses
}

// BookHandler handles HTTP requests for book operations
type BookHandler struct {
	bookService service.BookService
	logger      *zap.Logger
}

// NewBookHandler creates a new BookHandler
func NewBookHandler(bookService service.BookService, logger *zap.Logger) *BookHandler {
	return &BookHandler{
		bookService: bookService,
		logger:      logger,
	}
}

// RegisterRoutes registers all book routes. Write operations require staff
// roles.
func (h *BookHandler) RegisterRoutes(r chi.Router, authMiddleware, staffMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/books", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/", h.List)
			r.Get("/search", h.Search)
			r.Get("/{bookID}", h.GetByID)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(staffMiddleware)
			r.Post("/", h.Create)
			r.Put("/{bookID}", h.Update)
			r.Delete("/{bookID}", h.Delete)
		})
	})
}

func (h *BookHandler) decodeInput(w http.ResponseWriter, r *http.Request) (service.CreateBookInput, bool) {
	var req CreateBookRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Book validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return service.CreateBookInput{}, false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return service.CreateBookInput{}, false
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || !price.IsPositive() {
		middleware.RespondWithError(w, http.StatusBadRequest, "price must be a positive decimal")
		return service.CreateBookInput{}, false
	}

	categoryIDs := []uuid.UUID{}
	for _, raw := range req.CategoryIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
			return service.CreateBookInput{}, false
		}
		categoryIDs = append(categoryIDs, id)
	}

	return service.CreateBookInput{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Price:       price,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		CategoryIDs: categoryIDs,
	}, true
}

// Create handles book creation
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	book, err := h.bookService.Create(r.Context(), input)
	if err != nil {
		switch err {
		case repository.ErrDuplicateISBN:
			middleware.RespondWithError(w, http.StatusConflict, "book with this ISBN already exists")
		case repository.ErrCategoryNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
		default:
			h.logger.Error("Failed to create book", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create book")
		}
		return
	}

	h.logger.Info("Book created", zap.String("book_id", book.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, toBookResponse(book))
}

// Update handles book replacement
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	bookID, ok := parseIDParam(w, r, "bookID")
	if !ok {
		return
	}

	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	book, err := h.bookService.Update(r.Context(), bookID, input)
	if err != nil {
		switch err {
		case repository.ErrBookNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "book not found")
		case repository.ErrDuplicateISBN:
			middleware.RespondWithError(w, http.StatusConflict, "book with this ISBN already exists")
		case repository.ErrCategoryNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
		default:
			h.logger.Error("Failed to update book", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update book")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toBookResponse(book))
}

// Delete handles soft-deleting a book
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	bookID, ok := parseIDParam(w, r, "bookID")
	if !ok {
		return
	}

	if err := h.bookService.Delete(r.Context(), bookID); err != nil {
		if err == repository.ErrBookNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "book not found")
			return
		}
		h.logger.Error("Failed to delete book", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete book")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetByID handles fetching a single book
func (h *BookHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	bookID, ok := parseIDParam(w, r, "bookID")
	if !ok {
		return
	}

	book, err := h.bookService.GetByID(r.Context(), bookID)
	if err != nil {
		if err == repository.ErrBookNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "book not found")
			return
		}
		h.logger.Error("Failed to get book", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get book")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toBookResponse(book))
}

// List handles listing books with pagination and sorting
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	sortBy := r.URL.Query().Get("sort_by")
	sortOrder := repository.SortOrder(r.URL.Query().Get("sort_order"))

	books, total, err := h.bookService.List(r.Context(), page, pageSize, sortBy, sortOrder)
	if err != nil {
		h.logger.Error("Failed to list books", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list books")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, PagedResponse{
		Items:    toBookResponses(books),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// Search handles filtered book search. Absent parameters contribute no
// filter criterion.
func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	filter := repository.BookFilter{
		Author: r.URL.Query().Get("author"),
		Title:  r.URL.Query().Get("title"),
		ISBN:   r.URL.Query().Get("isbn"),
	}

	books, total, err := h.bookService.Search(r.Context(), filter, page, pageSize)
	if err != nil {
		h.logger.Error("Failed to search books", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to search books")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, PagedResponse{
		Items:    toBookResponses(books),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}
