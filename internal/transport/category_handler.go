package transport

import (
	"net/http"

	"bookmart/internal/domain"
	"bookmart/internal/middleware"
	"bookmart/internal/repository"
	"bookmart/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateCategoryRequest represents the create/update category payload
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID.String(),
		Name:        category.Name,
		Description: category.Description,
	}
}

// CategoryHandler handles HTTP requests for category operations
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// RegisterRoutes registers all category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router, authMiddleware, staffMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/", h.List)
			r.Get("/{categoryID}", h.GetByID)
			r.Get("/{categoryID}/books", h.GetBooks)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(staffMiddleware)
			r.Post("/", h.Create)
			r.Put("/{categoryID}", h.Update)
			r.Delete("/{categoryID}", h.Delete)
		})
	})
}

// Create handles category creation
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.categoryService.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		if err == repository.ErrCategoryAlreadyExists {
			middleware.RespondWithError(w, http.StatusConflict, "category with this name already exists")
			return
		}
		h.logger.Error("Failed to create category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, toCategoryResponse(category))
}

// Update handles renaming a category
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := parseIDParam(w, r, "categoryID")
	if !ok {
		return
	}

	var req CreateCategoryRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.categoryService.Update(r.Context(), categoryID, req.Name, req.Description)
	if err != nil {
		switch err {
		case repository.ErrCategoryNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
		case repository.ErrCategoryAlreadyExists:
			middleware.RespondWithError(w, http.StatusConflict, "category with this name already exists")
		default:
			h.logger.Error("Failed to update category", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update category")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toCategoryResponse(category))
}

// Delete handles soft-deleting a category
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := parseIDParam(w, r, "categoryID")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(r.Context(), categoryID); err != nil {
		if err == repository.ErrCategoryNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Failed to delete category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetByID handles fetching a single category
func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := parseIDParam(w, r, "categoryID")
	if !ok {
		return
	}

	category, err := h.categoryService.GetByID(r.Context(), categoryID)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Failed to get category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toCategoryResponse(category))
}

// List handles listing all categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	responses := []CategoryResponse{}
	for _, category := range categories {
		responses = append(responses, toCategoryResponse(category))
	}

	middleware.RespondWithJSON(w, http.StatusOK, responses)
}

// GetBooks handles listing the books in a category
func (h *CategoryHandler) GetBooks(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := parseIDParam(w, r, "categoryID")
	if !ok {
		return
	}

	page, pageSize := parsePagination(r)

	books, total, err := h.categoryService.GetBooks(r.Context(), categoryID, page, pageSize)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Failed to list category books", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list category books")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, PagedResponse{
		Items:    toBookResponses(books),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}
