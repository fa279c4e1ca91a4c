package transport

import (
	"net/http"

	"bookmart/internal/domain"
	"bookmart/internal/middleware"
	"bookmart/internal/repository"
	"bookmart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddCartItemRequest represents the add-to-cart payload
type AddCartItemRequest struct {
	BookID   string `json:"book_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// UpdateCartItemRequest represents the update-quantity payload
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// CartItemResponse represents a cart line item in API responses
type CartItemResponse struct {
	ID        string `json:"id"`
	BookID    string `json:"book_id"`
	BookTitle string `json:"book_title"`
	BookPrice string `json:"book_price"`
	Quantity  int    `json:"quantity"`
}

// CartResponse represents the cart with its line items
type CartResponse struct {
	ID    string             `json:"id"`
	Items []CartItemResponse `json:"items"`
}

func toCartItemResponse(item *domain.CartItem) CartItemResponse {
	return CartItemResponse{
		ID:        item.ID.String(),
		BookID:    item.BookID.String(),
		BookTitle: item.BookTitle,
		BookPrice: item.BookPrice.StringFixed(2),
		Quantity:  item.Quantity,
	}
}

// CartHandler handles HTTP requests for shopping cart operations
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers all cart routes. Every route requires
// authentication; the cart is always the caller's own.
func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.GetCart)
		r.Post("/items", h.AddItem)
		r.Put("/items/{itemID}", h.UpdateItem)
		r.Delete("/items/{itemID}", h.RemoveItem)
	})
}

// GetCart handles fetching the caller's cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	cart, items, err := h.cartService.GetCart(r.Context(), userID)
	if err != nil {
		if err == repository.ErrCartNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "shopping cart not found")
			return
		}
		h.logger.Error("Failed to get cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get cart")
		return
	}

	response := CartResponse{
		ID:    cart.ID.String(),
		Items: []CartItemResponse{},
	}
	for _, item := range items {
		response.Items = append(response.Items, toCartItemResponse(item))
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// AddItem handles putting a book into the caller's cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	var req AddCartItemRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	item, err := h.cartService.AddItem(r.Context(), userID, bookID, req.Quantity)
	if err != nil {
		switch err {
		case repository.ErrCartNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "shopping cart not found")
		case repository.ErrBookNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "book not found")
		default:
			h.logger.Error("Failed to add cart item", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add cart item")
		}
		return
	}

	h.logger.Info("Cart item added",
		zap.String("user_id", userID.String()),
		zap.String("book_id", bookID.String()),
		zap.Int("quantity", req.Quantity),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, toCartItemResponse(item))
}

// UpdateItem handles overwriting a line item's quantity
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	itemID, ok := parseIDParam(w, r, "itemID")
	if !ok {
		return
	}

	var req UpdateCartItemRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.cartService.UpdateItem(r.Context(), userID, itemID, req.Quantity); err != nil {
		switch err {
		case repository.ErrCartNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "shopping cart not found")
		case repository.ErrCartItemNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "cart item not found")
		default:
			h.logger.Error("Failed to update cart item", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart item")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "cart item updated"})
}

// RemoveItem handles deleting a line item from the caller's cart
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	itemID, ok := parseIDParam(w, r, "itemID")
	if !ok {
		return
	}

	if err := h.cartService.RemoveItem(r.Context(), userID, itemID); err != nil {
		switch err {
		case repository.ErrCartNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "shopping cart not found")
		case repository.ErrCartItemNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "cart item not found")
		default:
			h.logger.Error("Failed to remove cart item", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to remove cart item")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
