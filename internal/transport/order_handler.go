package transport

import (
	"net/http"
	"time"

	"bookmart/internal/domain"
	"bookmart/internal/middleware"
	"bookmart/internal/repository"
	"bookmart/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PlaceOrderRequest represents the checkout payload. An empty shipping
// address falls back to the user's stored address.
type PlaceOrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
}

// UpdateOrderStatusRequest represents the admin status override payload
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING COMPLETED DELIVERED CANCELLED"`
}

// OrderItemResponse represents an order line item in API responses
type OrderItemResponse struct {
	ID       string `json:"id"`
	BookID   string `json:"book_id"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              string              `json:"id"`
	Status          string              `json:"status"`
	Total           string              `json:"total"`
	ShippingAddress string              `json:"shipping_address"`
	OrderDate       string              `json:"order_date"`
	Items           []OrderItemResponse `json:"items,omitempty"`
}

func toOrderItemResponse(item *domain.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:       item.ID.String(),
		BookID:   item.BookID.String(),
		Quantity: item.Quantity,
		Price:    item.Price.StringFixed(2),
	}
}

func toOrderResponse(order *domain.Order) OrderResponse {
	response := OrderResponse{
		ID:              order.ID.String(),
		Status:          string(order.Status),
		Total:           order.Total.StringFixed(2),
		ShippingAddress: order.ShippingAddress,
		OrderDate:       order.OrderDate.UTC().Format(time.RFC3339),
	}
	for _, item := range order.Items {
		response.Items = append(response.Items, toOrderItemResponse(item))
	}
	return response
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes. Status overrides are
// admin-only.
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.PlaceOrder)
			r.Get("/", h.ListOrders)
			r.Get("/{orderID}/items", h.ListOrderItems)
			r.Get("/{orderID}/items/{itemID}", h.GetOrderItem)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminMiddleware)
			r.Patch("/{orderID}/status", h.UpdateStatus)
		})
	})
}

// PlaceOrder handles converting the caller's cart into an order
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	// The body is optional; an absent body means no address override.
	var req PlaceOrderRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := middleware.DecodeAndValidate(r, &req); err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	order, err := h.orderService.PlaceOrder(r.Context(), userID, req.ShippingAddress)
	if err != nil {
		switch err {
		case repository.ErrCartNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "shopping cart not found")
		case service.ErrEmptyCart:
			middleware.RespondWithError(w, http.StatusUnprocessableEntity, "cannot create order: cart is empty")
		default:
			h.logger.Error("Failed to place order", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to place order")
		}
		return
	}

	h.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("total", order.Total.StringFixed(2)),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, toOrderResponse(order))
}

// ListOrders handles listing the caller's order history
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	page, pageSize := parsePagination(r)

	orders, total, err := h.orderService.ListOrders(r.Context(), userID, page, pageSize)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	responses := []OrderResponse{}
	for _, order := range orders {
		responses = append(responses, toOrderResponse(order))
	}

	middleware.RespondWithJSON(w, http.StatusOK, PagedResponse{
		Items:    responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// UpdateStatus handles the administrative status override
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(w, r, "orderID")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := domain.OrderStatus(req.Status)
	if !status.Valid() {
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown order status")
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), orderID, status)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to update order status", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update order status")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toOrderResponse(order))
}

// ListOrderItems handles listing the line items of an order
func (h *OrderHandler) ListOrderItems(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(w, r, "orderID")
	if !ok {
		return
	}

	items, err := h.orderService.ListOrderItems(r.Context(), orderID)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to list order items", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list order items")
		return
	}

	responses := []OrderItemResponse{}
	for _, item := range items {
		responses = append(responses, toOrderItemResponse(item))
	}

	middleware.RespondWithJSON(w, http.StatusOK, responses)
}

// GetOrderItem handles fetching one line item of an order
func (h *OrderHandler) GetOrderItem(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(w, r, "orderID")
	if !ok {
		return
	}

	itemID, ok := parseIDParam(w, r, "itemID")
	if !ok {
		return
	}

	item, err := h.orderService.GetOrderItem(r.Context(), orderID, itemID)
	if err != nil {
		switch err {
		case repository.ErrOrderItemNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "order item not found")
		case service.ErrItemNotInOrder:
			middleware.RespondWithError(w, http.StatusConflict, "order item does not belong to the specified order")
		default:
			h.logger.Error("Failed to get order item", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get order item")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toOrderItemResponse(item))
}
