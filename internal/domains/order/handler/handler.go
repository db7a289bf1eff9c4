package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	bookmodel "bookstore-backoffice/internal/domains/book/model"
	clientmodel "bookstore-backoffice/internal/domains/client/model"
	"bookstore-backoffice/internal/domains/order/model"
	"bookstore-backoffice/internal/domains/order/service"
	shopmodel "bookstore-backoffice/internal/domains/shop/model"
	usermodel "bookstore-backoffice/internal/domains/user/model"
	"bookstore-backoffice/internal/shared/response"
	"bookstore-backoffice/pkg/logger"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// CreateOrder handles POST /api/v1/orders
func (h *Handler) CreateOrder(c *gin.Context) {
	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", err.Error())
		return
	}

	order, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, order)
}

// GetOrder handles GET /api/v1/orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

// UpdateOrder handles PUT /api/v1/orders/:id
func (h *Handler) UpdateOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req model.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", err.Error())
		return
	}

	order, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

// DeleteOrder handles DELETE /api/v1/orders/:id
func (h *Handler) DeleteOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.service.DeleteHard(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Order deleted"})
}

// CancelOrder handles PATCH /api/v1/orders/:id/cancel
func (h *Handler) CancelOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.service.DeleteLogical(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Order cancelled"})
}

// ListOrders handles GET /api/v1/orders
func (h *Handler) ListOrders(c *gin.Context) {
	page, limit := paging(c)

	orders, total, err := h.service.ListAll(c.Request.Context(), page, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, orders, &response.Meta{Page: page, Limit: limit, Total: total})
}

// ListOrdersByUser handles GET /api/v1/users/:id/orders
func (h *Handler) ListOrdersByUser(c *gin.Context) {
	h.listByParty(c, h.service.ListByUser, "Invalid user ID")
}

// ListOrdersByClient handles GET /api/v1/clients/:id/orders
func (h *Handler) ListOrdersByClient(c *gin.Context) {
	h.listByParty(c, h.service.ListByClient, "Invalid client ID")
}

// ListOrdersByShop handles GET /api/v1/shops/:id/orders
func (h *Handler) ListOrdersByShop(c *gin.Context) {
	h.listByParty(c, h.service.ListByShop, "Invalid shop ID")
}

type listFunc func(ctx context.Context, id uuid.UUID, page, limit int) ([]model.Order, int, error)

func (h *Handler) listByParty(c *gin.Context, list listFunc, badIDMsg string) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, badIDMsg)
		return
	}

	page, limit := paging(c)

	orders, total, err := list(c.Request.Context(), id, page, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, orders, &response.Meta{Page: page, Limit: limit, Total: total})
}

func paging(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}

func (h *Handler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY", "Validation failed", validationErrs)
		return
	}

	var insufficientStock *bookmodel.InsufficientStockError
	if errors.As(err, &insufficientStock) {
		response.ErrorWithDetails(c, http.StatusConflict, "INSUFFICIENT_STOCK", "Insufficient stock", gin.H{
			"book_id":   insufficientStock.BookID,
			"requested": insufficientStock.Requested,
			"available": insufficientStock.Available,
		})
		return
	}

	var badPrice *model.BadPriceError
	if errors.As(err, &badPrice) {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "BAD_PRICE", "Unit price does not match catalog price", gin.H{
			"book_id":   badPrice.BookID,
			"requested": badPrice.Requested,
			"current":   badPrice.Current,
		})
		return
	}

	switch {
	case errors.Is(err, model.ErrOrderNotFound):
		response.NotFound(c, "Order not found")
	case errors.Is(err, bookmodel.ErrBookNotFound):
		response.NotFound(c, "Book not found")
	case errors.Is(err, usermodel.ErrUserNotFound):
		response.NotFound(c, "User not found")
	case errors.Is(err, clientmodel.ErrClientNotFound):
		response.NotFound(c, "Client not found")
	case errors.Is(err, shopmodel.ErrShopNotFound):
		response.NotFound(c, "Shop not found")
	case errors.Is(err, model.ErrOrderHasNoItems):
		response.UnprocessableEntity(c, "Order has no items")
	default:
		logger.Error("Order request failed", err)
		response.InternalServerError(c, "Internal server error")
	}
}
