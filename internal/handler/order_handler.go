package handler

import (
	"errors"
	"net/http"
	"strconv"

	"dataplug/internal/middleware"
	"dataplug/internal/repository"
	"dataplug/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OrderHandler struct {
	orderSvc  *service.OrderService
	orderRepo *repository.OrderRepository
}

func NewOrderHandler(orderSvc *service.OrderService, orderRepo *repository.OrderRepository) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc, orderRepo: orderRepo}
}

// Create places an order, paid from the wallet. shop_slug attributes the
// sale (and its markup prices) to an agent's storefront.
func (h *OrderHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		ShopSlug string                   `json:"shop_slug"`
		Items    []service.OrderItemInput `json:"items" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.orderSvc.Create(userID, req.ShopSlug, req.Items)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientBalance):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient wallet balance"})
		case errors.Is(err, service.ErrEmptyOrder),
			errors.Is(err, service.ErrInvalidQuantity),
			errors.Is(err, service.ErrNoBeneficiary),
			errors.Is(err, service.ErrInactiveProduct):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "product or shop not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		}
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ListMine returns the caller's orders, newest first.
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	orders, err := h.orderRepo.ListByUser(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "order error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Get returns one of the caller's orders by code.
func (h *OrderHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	order, err := h.orderRepo.GetByCode(c.Param("code"))
	if err != nil || order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
