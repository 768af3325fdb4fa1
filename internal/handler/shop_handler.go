package handler

import (
	"errors"
	"net/http"
	"strconv"

	"dataplug/internal/middleware"
	"dataplug/internal/models"
	"dataplug/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ShopHandler struct {
	shopRepo    *repository.ShopRepository
	productRepo *repository.ProductRepository
}

func NewShopHandler(shopRepo *repository.ShopRepository, productRepo *repository.ProductRepository) *ShopHandler {
	return &ShopHandler{shopRepo: shopRepo, productRepo: productRepo}
}

// Create opens the agent's shop. One shop per agent.
func (h *ShopHandler) Create(c *gin.Context) {
	agentID := middleware.GetUserID(c)
	var req struct {
		Name string `json:"name" binding:"required,min=3,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.shopRepo.GetByAgentID(agentID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "shop already exists"})
		return
	}
	shop, err := h.shopRepo.Create(agentID, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create shop"})
		return
	}
	c.JSON(http.StatusCreated, shop)
}

// Mine returns the agent's shop with its priced products.
func (h *ShopHandler) Mine(c *gin.Context) {
	agentID := middleware.GetUserID(c)
	shop, err := h.shopRepo.GetByAgentID(agentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "shop not found"})
		return
	}
	prices, err := h.shopRepo.ListPrices(shop.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "shop error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"shop": shop, "products": prices})
}

// SetPrice sets the agent's sale price for one product. The sale price may
// not drop below the catalog base price.
func (h *ShopHandler) SetPrice(c *gin.Context) {
	agentID := middleware.GetUserID(c)
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	var req struct {
		SalePrice decimal.Decimal `json:"sale_price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	shop, err := h.shopRepo.GetByAgentID(agentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "create your shop first"})
		return
	}
	product, err := h.productRepo.GetByID(uint(productID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if req.SalePrice.LessThan(product.BasePrice) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sale price below base price"})
		return
	}
	sp := models.ShopProduct{SalePrice: req.SalePrice}
	if err := h.shopRepo.UpsertPrice(shop.ID, product.ID, &sp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set price"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product_id": product.ID,
		"sale_price": req.SalePrice,
		"markup":     req.SalePrice.Sub(product.BasePrice),
	})
}

// Storefront lists a shop's priced products by slug, public.
func (h *ShopHandler) Storefront(c *gin.Context) {
	shop, err := h.shopRepo.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "shop not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "shop error"})
		return
	}
	prices, err := h.shopRepo.ListPrices(shop.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "shop error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shop":     gin.H{"name": shop.Name, "slug": shop.Slug},
		"products": prices,
	})
}
