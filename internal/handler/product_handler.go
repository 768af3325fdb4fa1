package handler

import (
	"net/http"
	"strconv"

	"dataplug/internal/models"
	"dataplug/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	productRepo *repository.ProductRepository
}

func NewProductHandler(productRepo *repository.ProductRepository) *ProductHandler {
	return &ProductHandler{productRepo: productRepo}
}

// List returns the active catalog, public.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productRepo.ListActive()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Create adds a catalog product. Admin only.
func (h *ProductHandler) Create(c *gin.Context) {
	var req struct {
		Network   string          `json:"network" binding:"required"`
		Name      string          `json:"name" binding:"required"`
		VolumeMB  int             `json:"volume_mb" binding:"required,min=1"`
		BasePrice decimal.Decimal `json:"base_price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.BasePrice.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "base price must be positive"})
		return
	}
	p := models.Product{
		Network:   req.Network,
		Name:      req.Name,
		VolumeMB:  req.VolumeMB,
		BasePrice: req.BasePrice,
		IsActive:  true,
	}
	if err := h.productRepo.Create(&p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Update edits price/activation of a product. Admin only.
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	p, err := h.productRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	var req struct {
		Name      *string          `json:"name"`
		BasePrice *decimal.Decimal `json:"base_price"`
		IsActive  *bool            `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.BasePrice != nil {
		if !req.BasePrice.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "base price must be positive"})
			return
		}
		p.BasePrice = *req.BasePrice
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := h.productRepo.Update(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete removes a product from the catalog. Admin only.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	if err := h.productRepo.Delete(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
