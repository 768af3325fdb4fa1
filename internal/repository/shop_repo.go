package repository

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"dataplug/internal/models"

	"gorm.io/gorm"
)

type ShopRepository struct {
	db *gorm.DB
}

func NewShopRepository(db *gorm.DB) *ShopRepository {
	return &ShopRepository{db: db}
}

// generateSlug returns an 8-character lowercase hex shop slug.
func generateSlug() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Create persists a shop with a generated unique slug, retrying on collision.
func (r *ShopRepository) Create(agentID uint, name string) (*models.Shop, error) {
	for i := 0; i < 10; i++ {
		slug, err := generateSlug()
		if err != nil {
			return nil, err
		}
		shop := models.Shop{AgentID: agentID, Name: name, Slug: slug, IsActive: true}
		if err := r.db.Create(&shop).Error; err == nil {
			return &shop, nil
		}
		// Collision: retry with new slug
	}
	return nil, fmt.Errorf("failed to generate a unique shop slug after retries")
}

func (r *ShopRepository) GetByAgentID(agentID uint) (*models.Shop, error) {
	var s models.Shop
	if err := r.db.Where("agent_id = ?", agentID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ShopRepository) GetBySlug(slug string) (*models.Shop, error) {
	var s models.Shop
	err := r.db.Where("slug = ? AND is_active = ?", slug, true).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpsertPrice sets or updates the sale price of one product in a shop.
func (r *ShopRepository) UpsertPrice(shopID, productID uint, sp *models.ShopProduct) error {
	var existing models.ShopProduct
	err := r.db.Where("shop_id = ? AND product_id = ?", shopID, productID).First(&existing).Error
	if err == nil {
		existing.SalePrice = sp.SalePrice
		return r.db.Save(&existing).Error
	}
	sp.ShopID = shopID
	sp.ProductID = productID
	return r.db.Create(sp).Error
}

func (r *ShopRepository) GetPrice(shopID, productID uint) (*models.ShopProduct, error) {
	var sp models.ShopProduct
	err := r.db.Where("shop_id = ? AND product_id = ?", shopID, productID).First(&sp).Error
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

// ListPrices returns a shop's priced products with the catalog product preloaded.
func (r *ShopRepository) ListPrices(shopID uint) ([]models.ShopProduct, error) {
	var list []models.ShopProduct
	err := r.db.Where("shop_id = ?", shopID).
		Preload("Product").
		Find(&list).Error
	return list, err
}
