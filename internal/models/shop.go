package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Shop is an agent's public storefront. Each agent owns at most one shop.
type Shop struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	AgentID   uint           `gorm:"uniqueIndex;not null" json:"agent_id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Slug      string         `gorm:"uniqueIndex;size:40;not null" json:"slug"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Agent    User          `gorm:"foreignKey:AgentID" json:"-"`
	Products []ShopProduct `gorm:"foreignKey:ShopID" json:"products,omitempty"`
}

func (Shop) TableName() string { return "shops" }

// ShopProduct is an agent's markup price for a catalog product.
// SalePrice must never be below the product's base price.
type ShopProduct struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ShopID    uint            `gorm:"not null;index:idx_shop_product,unique" json:"shop_id"`
	ProductID uint            `gorm:"not null;index:idx_shop_product,unique" json:"product_id"`
	SalePrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"sale_price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`

	Shop    Shop    `gorm:"foreignKey:ShopID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (ShopProduct) TableName() string { return "shop_products" }
