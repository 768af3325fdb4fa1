package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog data bundle with the base (wholesale) price.
type Product struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Network   string          `gorm:"size:20;not null;index" json:"network"` // MTN | TELECEL | AIRTELTIGO
	Name      string          `gorm:"size:100;not null" json:"name"`
	VolumeMB  int             `gorm:"not null" json:"volume_mb"`
	BasePrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"base_price"`
	IsActive  bool            `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
