package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is created atomically with the wallet debit and is immutable
// afterwards except for status transitions.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Code        string          `gorm:"uniqueIndex;size:40;not null" json:"code"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	AgentID     *uint           `gorm:"index" json:"agent_id"` // selling agent; nil for direct catalog purchases
	Total       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total"`
	Status      string          `gorm:"size:20;not null;index" json:"status"` // PROCESSING, COMPLETED, FAILED, REFUNDED
	CompletedAt *time.Time      `json:"completed_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	User  User        `gorm:"foreignKey:UserID" json:"-"`
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (Order) TableName() string { return "orders" }

// OrderItem carries both the catalog base price and the agent's sale price
// at purchase time, so commission can be computed after catalog changes.
type OrderItem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"not null;index" json:"order_id"`
	ProductID     uint            `gorm:"not null;index" json:"product_id"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	UnitBasePrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_base_price"`
	UnitSalePrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_sale_price"`
	Beneficiary   string          `gorm:"size:20;not null" json:"beneficiary"` // phone number receiving the bundle
	CreatedAt     time.Time       `json:"created_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string { return "order_items" }
