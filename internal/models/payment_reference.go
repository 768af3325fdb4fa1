package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentReference records a verified gateway reference so a recovery can
// never credit the same payment twice (unique index on Reference).
type PaymentReference struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	Reference string          `gorm:"size:128;uniqueIndex;not null" json:"reference"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Email     string          `gorm:"size:255" json:"email"`
	PaidAt    time.Time       `json:"paid_at"`
	CreatedAt time.Time       `json:"created_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (PaymentReference) TableName() string {
	return "payment_references"
}
