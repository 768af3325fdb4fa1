package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Commission is the markup profit owed to an agent for one completed order.
// At most one commission exists per order (unique index on OrderID).
// It stays PENDING until AvailableAt passes, then AVAILABLE, then WITHDRAWN
// once consumed by a withdrawal. A rejected withdrawal returns it to
// AVAILABLE and clears WithdrawalID.
type Commission struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	AgentID      uint            `gorm:"not null;index" json:"agent_id"`
	OrderID      uint            `gorm:"uniqueIndex;not null" json:"order_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Status       string          `gorm:"size:20;not null;index" json:"status"` // PENDING, AVAILABLE, WITHDRAWN
	AvailableAt  time.Time       `gorm:"not null;index" json:"available_at"`
	WithdrawalID *uint           `gorm:"index" json:"withdrawal_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`

	Agent User  `gorm:"foreignKey:AgentID" json:"-"`
	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

func (Commission) TableName() string { return "commissions" }

// ReferralCommission is the referrer's cut of a source commission,
// computed once as referral_percent x source amount. One per commission.
type ReferralCommission struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ReferrerID   uint            `gorm:"not null;index" json:"referrer_id"`
	CommissionID uint            `gorm:"uniqueIndex;not null" json:"commission_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Status       string          `gorm:"size:20;not null;index" json:"status"`
	AvailableAt  time.Time       `gorm:"not null;index" json:"available_at"`
	WithdrawalID *uint           `gorm:"index" json:"withdrawal_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`

	Referrer   User       `gorm:"foreignKey:ReferrerID" json:"-"`
	Commission Commission `gorm:"foreignKey:CommissionID" json:"-"`
}

func (ReferralCommission) TableName() string { return "referral_commissions" }
