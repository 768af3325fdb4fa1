package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Withdrawal settles an agent's matured commissions to mobile money.
// Lifecycle: PENDING -> PROCESSING -> APPROVED -> PAID, or any non-terminal
// state -> REJECTED (funds return to AVAILABLE).
type Withdrawal struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	AgentID         uint            `gorm:"not null;index" json:"agent_id"`
	Code            string          `gorm:"size:64;uniqueIndex;not null" json:"code"`
	RequestedAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"requested_amount"`
	FeeAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"fee_amount"`
	FinalAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"final_amount"`
	Destination     string          `gorm:"size:20;not null" json:"destination"` // mobile money number
	Status          string          `gorm:"size:20;not null;index" json:"status"`
	RejectReason    string          `gorm:"size:255" json:"reject_reason,omitempty"`
	PaidAt          *time.Time      `json:"paid_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	Agent User `gorm:"foreignKey:AgentID" json:"-"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
