package repository

import (
	"time"

	"dataplug/internal/domain"
	"dataplug/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CommissionRepository owns both commission tables: agent markup
// commissions and the referral cuts derived from them.
type CommissionRepository struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *CommissionRepository) WithTx(tx *gorm.DB) *CommissionRepository {
	return &CommissionRepository{db: tx}
}

func (r *CommissionRepository) Create(c *models.Commission) error {
	return r.db.Create(c).Error
}

func (r *CommissionRepository) CreateReferral(rc *models.ReferralCommission) error {
	return r.db.Create(rc).Error
}

// ExistsForOrder reports whether the order already has a commission.
func (r *CommissionRepository) ExistsForOrder(orderID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Commission{}).Where("order_id = ?", orderID).Count(&count).Error
	return count > 0, err
}

func (r *CommissionRepository) ListByAgent(agentID uint, limit, offset int) ([]models.Commission, error) {
	var list []models.Commission
	err := r.db.Where("agent_id = ?", agentID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *CommissionRepository) ListReferralByReferrer(referrerID uint, limit, offset int) ([]models.ReferralCommission, error) {
	var list []models.ReferralCommission
	err := r.db.Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

// SumByStatus returns the commission total for an agent in one status.
func (r *CommissionRepository) SumByStatus(agentID uint, status string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.Model(&models.Commission{}).
		Where("agent_id = ? AND status = ?", agentID, status).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// SumReferralByStatus returns the referral-commission total for a referrer
// in one status.
func (r *CommissionRepository) SumReferralByStatus(referrerID uint, status string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.Model(&models.ReferralCommission{}).
		Where("referrer_id = ? AND status = ?", referrerID, status).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// ListAvailable returns an agent's AVAILABLE commission rows oldest first,
// for oldest-first withdrawal consumption.
func (r *CommissionRepository) ListAvailable(agentID uint) ([]models.Commission, error) {
	var list []models.Commission
	err := r.db.Where("agent_id = ? AND status = ?", agentID, domain.CommissionStatusAvailable).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *CommissionRepository) ListAvailableReferral(referrerID uint) ([]models.ReferralCommission, error) {
	var list []models.ReferralCommission
	err := r.db.Where("referrer_id = ? AND status = ?", referrerID, domain.CommissionStatusAvailable).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

// ConsumeForWithdrawal flips one AVAILABLE commission row to WITHDRAWN and
// tags it with the withdrawal. The status guard means two concurrent
// withdrawals can never both consume the same row.
func (r *CommissionRepository) ConsumeForWithdrawal(commissionID, withdrawalID uint) (bool, error) {
	res := r.db.Model(&models.Commission{}).
		Where("id = ? AND status = ?", commissionID, domain.CommissionStatusAvailable).
		Updates(map[string]interface{}{
			"status":        domain.CommissionStatusWithdrawn,
			"withdrawal_id": withdrawalID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *CommissionRepository) ConsumeReferralForWithdrawal(referralCommissionID, withdrawalID uint) (bool, error) {
	res := r.db.Model(&models.ReferralCommission{}).
		Where("id = ? AND status = ?", referralCommissionID, domain.CommissionStatusAvailable).
		Updates(map[string]interface{}{
			"status":        domain.CommissionStatusWithdrawn,
			"withdrawal_id": withdrawalID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ReleaseWithdrawal returns every row consumed by a rejected withdrawal to
// AVAILABLE.
func (r *CommissionRepository) ReleaseWithdrawal(withdrawalID uint) error {
	if err := r.db.Model(&models.Commission{}).
		Where("withdrawal_id = ? AND status = ?", withdrawalID, domain.CommissionStatusWithdrawn).
		Updates(map[string]interface{}{
			"status":        domain.CommissionStatusAvailable,
			"withdrawal_id": nil,
		}).Error; err != nil {
		return err
	}
	return r.db.Model(&models.ReferralCommission{}).
		Where("withdrawal_id = ? AND status = ?", withdrawalID, domain.CommissionStatusWithdrawn).
		Updates(map[string]interface{}{
			"status":        domain.CommissionStatusAvailable,
			"withdrawal_id": nil,
		}).Error
}

// MatureDue promotes every PENDING row whose availability window has passed
// to AVAILABLE, one bulk conditional update per table. The sweep only moves
// rows forward, so overlapping runs are harmless.
func (r *CommissionRepository) MatureDue(now time.Time) (int64, error) {
	res := r.db.Model(&models.Commission{}).
		Where("status = ? AND available_at <= ?", domain.CommissionStatusPending, now).
		Update("status", domain.CommissionStatusAvailable)
	if res.Error != nil {
		return 0, res.Error
	}
	promoted := res.RowsAffected
	res = r.db.Model(&models.ReferralCommission{}).
		Where("status = ? AND available_at <= ?", domain.CommissionStatusPending, now).
		Update("status", domain.CommissionStatusAvailable)
	if res.Error != nil {
		return promoted, res.Error
	}
	return promoted + res.RowsAffected, nil
}
