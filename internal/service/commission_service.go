package service

import (
	"errors"
	"log"
	"time"

	"dataplug/config"
	"dataplug/internal/domain"
	"dataplug/internal/models"
	"dataplug/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrDuplicateCommission = errors.New("commission already computed for order")

// CommissionService computes agent markup commissions on order completion
// and propagates the referral cut one level up, all in one transaction.
type CommissionService struct {
	db             *gorm.DB
	commissionRepo *repository.CommissionRepository
	referralRepo   *repository.ReferralRepository
	ledger         *config.LedgerConfig
}

func NewCommissionService(
	db *gorm.DB,
	commissionRepo *repository.CommissionRepository,
	referralRepo *repository.ReferralRepository,
	ledger *config.LedgerConfig,
) *CommissionService {
	return &CommissionService{
		db:             db,
		commissionRepo: commissionRepo,
		referralRepo:   referralRepo,
		ledger:         ledger,
	}
}

// MarkupAmount is the commission owed for the order's items:
// sum of (sale - base) x quantity.
func MarkupAmount(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		markup := it.UnitSalePrice.Sub(it.UnitBasePrice).Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(markup)
	}
	return total
}

// ComputeForOrder writes the order's commission and, when the agent has a
// converted referrer, the referral cut. Returns nil without error when the
// order earns nothing (no agent, or no positive markup). Recomputation for
// an order that already has a commission is a logged no-op.
func (s *CommissionService) ComputeForOrder(order *models.Order) (*models.Commission, error) {
	if order.AgentID == nil {
		return nil, nil
	}
	amount := MarkupAmount(order.Items)
	if !amount.IsPositive() {
		return nil, nil
	}

	completedAt := time.Now()
	if order.CompletedAt != nil {
		completedAt = *order.CompletedAt
	}
	availableAt := completedAt.AddDate(0, 0, s.ledger.RefundWindowDays)

	commission := &models.Commission{
		AgentID:     *order.AgentID,
		OrderID:     order.ID,
		Amount:      amount.Round(2),
		Status:      domain.CommissionStatusPending,
		AvailableAt: availableAt,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.commissionRepo.WithTx(tx)
		exists, err := repo.ExistsForOrder(order.ID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateCommission
		}
		if err := repo.Create(commission); err != nil {
			// The unique index on order_id backstops the existence check
			// under concurrent completion sweeps.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateCommission
			}
			return err
		}
		return s.propagateReferral(repo, commission)
	})
	if errors.Is(err, ErrDuplicateCommission) {
		log.Printf("[Commission] order %d already has a commission, skipping", order.ID)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	log.Printf("[Commission] order %d: %s for agent %d, available %s",
		order.ID, commission.Amount, commission.AgentID, availableAt.Format(time.RFC3339))
	return commission, nil
}

// propagateReferral writes the one-level referral cut. Missing, unconverted
// or self-referential chains are silent no-ops. Never recurses: the
// referrer's own referrer earns nothing from this commission.
func (s *CommissionService) propagateReferral(repo *repository.CommissionRepository, commission *models.Commission) error {
	ref, err := s.referralRepo.GetByReferredUserID(commission.AgentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if ref.ConvertedAt == nil || ref.ReferrerID == commission.AgentID {
		return nil
	}
	cut := commission.Amount.Mul(s.ledger.ReferralPercent).Round(2)
	if !cut.IsPositive() {
		return nil
	}
	return repo.CreateReferral(&models.ReferralCommission{
		ReferrerID:   ref.ReferrerID,
		CommissionID: commission.ID,
		Amount:       cut,
		Status:       domain.CommissionStatusPending,
		AvailableAt:  commission.AvailableAt,
	})
}

// Summary aggregates an agent's commission and referral earnings per status.
type Summary struct {
	Pending   decimal.Decimal `json:"pending"`
	Available decimal.Decimal `json:"available"`
	Withdrawn decimal.Decimal `json:"withdrawn"`
}

// Summarize returns the combined commission + referral totals for a user.
func (s *CommissionService) Summarize(userID uint) (*Summary, error) {
	out := &Summary{Pending: decimal.Zero, Available: decimal.Zero, Withdrawn: decimal.Zero}
	for _, status := range []string{
		domain.CommissionStatusPending,
		domain.CommissionStatusAvailable,
		domain.CommissionStatusWithdrawn,
	} {
		own, err := s.commissionRepo.SumByStatus(userID, status)
		if err != nil {
			return nil, err
		}
		ref, err := s.commissionRepo.SumReferralByStatus(userID, status)
		if err != nil {
			return nil, err
		}
		total := own.Add(ref)
		switch status {
		case domain.CommissionStatusPending:
			out.Pending = total
		case domain.CommissionStatusAvailable:
			out.Available = total
		case domain.CommissionStatusWithdrawn:
			out.Withdrawn = total
		}
	}
	return out, nil
}
