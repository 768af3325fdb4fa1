package service

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"dataplug/config"
	"dataplug/internal/domain"
	"dataplug/internal/models"
	"dataplug/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInsufficientFunds = errors.New("insufficient available balance")
	ErrInvalidAmount     = errors.New("withdrawal amount must exceed the fee")
	ErrInvalidTransition = errors.New("invalid withdrawal state transition")
)

// advance maps each non-terminal withdrawal status to its only forward
// successor. Rejection is reachable from every key in this map.
var advance = map[string]string{
	domain.WithdrawalStatusPending:    domain.WithdrawalStatusProcessing,
	domain.WithdrawalStatusProcessing: domain.WithdrawalStatusApproved,
	domain.WithdrawalStatusApproved:   domain.WithdrawalStatusPaid,
}

// WithdrawalService settles matured commissions: it validates a request
// against the agent's available balance, consumes commission rows
// oldest-first, and drives the payout state machine.
type WithdrawalService struct {
	db             *gorm.DB
	withdrawalRepo *repository.WithdrawalRepository
	commissionRepo *repository.CommissionRepository
	ledger         *config.LedgerConfig
}

func NewWithdrawalService(
	db *gorm.DB,
	withdrawalRepo *repository.WithdrawalRepository,
	commissionRepo *repository.CommissionRepository,
	ledger *config.LedgerConfig,
) *WithdrawalService {
	return &WithdrawalService{
		db:             db,
		withdrawalRepo: withdrawalRepo,
		commissionRepo: commissionRepo,
		ledger:         ledger,
	}
}

// availableRow is one consumable ledger row from either commission table.
type availableRow struct {
	id        uint
	referral  bool
	amount    decimal.Decimal
	createdAt time.Time
}

// Request validates and accepts a withdrawal. Inside one transaction it
// checks the requested amount against the agent's available balance, flips
// whole commission rows to WITHDRAWN oldest-first until they cover the
// amount, and creates the withdrawal in PENDING. Any shortfall (including
// one caused by a concurrent request consuming the same rows) aborts the
// whole transaction.
func (s *WithdrawalService) Request(agentID uint, amount decimal.Decimal, destination string) (*models.Withdrawal, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	fee := s.ledger.WithdrawalFee(amount)
	if amount.LessThanOrEqual(fee) {
		return nil, ErrInvalidAmount
	}

	w := &models.Withdrawal{
		AgentID:         agentID,
		Code:            fmt.Sprintf("wd-%s", uuid.New().String()),
		RequestedAmount: amount,
		FeeAmount:       fee,
		FinalAmount:     amount.Sub(fee),
		Destination:     destination,
		Status:          domain.WithdrawalStatusPending,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		comRepo := s.commissionRepo.WithTx(tx)

		ownSum, err := comRepo.SumByStatus(agentID, domain.CommissionStatusAvailable)
		if err != nil {
			return err
		}
		refSum, err := comRepo.SumReferralByStatus(agentID, domain.CommissionStatusAvailable)
		if err != nil {
			return err
		}
		if amount.GreaterThan(ownSum.Add(refSum)) {
			return ErrInsufficientFunds
		}

		if err := s.withdrawalRepo.WithTx(tx).Create(w); err != nil {
			return err
		}

		rows, err := s.collectAvailable(comRepo, agentID)
		if err != nil {
			return err
		}
		covered := decimal.Zero
		for _, row := range rows {
			if covered.GreaterThanOrEqual(amount) {
				break
			}
			var ok bool
			if row.referral {
				ok, err = comRepo.ConsumeReferralForWithdrawal(row.id, w.ID)
			} else {
				ok, err = comRepo.ConsumeForWithdrawal(row.id, w.ID)
			}
			if err != nil {
				return err
			}
			if !ok {
				// Row was consumed by a concurrent request; skip it.
				continue
			}
			covered = covered.Add(row.amount)
		}
		if covered.LessThan(amount) {
			return ErrInsufficientFunds
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Withdrawal] %s: agent %d requested %s (fee %s)", w.Code, agentID, amount, fee)
	return w, nil
}

// collectAvailable merges both commission tables into one oldest-first list.
func (s *WithdrawalService) collectAvailable(repo *repository.CommissionRepository, agentID uint) ([]availableRow, error) {
	own, err := repo.ListAvailable(agentID)
	if err != nil {
		return nil, err
	}
	refs, err := repo.ListAvailableReferral(agentID)
	if err != nil {
		return nil, err
	}
	rows := make([]availableRow, 0, len(own)+len(refs))
	for _, c := range own {
		rows = append(rows, availableRow{id: c.ID, amount: c.Amount, createdAt: c.CreatedAt})
	}
	for _, rc := range refs {
		rows = append(rows, availableRow{id: rc.ID, referral: true, amount: rc.Amount, createdAt: rc.CreatedAt})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].createdAt.Equal(rows[j].createdAt) {
			return rows[i].id < rows[j].id
		}
		return rows[i].createdAt.Before(rows[j].createdAt)
	})
	return rows, nil
}

// Advance moves a withdrawal one step forward through
// PENDING -> PROCESSING -> APPROVED -> PAID. Skipping states is refused.
func (s *WithdrawalService) Advance(id uint, to string) (*models.Withdrawal, error) {
	w, err := s.withdrawalRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	next, ok := advance[w.Status]
	if !ok || next != to {
		return nil, ErrInvalidTransition
	}
	moved, err := s.withdrawalRepo.Transition(id, w.Status, to, "")
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrInvalidTransition
	}
	return s.withdrawalRepo.GetByID(id)
}

// Reject terminates a withdrawal from any non-terminal state and returns
// every commission row it consumed to AVAILABLE, atomically.
func (s *WithdrawalService) Reject(id uint, reason string) (*models.Withdrawal, error) {
	w, err := s.withdrawalRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, ok := advance[w.Status]; !ok {
		return nil, ErrInvalidTransition
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		moved, err := s.withdrawalRepo.WithTx(tx).Transition(id, w.Status, domain.WithdrawalStatusRejected, reason)
		if err != nil {
			return err
		}
		if !moved {
			return ErrInvalidTransition
		}
		return s.commissionRepo.WithTx(tx).ReleaseWithdrawal(id)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Withdrawal] %s rejected: %s", w.Code, reason)
	return s.withdrawalRepo.GetByID(id)
}
