package service

import (
	"context"
	"errors"
	"log"
	"time"

	"dataplug/config"
	"dataplug/internal/domain"
	"dataplug/internal/models"
	"dataplug/internal/repository"
	"dataplug/pkg/payverify"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrVerificationFailed = errors.New("payment reference could not be verified")
	ErrStaleReference     = errors.New("payment reference is outside the recovery window")
	ErrAlreadyRecovered   = errors.New("payment reference already recovered")
)

// RecoveryService re-verifies a gateway payment reference whose webhook was
// missed and credits the wallet once per reference.
type RecoveryService struct {
	db          *gorm.DB
	paymentRepo *repository.PaymentRepository
	walletRepo  *repository.WalletRepository
	verifier    payverify.Verifier
	cfg         *config.VerifierConfig
}

func NewRecoveryService(
	db *gorm.DB,
	paymentRepo *repository.PaymentRepository,
	walletRepo *repository.WalletRepository,
	verifier payverify.Verifier,
	cfg *config.VerifierConfig,
) *RecoveryService {
	return &RecoveryService{
		db:          db,
		paymentRepo: paymentRepo,
		walletRepo:  walletRepo,
		verifier:    verifier,
		cfg:         cfg,
	}
}

// Recover verifies the reference with the gateway and credits the wallet.
// References already recovered, unverifiable, older than the policy window
// or predating the recovery launch date are rejected with no state change.
func (s *RecoveryService) Recover(ctx context.Context, userID uint, reference string) (*models.PaymentReference, error) {
	if _, err := s.paymentRepo.GetByReference(reference); err == nil {
		return nil, ErrAlreadyRecovered
	}

	res, err := s.verifier.VerifyReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, ErrVerificationFailed
	}
	oldest := time.Now().AddDate(0, 0, -s.cfg.MaxRefAgeDays)
	if res.PaidAt.Before(oldest) || res.PaidAt.Before(s.cfg.LaunchDate) {
		return nil, ErrStaleReference
	}
	amount, err := decimal.NewFromString(res.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, ErrVerificationFailed
	}

	record := &models.PaymentReference{
		UserID:    userID,
		Reference: reference,
		Amount:    amount,
		Email:     res.Email,
		PaidAt:    res.PaidAt,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.paymentRepo.WithTx(tx).Create(record); err != nil {
			// Unique reference index: a concurrent recovery won the race.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyRecovered
			}
			return err
		}
		return s.walletRepo.WithTx(tx).Credit(userID, amount, domain.WalletTxTypeRecoveryCredit, reference)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Recovery] reference %s credited %s to user %d", reference, amount, userID)
	return record, nil
}
