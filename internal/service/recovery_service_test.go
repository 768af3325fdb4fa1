package service

import (
	"context"
	"testing"
	"time"

	"dataplug/config"
	"dataplug/internal/domain"
	"dataplug/internal/models"
	"dataplug/internal/repository"
	"dataplug/pkg/payverify"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeVerifier returns one scripted verification result.
type fakeVerifier struct {
	result payverify.Result
}

func (f *fakeVerifier) VerifyReference(ctx context.Context, reference string) (*payverify.Result, error) {
	r := f.result
	return &r, nil
}

func testVerifierConfig() *config.VerifierConfig {
	launch, _ := time.Parse("2006-01-02", "2024-01-01")
	return &config.VerifierConfig{
		MaxRefAgeDays: 30,
		LaunchDate:    launch,
	}
}

func newRecoveryService(db *gorm.DB, v payverify.Verifier) *RecoveryService {
	return NewRecoveryService(
		db,
		repository.NewPaymentRepository(db),
		repository.NewWalletRepository(db),
		v,
		testVerifierConfig(),
	)
}

func TestRecoverCreditsWalletOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newRecoveryService(db, &fakeVerifier{result: payverify.Result{
		Success: true,
		Amount:  "25.00",
		Email:   "buyer@example.com",
		PaidAt:  time.Now().Add(-time.Hour),
	}})

	buyer := createUser(t, db, "buyer", domain.RoleCustomer)

	record, err := svc.Recover(context.Background(), buyer.ID, "ref-abc-1")
	require.NoError(t, err)
	require.True(t, dec("25.00").Equal(record.Amount))
	require.Equal(t, "25.00", walletBalance(t, db, buyer.ID))

	var count int64
	require.NoError(t, db.Model(&models.PaymentReference{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	// The same reference can never be credited twice.
	_, err = svc.Recover(context.Background(), buyer.ID, "ref-abc-1")
	require.ErrorIs(t, err, ErrAlreadyRecovered)
	require.Equal(t, "25.00", walletBalance(t, db, buyer.ID))
}

func TestRecoverRejectsFailedVerification(t *testing.T) {
	db := newTestDB(t)
	svc := newRecoveryService(db, &fakeVerifier{result: payverify.Result{Success: false}})

	buyer := createUser(t, db, "buyer", domain.RoleCustomer)
	_, err := svc.Recover(context.Background(), buyer.ID, "ref-bogus")
	require.ErrorIs(t, err, ErrVerificationFailed)
	require.Equal(t, "0.00", walletBalance(t, db, buyer.ID))
}

func TestRecoverRejectsStaleReferences(t *testing.T) {
	db := newTestDB(t)
	buyer := createUser(t, db, "buyer", domain.RoleCustomer)

	t.Run("older than the recovery window", func(t *testing.T) {
		svc := newRecoveryService(db, &fakeVerifier{result: payverify.Result{
			Success: true,
			Amount:  "25.00",
			PaidAt:  time.Now().AddDate(0, 0, -31),
		}})
		_, err := svc.Recover(context.Background(), buyer.ID, "ref-old")
		require.ErrorIs(t, err, ErrStaleReference)
	})

	t.Run("paid before launch", func(t *testing.T) {
		paid, _ := time.Parse("2006-01-02", "2023-06-15")
		svc := newRecoveryService(db, &fakeVerifier{result: payverify.Result{
			Success: true,
			Amount:  "25.00",
			PaidAt:  paid,
		}})
		_, err := svc.Recover(context.Background(), buyer.ID, "ref-prelaunch")
		require.ErrorIs(t, err, ErrStaleReference)
	})

	require.Equal(t, "0.00", walletBalance(t, db, buyer.ID))
}

func TestRecoverSurfacesStorageErrors(t *testing.T) {
	db := newTestDB(t)
	svc := newRecoveryService(db, &fakeVerifier{result: payverify.Result{
		Success: true,
		Amount:  "25.00",
		PaidAt:  time.Now(),
	}})
	buyer := createUser(t, db, "buyer", domain.RoleCustomer)

	require.NoError(t, db.Migrator().DropTable(&models.PaymentReference{}))

	// A broken store is a real error, not a duplicate.
	_, err := svc.Recover(context.Background(), buyer.ID, "ref-db-down")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrAlreadyRecovered)
	require.Equal(t, "0.00", walletBalance(t, db, buyer.ID))
}

func TestRecoverRejectsBadAmounts(t *testing.T) {
	db := newTestDB(t)
	buyer := createUser(t, db, "buyer", domain.RoleCustomer)

	for _, amount := range []string{"", "abc", "0", "-5.00"} {
		svc := newRecoveryService(db, &fakeVerifier{result: payverify.Result{
			Success: true,
			Amount:  amount,
			PaidAt:  time.Now(),
		}})
		_, err := svc.Recover(context.Background(), buyer.ID, "ref-"+amount)
		require.ErrorIs(t, err, ErrVerificationFailed)
	}
}
