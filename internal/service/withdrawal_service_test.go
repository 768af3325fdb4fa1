package service

import (
	"testing"
	"time"

	"dataplug/internal/domain"
	"dataplug/internal/models"
	"dataplug/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newWithdrawalService(db *gorm.DB) *WithdrawalService {
	return NewWithdrawalService(
		db,
		repository.NewWithdrawalRepository(db),
		repository.NewCommissionRepository(db),
		testLedger(),
	)
}

func TestRequestRejectsInsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	svc := newWithdrawalService(db)

	agent := createUser(t, db, "agent", domain.RoleAgent)
	row := createCommissionRow(t, db, agent.ID, 1, "5.00", domain.CommissionStatusAvailable, time.Now().Add(-time.Hour))

	_, err := svc.Request(agent.ID, dec("10.00"), "233240000001")
	require.ErrorIs(t, err, ErrInsufficientFunds)

	// Nothing may change on a refused request.
	var c models.Commission
	require.NoError(t, db.First(&c, row.ID).Error)
	require.Equal(t, domain.CommissionStatusAvailable, c.Status)
	require.Nil(t, c.WithdrawalID)

	var count int64
	require.NoError(t, db.Model(&models.Withdrawal{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestRequestRejectsAmountBelowFee(t *testing.T) {
	db := newTestDB(t)
	svc := newWithdrawalService(db)
	agent := createUser(t, db, "agent", domain.RoleAgent)

	_, err := svc.Request(agent.ID, dec("0.50"), "233240000001")
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Request(agent.ID, dec("-3.00"), "233240000001")
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRequestConsumesOldestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := newWithdrawalService(db)

	agent := createUser(t, db, "agent", domain.RoleAgent)
	base := time.Now().Add(-72 * time.Hour)
	oldest := createCommissionRow(t, db, agent.ID, 1, "3.00", domain.CommissionStatusAvailable, base)
	refMid := createReferralCommissionRow(t, db, agent.ID, 90, "4.00", domain.CommissionStatusAvailable, base.Add(time.Hour))
	newest := createCommissionRow(t, db, agent.ID, 2, "5.00", domain.CommissionStatusAvailable, base.Add(2*time.Hour))

	w, err := svc.Request(agent.ID, dec("6.00"), "233240000001")
	require.NoError(t, err)
	require.Equal(t, domain.WithdrawalStatusPending, w.Status)
	require.True(t, dec("1").Equal(w.FeeAmount), "fee = %s", w.FeeAmount)
	require.True(t, dec("5.00").Equal(w.FinalAmount), "final = %s", w.FinalAmount)

	// 3.00 + 4.00 covers 6.00; the newest row must stay untouched.
	var c models.Commission
	require.NoError(t, db.First(&c, oldest.ID).Error)
	require.Equal(t, domain.CommissionStatusWithdrawn, c.Status)
	require.NotNil(t, c.WithdrawalID)
	require.Equal(t, w.ID, *c.WithdrawalID)

	var rc models.ReferralCommission
	require.NoError(t, db.First(&rc, refMid.ID).Error)
	require.Equal(t, domain.CommissionStatusWithdrawn, rc.Status)

	var c2 models.Commission
	require.NoError(t, db.First(&c2, newest.ID).Error)
	require.Equal(t, domain.CommissionStatusAvailable, c2.Status)
	require.Nil(t, c2.WithdrawalID)
}

func TestRequestConsumedRowsAreGone(t *testing.T) {
	db := newTestDB(t)
	svc := newWithdrawalService(db)

	agent := createUser(t, db, "agent", domain.RoleAgent)
	createCommissionRow(t, db, agent.ID, 1, "10.00", domain.CommissionStatusAvailable, time.Now().Add(-time.Hour))

	_, err := svc.Request(agent.ID, dec("10.00"), "233240000001")
	require.NoError(t, err)

	// The same funds cannot be withdrawn twice.
	_, err = svc.Request(agent.ID, dec("10.00"), "233240000001")
	require.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestAdvanceWalksTheStateMachine(t *testing.T) {
	db := newTestDB(t)
	svc := newWithdrawalService(db)

	agent := createUser(t, db, "agent", domain.RoleAgent)
	createCommissionRow(t, db, agent.ID, 1, "20.00", domain.CommissionStatusAvailable, time.Now().Add(-time.Hour))
	w, err := svc.Request(agent.ID, dec("20.00"), "233240000001")
	require.NoError(t, err)

	// Skipping a state is refused.
	_, err = svc.Advance(w.ID, domain.WithdrawalStatusApproved)
	require.ErrorIs(t, err, ErrInvalidTransition)

	for _, next := range []string{
		domain.WithdrawalStatusProcessing,
		domain.WithdrawalStatusApproved,
		domain.WithdrawalStatusPaid,
	} {
		w, err = svc.Advance(w.ID, next)
		require.NoError(t, err)
		require.Equal(t, next, w.Status)
	}
	require.NotNil(t, w.PaidAt)

	// PAID is terminal.
	_, err = svc.Advance(w.ID, domain.WithdrawalStatusProcessing)
	require.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.Reject(w.ID, "too late")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRejectReleasesConsumedRows(t *testing.T) {
	db := newTestDB(t)
	svc := newWithdrawalService(db)

	agent := createUser(t, db, "agent", domain.RoleAgent)
	now := time.Now().Add(-time.Hour)
	own := createCommissionRow(t, db, agent.ID, 1, "6.00", domain.CommissionStatusAvailable, now)
	ref := createReferralCommissionRow(t, db, agent.ID, 90, "4.00", domain.CommissionStatusAvailable, now.Add(time.Minute))

	w, err := svc.Request(agent.ID, dec("10.00"), "233240000001")
	require.NoError(t, err)

	w, err = svc.Reject(w.ID, "destination unreachable")
	require.NoError(t, err)
	require.Equal(t, domain.WithdrawalStatusRejected, w.Status)
	require.Equal(t, "destination unreachable", w.RejectReason)

	var c models.Commission
	require.NoError(t, db.First(&c, own.ID).Error)
	require.Equal(t, domain.CommissionStatusAvailable, c.Status)
	require.Nil(t, c.WithdrawalID)

	var rc models.ReferralCommission
	require.NoError(t, db.First(&rc, ref.ID).Error)
	require.Equal(t, domain.CommissionStatusAvailable, rc.Status)
	require.Nil(t, rc.WithdrawalID)

	// Released funds are spendable again.
	_, err = svc.Request(agent.ID, dec("10.00"), "233240000001")
	require.NoError(t, err)
}

func TestWithdrawalFeeBands(t *testing.T) {
	ledger := testLedger()

	require.True(t, dec("1").Equal(ledger.WithdrawalFee(dec("10.00"))))
	require.True(t, dec("1").Equal(ledger.WithdrawalFee(dec("50.00"))))
	require.True(t, dec("2").Equal(ledger.WithdrawalFee(dec("50.01"))))
	require.True(t, dec("2").Equal(ledger.WithdrawalFee(dec("200.00"))))
	// Above the last band the percentage rate applies.
	require.True(t, dec("5.00").Equal(ledger.WithdrawalFee(dec("500.00"))))
}
