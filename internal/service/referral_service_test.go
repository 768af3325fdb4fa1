package service

import (
	"testing"
	"time"

	"dataplug/config"
	"dataplug/internal/domain"
	"dataplug/internal/models"
	"dataplug/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReferralService(db *gorm.DB) *ReferralService {
	return NewReferralService(repository.NewReferralRepository(db), repository.NewUserRepository(db))
}

func newAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "test-access",
			RefreshSecret: "test-refresh",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: time.Hour,
			Issuer:        "dataplug-test",
		},
		Ledger: *testLedger(),
	}
	return NewAuthService(cfg, repository.NewUserRepository(db), repository.NewWalletRepository(db), newReferralService(db))
}

func TestRegisterRecordsReferralEdge(t *testing.T) {
	db := newTestDB(t)
	authSvc := newAuthService(db)
	refSvc := newReferralService(db)

	referrer, _, _, err := authSvc.Register("ref@example.com", "referrer", "233240000001", "secret123", "")
	require.NoError(t, err)
	code, err := refSvc.MyCode(referrer.ID)
	require.NoError(t, err)

	referred, access, refresh, err := authSvc.Register("new@example.com", "newuser", "233240000002", "secret123", code.Code)
	require.NoError(t, err)
	require.Equal(t, domain.RoleCustomer, referred.Role)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	var edge models.Referral
	require.NoError(t, db.Where("referred_user_id = ?", referred.ID).First(&edge).Error)
	require.Equal(t, referrer.ID, edge.ReferrerID)
	require.Nil(t, edge.ConvertedAt)

	// The wallet must exist from signup so later credits never miss.
	_, err = repository.NewWalletRepository(db).GetByUserID(referred.ID)
	require.NoError(t, err)
}

func TestRegisterIgnoresBadReferralCode(t *testing.T) {
	db := newTestDB(t)
	authSvc := newAuthService(db)

	u, _, _, err := authSvc.Register("new@example.com", "newuser", "233240000002", "secret123", "NO-SUCH-CODE")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Referral{}).Where("referred_user_id = ?", u.ID).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	authSvc := newAuthService(db)

	_, _, _, err := authSvc.Register("a@example.com", "alpha", "233240000001", "secret123", "")
	require.NoError(t, err)

	_, _, _, err = authSvc.Register("a@example.com", "beta", "233240000002", "secret123", "")
	require.ErrorIs(t, err, ErrEmailExists)

	_, _, _, err = authSvc.Register("b@example.com", "alpha", "233240000003", "secret123", "")
	require.ErrorIs(t, err, ErrUsernameExists)
}

func TestLoginVerifiesPassword(t *testing.T) {
	db := newTestDB(t)
	authSvc := newAuthService(db)

	_, _, _, err := authSvc.Register("a@example.com", "alpha", "233240000001", "secret123", "")
	require.NoError(t, err)

	u, access, _, err := authSvc.Login("a@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, "alpha", u.Username)
	require.NotEmpty(t, access)

	_, _, _, err = authSvc.Login("a@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCreds)
	_, _, _, err = authSvc.Login("nobody@example.com", "secret123")
	require.ErrorIs(t, err, ErrInvalidCreds)
}

func TestUpgradeConvertsReferral(t *testing.T) {
	db := newTestDB(t)
	authSvc := newAuthService(db)
	refSvc := newReferralService(db)

	referrer, _, _, err := authSvc.Register("ref@example.com", "referrer", "233240000001", "secret123", "")
	require.NoError(t, err)
	code, err := refSvc.MyCode(referrer.ID)
	require.NoError(t, err)
	referred, _, _, err := authSvc.Register("new@example.com", "newuser", "233240000002", "secret123", code.Code)
	require.NoError(t, err)

	u, err := refSvc.Upgrade(referred.ID, domain.RoleAgent)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAgent, u.Role)

	var edge models.Referral
	require.NoError(t, db.Where("referred_user_id = ?", referred.ID).First(&edge).Error)
	require.NotNil(t, edge.ConvertedAt)

	// Agents cannot be upgraded again, and arbitrary roles are refused.
	_, err = refSvc.Upgrade(referred.ID, domain.RoleDealer)
	require.ErrorIs(t, err, ErrNotUpgradable)
	_, err = refSvc.Upgrade(referrer.ID, domain.RoleAdmin)
	require.ErrorIs(t, err, ErrNotUpgradable)
}

func TestMyCodeIsStable(t *testing.T) {
	db := newTestDB(t)
	refSvc := newReferralService(db)
	u := createUser(t, db, "agent", domain.RoleAgent)

	first, err := refSvc.MyCode(u.ID)
	require.NoError(t, err)
	require.NotEmpty(t, first.Code)

	second, err := refSvc.MyCode(u.ID)
	require.NoError(t, err)
	require.Equal(t, first.Code, second.Code)
}
