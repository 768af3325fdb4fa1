package service

import (
	"fmt"
	"testing"
	"time"

	"dataplug/config"
	"dataplug/internal/database"
	"dataplug/internal/domain"
	"dataplug/internal/models"
	"dataplug/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database migrated with the full
// schema. The shared cache keeps the database alive across the pool's
// connections for the duration of the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func testLedger() *config.LedgerConfig {
	return &config.LedgerConfig{
		ReferralPercent:  dec("0.10"),
		RefundWindowDays: 7,
		FeeBands: []config.FeeBand{
			{Cap: decimal.NewFromInt(50), Fee: decimal.NewFromInt(1)},
			{Cap: decimal.NewFromInt(200), Fee: decimal.NewFromInt(2)},
		},
		FeePercent: dec("0.01"),
		Currency:   "GHS",
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func createUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	require.NoError(t, db.Create(u).Error)
	_, err := repository.NewWalletRepository(db).GetOrCreate(u.ID, "GHS")
	require.NoError(t, err)
	return u
}

func createProduct(t *testing.T, db *gorm.DB, name, basePrice string) *models.Product {
	t.Helper()
	p := &models.Product{
		Network:   domain.NetworkMTN,
		Name:      name,
		VolumeMB:  5120,
		BasePrice: dec(basePrice),
		IsActive:  true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// createCompletedOrder persists an order already past fulfillment, with one
// item carrying the given base and sale prices.
func createCompletedOrder(t *testing.T, db *gorm.DB, buyerID uint, agentID *uint, base, sale string, qty int) *models.Order {
	t.Helper()
	p := createProduct(t, db, fmt.Sprintf("bundle-%d", time.Now().UnixNano()), base)
	now := time.Now()
	o := &models.Order{
		UserID:      buyerID,
		AgentID:     agentID,
		Total:       dec(sale).Mul(decimal.NewFromInt(int64(qty))),
		Status:      domain.OrderStatusCompleted,
		CompletedAt: &now,
		Items: []models.OrderItem{{
			ProductID:     p.ID,
			Quantity:      qty,
			UnitBasePrice: dec(base),
			UnitSalePrice: dec(sale),
			Beneficiary:   "233240000001",
		}},
	}
	require.NoError(t, repository.NewOrderRepository(db).Create(o))
	return o
}

// createCommissionRow inserts a commission directly in the given status.
func createCommissionRow(t *testing.T, db *gorm.DB, agentID, orderID uint, amount, status string, createdAt time.Time) *models.Commission {
	t.Helper()
	c := &models.Commission{
		AgentID:     agentID,
		OrderID:     orderID,
		Amount:      dec(amount),
		Status:      status,
		AvailableAt: createdAt,
		CreatedAt:   createdAt,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func createReferralCommissionRow(t *testing.T, db *gorm.DB, referrerID, commissionID uint, amount, status string, createdAt time.Time) *models.ReferralCommission {
	t.Helper()
	rc := &models.ReferralCommission{
		ReferrerID:   referrerID,
		CommissionID: commissionID,
		Amount:       dec(amount),
		Status:       status,
		AvailableAt:  createdAt,
		CreatedAt:    createdAt,
	}
	require.NoError(t, db.Create(rc).Error)
	return rc
}
