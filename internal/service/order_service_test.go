package service

import (
	"context"
	"errors"
	"testing"

	"dataplug/internal/domain"
	"dataplug/internal/models"
	"dataplug/internal/repository"
	"dataplug/pkg/provider"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeClient scripts provider responses for a test.
type fakeClient struct {
	pushErr error
	status  string
}

func (f *fakeClient) PushOrder(ctx context.Context, req provider.PushRequest) (*provider.PushResponse, error) {
	if f.pushErr != nil {
		return nil, f.pushErr
	}
	return &provider.PushResponse{ProviderRef: "ref-1", Status: provider.StatusProcessing}, nil
}

func (f *fakeClient) OrderStatus(ctx context.Context, orderCode string) (*provider.StatusResponse, error) {
	return &provider.StatusResponse{OrderCode: orderCode, Status: f.status}, nil
}

func newOrderService(db *gorm.DB, client provider.Client) *OrderService {
	return NewOrderService(
		db,
		repository.NewOrderRepository(db),
		repository.NewWalletRepository(db),
		repository.NewProductRepository(db),
		repository.NewShopRepository(db),
		newCommissionService(db),
		client,
	)
}

func topUp(t *testing.T, db *gorm.DB, userID uint, amount string) {
	t.Helper()
	require.NoError(t, repository.NewWalletRepository(db).
		Credit(userID, dec(amount), domain.WalletTxTypeTopup, "test-topup"))
}

func walletBalance(t *testing.T, db *gorm.DB, userID uint) string {
	t.Helper()
	w, err := repository.NewWalletRepository(db).GetByUserID(userID)
	require.NoError(t, err)
	return w.Balance.StringFixed(2)
}

func TestCreateDebitsWalletAtShopPrice(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db, &fakeClient{status: provider.StatusProcessing})

	agent := createUser(t, db, "agent", domain.RoleAgent)
	buyer := createUser(t, db, "buyer", domain.RoleCustomer)
	topUp(t, db, buyer.ID, "100.00")

	p := createProduct(t, db, "mtn-5gb", "35.50")
	shop, err := repository.NewShopRepository(db).Create(agent.ID, "Agent Data Hub")
	require.NoError(t, err)
	require.NoError(t, repository.NewShopRepository(db).
		UpsertPrice(shop.ID, p.ID, &models.ShopProduct{ShopID: shop.ID, ProductID: p.ID, SalePrice: dec("40.00")}))

	order, err := svc.Create(buyer.ID, shop.Slug, []OrderItemInput{
		{ProductID: p.ID, Quantity: 1, Beneficiary: "233240000001"},
	})
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusProcessing, order.Status)
	require.NotNil(t, order.AgentID)
	require.Equal(t, agent.ID, *order.AgentID)
	require.True(t, dec("40.00").Equal(order.Total))
	require.Len(t, order.Items, 1)
	require.True(t, dec("35.50").Equal(order.Items[0].UnitBasePrice))
	require.True(t, dec("40.00").Equal(order.Items[0].UnitSalePrice))

	require.Equal(t, "60.00", walletBalance(t, db, buyer.ID))
}

func TestCreateWithoutShopSellsAtBasePrice(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db, &fakeClient{status: provider.StatusProcessing})

	buyer := createUser(t, db, "buyer", domain.RoleCustomer)
	topUp(t, db, buyer.ID, "50.00")
	p := createProduct(t, db, "mtn-5gb", "35.50")

	order, err := svc.Create(buyer.ID, "", []OrderItemInput{
		{ProductID: p.ID, Quantity: 1, Beneficiary: "233240000001"},
	})
	require.NoError(t, err)
	require.Nil(t, order.AgentID)
	require.True(t, dec("35.50").Equal(order.Total))
}

func TestCreateRollsBackOnInsufficientBalance(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db, &fakeClient{status: provider.StatusProcessing})

	buyer := createUser(t, db, "buyer", domain.RoleCustomer)
	topUp(t, db, buyer.ID, "10.00")
	p := createProduct(t, db, "mtn-5gb", "35.50")

	_, err := svc.Create(buyer.ID, "", []OrderItemInput{
		{ProductID: p.ID, Quantity: 1, Beneficiary: "233240000001"},
	})
	require.ErrorIs(t, err, repository.ErrInsufficientBalance)

	// The order row must roll back with the failed debit.
	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
	require.Equal(t, "10.00", walletBalance(t, db, buyer.ID))
}

func TestCreateValidatesItems(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db, &fakeClient{status: provider.StatusProcessing})

	buyer := createUser(t, db, "buyer", domain.RoleCustomer)
	topUp(t, db, buyer.ID, "100.00")
	p := createProduct(t, db, "mtn-5gb", "35.50")
	inactive := createProduct(t, db, "retired", "10.00")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	_, err := svc.Create(buyer.ID, "", nil)
	require.ErrorIs(t, err, ErrEmptyOrder)

	_, err = svc.Create(buyer.ID, "", []OrderItemInput{{ProductID: p.ID, Quantity: 0, Beneficiary: "233240000001"}})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Create(buyer.ID, "", []OrderItemInput{{ProductID: p.ID, Quantity: 1}})
	require.ErrorIs(t, err, ErrNoBeneficiary)

	_, err = svc.Create(buyer.ID, "", []OrderItemInput{{ProductID: inactive.ID, Quantity: 1, Beneficiary: "233240000001"}})
	require.ErrorIs(t, err, ErrInactiveProduct)
}

func TestCreateSurvivesPushFailure(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db, &fakeClient{pushErr: errors.New("provider down"), status: provider.StatusProcessing})

	buyer := createUser(t, db, "buyer", domain.RoleCustomer)
	topUp(t, db, buyer.ID, "50.00")
	p := createProduct(t, db, "mtn-5gb", "35.50")

	order, err := svc.Create(buyer.ID, "", []OrderItemInput{
		{ProductID: p.ID, Quantity: 1, Beneficiary: "233240000001"},
	})
	require.NoError(t, err)

	// The order stays PROCESSING for the sync job to retry.
	got, err := repository.NewOrderRepository(db).GetByID(order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusProcessing, got.Status)
}

func TestSyncCompletesDeliveredOrders(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db, &fakeClient{status: provider.StatusDelivered})

	agent := createUser(t, db, "agent", domain.RoleAgent)
	buyer := createUser(t, db, "buyer", domain.RoleCustomer)
	topUp(t, db, buyer.ID, "100.00")

	p := createProduct(t, db, "mtn-5gb", "35.50")
	shop, err := repository.NewShopRepository(db).Create(agent.ID, "Agent Data Hub")
	require.NoError(t, err)
	require.NoError(t, repository.NewShopRepository(db).
		UpsertPrice(shop.ID, p.ID, &models.ShopProduct{ShopID: shop.ID, ProductID: p.ID, SalePrice: dec("40.00")}))

	order, err := svc.Create(buyer.ID, shop.Slug, []OrderItemInput{
		{ProductID: p.ID, Quantity: 1, Beneficiary: "233240000001"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.SyncStatuses(context.Background()))

	got, err := repository.NewOrderRepository(db).GetByID(order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)

	var c models.Commission
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&c).Error)
	require.True(t, dec("4.50").Equal(c.Amount))

	// A second sweep changes nothing.
	require.NoError(t, svc.SyncStatuses(context.Background()))
	var count int64
	require.NoError(t, db.Model(&models.Commission{}).Where("order_id = ?", order.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestSyncRefundsFailedOrders(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db, &fakeClient{status: provider.StatusFailed})

	buyer := createUser(t, db, "buyer", domain.RoleCustomer)
	topUp(t, db, buyer.ID, "50.00")
	p := createProduct(t, db, "mtn-5gb", "35.50")

	order, err := svc.Create(buyer.ID, "", []OrderItemInput{
		{ProductID: p.ID, Quantity: 1, Beneficiary: "233240000001"},
	})
	require.NoError(t, err)
	require.Equal(t, "14.50", walletBalance(t, db, buyer.ID))

	require.NoError(t, svc.SyncStatuses(context.Background()))

	got, err := repository.NewOrderRepository(db).GetByID(order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusRefunded, got.Status)
	require.Equal(t, "50.00", walletBalance(t, db, buyer.ID))

	// Refunded orders leave the sync set; money is returned exactly once.
	require.NoError(t, svc.SyncStatuses(context.Background()))
	require.Equal(t, "50.00", walletBalance(t, db, buyer.ID))
}
