package service

import (
	"context"
	"errors"
	"log"

	"dataplug/internal/domain"
	"dataplug/internal/models"
	"dataplug/internal/repository"
	"dataplug/pkg/provider"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrEmptyOrder      = errors.New("order has no items")
	ErrInactiveProduct = errors.New("product is not available")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrNoBeneficiary   = errors.New("beneficiary phone number required")
)

// OrderItemInput is one requested bundle delivery.
type OrderItemInput struct {
	ProductID   uint   `json:"product_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	Beneficiary string `json:"beneficiary" binding:"required"`
}

// OrderService creates orders atomically with the wallet debit and keeps
// them in sync with the external fulfillment provider.
type OrderService struct {
	db            *gorm.DB
	orderRepo     *repository.OrderRepository
	walletRepo    *repository.WalletRepository
	productRepo   *repository.ProductRepository
	shopRepo      *repository.ShopRepository
	commissionSvc *CommissionService
	client        provider.Client
}

func NewOrderService(
	db *gorm.DB,
	orderRepo *repository.OrderRepository,
	walletRepo *repository.WalletRepository,
	productRepo *repository.ProductRepository,
	shopRepo *repository.ShopRepository,
	commissionSvc *CommissionService,
	client provider.Client,
) *OrderService {
	return &OrderService{
		db:            db,
		orderRepo:     orderRepo,
		walletRepo:    walletRepo,
		productRepo:   productRepo,
		shopRepo:      shopRepo,
		commissionSvc: commissionSvc,
		client:        client,
	}
}

// Create debits the buyer's wallet and persists the order with its items in
// one transaction, then pushes the order to the provider. A failed push is
// logged and retried by the sync job; it never rolls the order back.
//
// When shopSlug is set, the order is attributed to the shop's agent and
// priced at the shop's sale prices; otherwise items sell at base price with
// no commission.
func (s *OrderService) Create(userID uint, shopSlug string, items []OrderItemInput) (*models.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	var agentID *uint
	var shop *models.Shop
	if shopSlug != "" {
		var err error
		shop, err = s.shopRepo.GetBySlug(shopSlug)
		if err != nil {
			return nil, err
		}
		agentID = &shop.AgentID
	}

	order := &models.Order{
		UserID:  userID,
		AgentID: agentID,
		Status:  domain.OrderStatusProcessing,
		Total:   decimal.Zero,
	}
	for _, in := range items {
		if in.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if in.Beneficiary == "" {
			return nil, ErrNoBeneficiary
		}
		p, err := s.productRepo.GetByID(in.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.IsActive {
			return nil, ErrInactiveProduct
		}
		sale := p.BasePrice
		if shop != nil {
			if sp, err := s.shopRepo.GetPrice(shop.ID, p.ID); err == nil {
				sale = sp.SalePrice
			}
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID:     p.ID,
			Quantity:      in.Quantity,
			UnitBasePrice: p.BasePrice,
			UnitSalePrice: sale,
			Beneficiary:   in.Beneficiary,
		})
		order.Total = order.Total.Add(sale.Mul(decimal.NewFromInt(int64(in.Quantity))))
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
			return err
		}
		return s.walletRepo.WithTx(tx).Debit(userID, order.Total, domain.WalletTxTypeOrderPayment, order.Code)
	})
	if err != nil {
		return nil, err
	}

	s.pushOrder(order)
	return order, nil
}

// pushOrder sends the order to the fulfillment provider. Failure is a
// retryable background concern: the order stays PROCESSING and the sync job
// picks it up again.
func (s *OrderService) pushOrder(order *models.Order) {
	req := provider.PushRequest{OrderCode: order.Code}
	for _, it := range order.Items {
		req.Items = append(req.Items, provider.PushItem{
			Network:     it.Product.Network,
			VolumeMB:    it.Product.VolumeMB,
			Quantity:    it.Quantity,
			Beneficiary: it.Beneficiary,
		})
	}
	if _, err := s.client.PushOrder(context.Background(), req); err != nil {
		log.Printf("[Order] push %s to provider failed (will retry on sync): %v", order.Code, err)
	}
}

// SyncStatuses polls the provider for every PROCESSING order and applies
// terminal outcomes. Completion fires the commission engine; the
// status-guarded transition plus the per-order commission uniqueness make
// redundant sweeps no-ops.
func (s *OrderService) SyncStatuses(ctx context.Context) error {
	orders, err := s.orderRepo.ListProcessing(100)
	if err != nil {
		return err
	}
	for _, o := range orders {
		st, err := s.client.OrderStatus(ctx, o.Code)
		if err != nil {
			log.Printf("[OrderSync] status %s: %v", o.Code, err)
			continue
		}
		switch st.Status {
		case provider.StatusDelivered:
			if err := s.complete(o.ID); err != nil {
				log.Printf("[OrderSync] complete %s: %v", o.Code, err)
			}
		case provider.StatusFailed:
			if err := s.refund(o.ID); err != nil {
				log.Printf("[OrderSync] refund %s: %v", o.Code, err)
			}
		}
	}
	return nil
}

// complete transitions the order and computes its commission. The
// commission runs outside the transition so a crash between the two is
// healed by the engine's idempotency on the next manual recompute.
func (s *OrderService) complete(orderID uint) error {
	moved, err := s.orderRepo.Transition(orderID, domain.OrderStatusProcessing, domain.OrderStatusCompleted)
	if err != nil {
		return err
	}
	if !moved {
		return nil
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	_, err = s.commissionSvc.ComputeForOrder(order)
	return err
}

// refund fails the order and returns the buyer's money in one transaction.
func (s *OrderService) refund(orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		moved, err := s.orderRepo.WithTx(tx).Transition(orderID, domain.OrderStatusProcessing, domain.OrderStatusRefunded)
		if err != nil {
			return err
		}
		if !moved {
			return nil
		}
		return s.walletRepo.WithTx(tx).Credit(order.UserID, order.Total, domain.WalletTxTypeOrderRefund, order.Code)
	})
}
