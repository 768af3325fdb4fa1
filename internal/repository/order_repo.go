package repository

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"dataplug/internal/domain"
	"dataplug/internal/models"

	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

// NewOrderCode returns a generated order code, e.g. "DP-3fa29c01".
func NewOrderCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "DP-" + hex.EncodeToString(b), nil
}

// Create persists an order with its items, regenerating the code on collision.
func (r *OrderRepository) Create(o *models.Order) error {
	for i := 0; i < 10; i++ {
		code, err := NewOrderCode()
		if err != nil {
			return err
		}
		o.Code = code
		if err := r.db.Create(o).Error; err == nil {
			return nil
		}
		o.ID = 0
	}
	return fmt.Errorf("failed to generate a unique order code after retries")
}

func (r *OrderRepository) GetByID(id uint) (*models.Order, error) {
	var o models.Order
	err := r.db.Preload("Items").Preload("Items.Product").First(&o, id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetByCode(code string) (*models.Order, error) {
	var o models.Order
	err := r.db.Preload("Items").Where("code = ?", code).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListByUser(userID uint, limit, offset int) ([]models.Order, error) {
	var list []models.Order
	err := r.db.Where("user_id = ?", userID).
		Preload("Items").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

// ListProcessing returns orders still awaiting fulfillment, oldest first.
func (r *OrderRepository) ListProcessing(limit int) ([]models.Order, error) {
	var list []models.Order
	err := r.db.Where("status = ?", domain.OrderStatusProcessing).
		Order("created_at ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// Transition moves an order from one status to another. The conditional
// update returns false when the order was not in the expected status, so a
// redundant sync sweep cannot complete the same order twice.
func (r *OrderRepository) Transition(orderID uint, from, to string) (bool, error) {
	updates := map[string]interface{}{"status": to}
	if to == domain.OrderStatusCompleted {
		now := time.Now()
		updates["completed_at"] = &now
	}
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
