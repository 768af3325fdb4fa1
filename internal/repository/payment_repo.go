package repository

import (
	"dataplug/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *PaymentRepository) WithTx(tx *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: tx}
}

// Create persists a verified payment reference. The unique index on
// reference makes a second recovery of the same payment fail.
func (r *PaymentRepository) Create(p *models.PaymentReference) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByReference(reference string) (*models.PaymentReference, error) {
	var p models.PaymentReference
	err := r.db.Where("reference = ?", reference).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}
