package service

import (
	"log"
	"time"

	"dataplug/internal/repository"
)

// MaturationService promotes pending commissions to available once their
// refund window has passed. The underlying bulk update is a conditional set
// that only moves rows forward, so overlapping or repeated sweeps are
// idempotent.
type MaturationService struct {
	commissionRepo *repository.CommissionRepository
}

func NewMaturationService(commissionRepo *repository.CommissionRepository) *MaturationService {
	return &MaturationService{commissionRepo: commissionRepo}
}

func (s *MaturationService) Sweep() error {
	promoted, err := s.commissionRepo.MatureDue(time.Now())
	if err != nil {
		return err
	}
	if promoted > 0 {
		log.Printf("[Maturation] promoted %d commission rows to available", promoted)
	}
	return nil
}
