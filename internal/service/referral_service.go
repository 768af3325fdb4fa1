package service

import (
	"errors"
	"log"
	"time"

	"dataplug/internal/domain"
	"dataplug/internal/models"
	"dataplug/internal/repository"

	"gorm.io/gorm"
)

var ErrNotUpgradable = errors.New("only customers can be upgraded to agent or dealer")

// ReferralService records referral edges at signup and converts them when
// the referred user becomes a seller.
type ReferralService struct {
	referralRepo *repository.ReferralRepository
	userRepo     *repository.UserRepository
}

func NewReferralService(referralRepo *repository.ReferralRepository, userRepo *repository.UserRepository) *ReferralService {
	return &ReferralService{referralRepo: referralRepo, userRepo: userRepo}
}

// ProcessReferralCode records the referral edge for a new signup. Unknown
// and self-referential codes are ignored: a bad code never fails a signup.
func (s *ReferralService) ProcessReferralCode(referralCode string, newUser *models.User) {
	if referralCode == "" {
		return
	}
	rc, err := s.referralRepo.GetByCode(referralCode)
	if err != nil || rc.UserID == newUser.ID {
		return
	}
	if err := s.referralRepo.CreateReferral(&models.Referral{
		ReferrerID:     rc.UserID,
		ReferredUserID: newUser.ID,
	}); err != nil {
		log.Printf("[Referral] failed to create referral: %v", err)
	}
}

// Upgrade promotes a customer to AGENT or DEALER and converts their
// referral edge, making the referrer eligible for commission cuts.
func (s *ReferralService) Upgrade(userID uint, role string) (*models.User, error) {
	if !domain.IsSeller(role) {
		return nil, ErrNotUpgradable
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if u.Role != domain.RoleCustomer {
		return nil, ErrNotUpgradable
	}
	if err := s.userRepo.UpdateRole(userID, role); err != nil {
		return nil, err
	}
	if err := s.referralRepo.MarkConverted(userID, time.Now()); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[Referral] mark converted for user %d: %v", userID, err)
	}
	return s.userRepo.GetByID(userID)
}

// MyCode returns the user's referral code, creating one on first use.
func (s *ReferralService) MyCode(userID uint) (*models.ReferralCode, error) {
	return s.referralRepo.GetOrCreateCode(userID)
}
