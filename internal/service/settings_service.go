package service

import (
	"errors"
	"log"
	"strconv"

	"dataplug/config"
	"dataplug/internal/models"
	"dataplug/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Runtime-tunable ledger knobs. Stored values override the env config and
// survive restarts via ApplyOverrides at boot.
const (
	SettingReferralPercent  = "referral_percent"
	SettingRefundWindowDays = "refund_window_days"
)

var (
	ErrUnknownSetting = errors.New("unknown setting key")
	ErrInvalidSetting = errors.New("invalid setting value")
)

// SettingsService layers admin-tunable settings over the ledger config.
type SettingsService struct {
	settingRepo *repository.SettingRepository
	ledger      *config.LedgerConfig
}

func NewSettingsService(settingRepo *repository.SettingRepository, ledger *config.LedgerConfig) *SettingsService {
	return &SettingsService{settingRepo: settingRepo, ledger: ledger}
}

// ApplyOverrides loads stored settings into the ledger config. Called once
// at boot, before any commission is computed.
func (s *SettingsService) ApplyOverrides() {
	for _, key := range []string{SettingReferralPercent, SettingRefundWindowDays} {
		v, err := s.settingRepo.Get(key)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("[Settings] load %s: %v", key, err)
			}
			continue
		}
		if err := s.apply(key, v); err != nil {
			log.Printf("[Settings] stored %s=%q ignored: %v", key, v, err)
		}
	}
}

// Update validates, persists and applies one setting.
func (s *SettingsService) Update(key, value string) error {
	if err := s.apply(key, value); err != nil {
		return err
	}
	return s.settingRepo.Set(key, value)
}

func (s *SettingsService) List() ([]models.SystemSetting, error) {
	return s.settingRepo.GetAll()
}

func (s *SettingsService) apply(key, value string) error {
	switch key {
	case SettingReferralPercent:
		d, err := decimal.NewFromString(value)
		if err != nil || d.IsNegative() || d.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return ErrInvalidSetting
		}
		s.ledger.ReferralPercent = d
	case SettingRefundWindowDays:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return ErrInvalidSetting
		}
		s.ledger.RefundWindowDays = n
	default:
		return ErrUnknownSetting
	}
	return nil
}
