package handler

import (
	"errors"
	"net/http"
	"strconv"

	"dataplug/config"
	"dataplug/internal/domain"
	"dataplug/internal/repository"
	"dataplug/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AdminHandler struct {
	cfg            *config.Config
	withdrawalSvc  *service.WithdrawalService
	withdrawalRepo *repository.WithdrawalRepository
	referralSvc    *service.ReferralService
	maturationSvc  *service.MaturationService
	settingsSvc    *service.SettingsService
	walletRepo     *repository.WalletRepository
}

func NewAdminHandler(
	cfg *config.Config,
	withdrawalSvc *service.WithdrawalService,
	withdrawalRepo *repository.WithdrawalRepository,
	referralSvc *service.ReferralService,
	maturationSvc *service.MaturationService,
	settingsSvc *service.SettingsService,
	walletRepo *repository.WalletRepository,
) *AdminHandler {
	return &AdminHandler{
		cfg:            cfg,
		withdrawalSvc:  withdrawalSvc,
		withdrawalRepo: withdrawalRepo,
		referralSvc:    referralSvc,
		maturationSvc:  maturationSvc,
		settingsSvc:    settingsSvc,
		walletRepo:     walletRepo,
	}
}

// ListWithdrawals returns the withdrawal queue for one status.
func (h *AdminHandler) ListWithdrawals(c *gin.Context) {
	status := c.DefaultQuery("status", domain.WithdrawalStatusPending)
	limit, offset := pagination(c)
	list, err := h.withdrawalRepo.ListByStatus(status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "withdrawal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list})
}

// TransitionWithdrawal advances a withdrawal one state forward, or rejects
// it (returning its funds to available).
func (h *AdminHandler) TransitionWithdrawal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid withdrawal id"})
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var w interface{}
	if req.Status == domain.WithdrawalStatusRejected {
		w, err = h.withdrawalSvc.Reject(uint(id), req.Reason)
	} else {
		w, err = h.withdrawalSvc.Advance(uint(id), req.Status)
	}
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": "invalid state transition"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transition failed"})
		return
	}
	c.JSON(http.StatusOK, w)
}

// UpgradeUser promotes a customer to AGENT or DEALER and converts any
// referral edge pointing at them.
func (h *AdminHandler) UpgradeUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.referralSvc.Upgrade(uint(id), req.Role)
	if err != nil {
		if errors.Is(err, service.ErrNotUpgradable) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upgrade failed"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// ListSettings returns the stored runtime settings.
func (h *AdminHandler) ListSettings(c *gin.Context) {
	list, err := h.settingsSvc.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settings error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": list})
}

// UpdateSetting persists one runtime setting and applies it immediately.
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	var req struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	key := c.Param("key")
	if err := h.settingsSvc.Update(key, req.Value); err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownSetting):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidSetting):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "settings error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": req.Value})
}

// CreditWallet tops up a user's wallet, e.g. for an offline bank deposit.
func (h *AdminHandler) CreditWallet(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var req struct {
		Amount    decimal.Decimal `json:"amount" binding:"required"`
		Reference string          `json:"reference" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}
	w, err := h.walletRepo.GetOrCreate(uint(id), h.cfg.Ledger.Currency)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	if err := h.walletRepo.Credit(w.UserID, req.Amount, domain.WalletTxTypeTopup, req.Reference); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": w.UserID, "credited": req.Amount})
}

// RunMaturation triggers the maturation sweep on demand.
func (h *AdminHandler) RunMaturation(c *gin.Context) {
	if err := h.maturationSvc.Sweep(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sweep failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"swept": true})
}
