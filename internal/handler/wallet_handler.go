package handler

import (
	"errors"
	"net/http"

	"dataplug/config"
	"dataplug/internal/middleware"
	"dataplug/internal/repository"
	"dataplug/internal/service"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	cfg         *config.Config
	walletRepo  *repository.WalletRepository
	recoverySvc *service.RecoveryService
}

func NewWalletHandler(cfg *config.Config, walletRepo *repository.WalletRepository, recoverySvc *service.RecoveryService) *WalletHandler {
	return &WalletHandler{cfg: cfg, walletRepo: walletRepo, recoverySvc: recoverySvc}
}

// GetBalance returns the current user's wallet balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	w, err := h.walletRepo.GetOrCreate(userID, h.cfg.Ledger.Currency)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"balance":  w.Balance,
		"currency": w.Currency,
	})
}

// GetTransactions returns the user's wallet history, newest first.
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	list, err := h.walletRepo.ListTransactions(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list})
}

// Recover re-verifies a gateway payment reference and credits the wallet
// when the original webhook was missed.
func (h *WalletHandler) Recover(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Reference string `json:"reference" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record, err := h.recoverySvc.Recover(c.Request.Context(), userID, req.Reference)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyRecovered):
			c.JSON(http.StatusConflict, gin.H{"error": "reference already credited"})
		case errors.Is(err, service.ErrStaleReference):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "reference is too old to recover"})
		case errors.Is(err, service.ErrVerificationFailed):
			c.JSON(http.StatusBadRequest, gin.H{"error": "reference could not be verified"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "recovery failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reference": record.Reference,
		"amount":    record.Amount,
		"message":   "Wallet credited.",
	})
}
