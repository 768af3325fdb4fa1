package handler

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"dataplug/internal/middleware"
	"dataplug/internal/repository"
	"dataplug/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WithdrawalHandler struct {
	withdrawalSvc  *service.WithdrawalService
	withdrawalRepo *repository.WithdrawalRepository
}

func NewWithdrawalHandler(withdrawalSvc *service.WithdrawalService, withdrawalRepo *repository.WithdrawalRepository) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalSvc: withdrawalSvc, withdrawalRepo: withdrawalRepo}
}

// Create requests a withdrawal against the agent's available commissions.
func (h *WithdrawalHandler) Create(c *gin.Context) {
	agentID := middleware.GetUserID(c)
	var req struct {
		Amount      decimal.Decimal `json:"amount" binding:"required"`
		Destination string          `json:"destination" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	phone := normalizePhone(req.Destination)
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid destination phone number"})
		return
	}
	w, err := h.withdrawalSvc.Request(agentID, req.Amount, phone)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientFunds):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "insufficient available balance"})
		case errors.Is(err, service.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "withdrawal failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":               w.ID,
		"code":             w.Code,
		"requested_amount": w.RequestedAmount,
		"fee_amount":       w.FeeAmount,
		"final_amount":     w.FinalAmount,
		"status":           w.Status,
		"message":          "Withdrawal requested. Payout follows admin approval.",
	})
}

// ListMine returns the agent's withdrawals, newest first.
func (h *WithdrawalHandler) ListMine(c *gin.Context) {
	agentID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	list, err := h.withdrawalRepo.ListByAgent(agentID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "withdrawal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list})
}

var nonDigits = regexp.MustCompile(`\D`)

// normalizePhone reduces a Ghanaian mobile number to 233XXXXXXXXX form.
func normalizePhone(s string) string {
	s = nonDigits.ReplaceAllString(s, "")
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "0") {
		s = "233" + s[1:]
	} else if !strings.HasPrefix(s, "233") {
		s = "233" + s
	}
	if len(s) != 12 {
		return ""
	}
	return s
}
