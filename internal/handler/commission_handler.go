package handler

import (
	"net/http"

	"dataplug/internal/middleware"
	"dataplug/internal/repository"
	"dataplug/internal/service"

	"github.com/gin-gonic/gin"
)

type CommissionHandler struct {
	commissionRepo *repository.CommissionRepository
	commissionSvc  *service.CommissionService
}

func NewCommissionHandler(commissionRepo *repository.CommissionRepository, commissionSvc *service.CommissionService) *CommissionHandler {
	return &CommissionHandler{commissionRepo: commissionRepo, commissionSvc: commissionSvc}
}

// List returns the agent's markup commissions, newest first.
func (h *CommissionHandler) List(c *gin.Context) {
	agentID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	list, err := h.commissionRepo.ListByAgent(agentID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "commission error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"commissions": list})
}

// ListReferral returns the user's referral cuts, newest first.
func (h *CommissionHandler) ListReferral(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	list, err := h.commissionRepo.ListReferralByReferrer(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "commission error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"referral_commissions": list})
}

// Summary returns pending/available/withdrawn totals across both ledgers.
func (h *CommissionHandler) Summary(c *gin.Context) {
	userID := middleware.GetUserID(c)
	summary, err := h.commissionSvc.Summarize(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "commission error"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
