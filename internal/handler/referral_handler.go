package handler

import (
	"net/http"

	"dataplug/internal/middleware"
	"dataplug/internal/repository"
	"dataplug/internal/service"

	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	referralSvc  *service.ReferralService
	referralRepo *repository.ReferralRepository
}

func NewReferralHandler(referralSvc *service.ReferralService, referralRepo *repository.ReferralRepository) *ReferralHandler {
	return &ReferralHandler{referralSvc: referralSvc, referralRepo: referralRepo}
}

// MyCode returns (and creates on first use) the user's referral code.
func (h *ReferralHandler) MyCode(c *gin.Context) {
	userID := middleware.GetUserID(c)
	rc, err := h.referralSvc.MyCode(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "referral error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": rc.Code})
}

// ListMine returns the users this caller referred and their conversion state.
func (h *ReferralHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	list, err := h.referralRepo.ListByReferrerID(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "referral error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"referrals": list})
}
