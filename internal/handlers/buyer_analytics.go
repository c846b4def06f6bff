// internal/handlers/buyer_analytics.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/surplusline/marketplace-backend/internal/services"
	"github.com/surplusline/marketplace-backend/internal/utils"
)

type BuyerAnalyticsHandler struct {
	buyerService *services.BuyerAnalyticsService
}

func NewBuyerAnalyticsHandler(buyerService *services.BuyerAnalyticsService) *BuyerAnalyticsHandler {
	return &BuyerAnalyticsHandler{
		buyerService: buyerService,
	}
}

// GET /analytics/buyer/overview/:range
func (h *BuyerAnalyticsHandler) GetOverview(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}

	rangeToken := c.Param("range")
	if rangeToken == "" {
		rangeToken = "1m"
	}

	overview, err := h.buyerService.GetBuyerOverview(buyerID, rangeToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, overview)
}
