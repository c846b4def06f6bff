// internal/handlers/analytics.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/surplusline/marketplace-backend/internal/services"
	"github.com/surplusline/marketplace-backend/internal/utils"
)

// AnalyticsHandler serves the seller-side dashboards: business overview,
// per-asset performance and drill-down, and customer insights.
type AnalyticsHandler struct {
	overviewService *services.OverviewService
	productService  *services.ProductAnalyticsService
	customerService *services.CustomerInsightService
}

func NewAnalyticsHandler(
	overviewService *services.OverviewService,
	productService *services.ProductAnalyticsService,
	customerService *services.CustomerInsightService,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		overviewService: overviewService,
		productService:  productService,
		customerService: customerService,
	}
}

// GET /analytics/overview/:businessId?range=1m
func (h *AnalyticsHandler) GetOverview(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}

	rangeToken := c.DefaultQuery("range", "1m")

	stats, err := h.overviewService.GetOverviewStats(businessID, ownerID, rangeToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}

// GET /analytics/performance/:businessId?sort_by=profit&order=desc
func (h *AnalyticsHandler) GetPerformance(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}

	sortBy := c.DefaultQuery("sort_by", "created_at")
	order := c.DefaultQuery("order", "desc")

	rows, err := h.productService.GetAllPerformance(businessID, ownerID, sortBy, order)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"performance": rows})
}

// GET /analytics/assets/:assetId?range=30d
func (h *AnalyticsHandler) GetAssetDetails(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	assetID, ok := parseUUIDParam(c, "assetId")
	if !ok {
		return
	}

	rangeToken := c.DefaultQuery("range", "30d")

	details, err := h.productService.GetDetails(assetID, rangeToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, details)
}

// GET /analytics/insights/:businessId
func (h *AnalyticsHandler) GetCustomerInsights(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "businessId")
	if !ok {
		return
	}

	insights, err := h.customerService.GetInsights(businessID, ownerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, insights)
}
