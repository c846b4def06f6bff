// internal/handlers/sales.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/surplusline/marketplace-backend/internal/models"
	"github.com/surplusline/marketplace-backend/internal/services"
	"github.com/surplusline/marketplace-backend/internal/utils"
)

type SalesHandler struct {
	salesService *services.SalesService
}

func NewSalesHandler(salesService *services.SalesService) *SalesHandler {
	return &SalesHandler{
		salesService: salesService,
	}
}

// POST /sales
func (h *SalesHandler) RecordSale(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	sale, err := h.salesService.RecordSale(sellerID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"sale": sale})
}

// POST /sales/:id/payment-intent
func (h *SalesHandler) CreatePaymentIntent(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}
	saleID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	intent, err := h.salesService.CreatePaymentIntent(buyerID, saleID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, intent)
}

// POST /sales/refund
func (h *SalesHandler) RefundSale(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.RefundSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	sale, err := h.salesService.RefundSale(sellerID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"sale": sale})
}

// DELETE /sales/:id
func (h *SalesHandler) DeleteSale(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}
	saleID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.salesService.DeleteSale(saleID, sellerID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// GET /sales/sold
func (h *SalesHandler) ListSold(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	filter := saleFilterFromQuery(c)
	sales, total, err := h.salesService.ListForSeller(sellerID, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(sales, total, filter.PaginationParams))
}

// GET /sales/purchases
func (h *SalesHandler) ListPurchases(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}

	filter := saleFilterFromQuery(c)
	sales, total, err := h.salesService.ListForBuyer(buyerID, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(sales, total, filter.PaginationParams))
}

func saleFilterFromQuery(c *gin.Context) services.SaleFilter {
	filter := services.SaleFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}
	if status := c.Query("status"); status != "" {
		s := models.SaleStatus(status)
		filter.Status = &s
	}
	return filter
}
