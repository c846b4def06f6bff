// internal/handlers/businesses.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/surplusline/marketplace-backend/internal/services"
	"github.com/surplusline/marketplace-backend/internal/utils"
)

type BusinessHandler struct {
	businessService *services.BusinessService
}

func NewBusinessHandler(businessService *services.BusinessService) *BusinessHandler {
	return &BusinessHandler{
		businessService: businessService,
	}
}

// POST /businesses
func (h *BusinessHandler) CreateBusiness(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	business, err := h.businessService.CreateBusiness(ownerID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"business": business})
}

// GET /businesses/:id
func (h *BusinessHandler) GetBusiness(c *gin.Context) {
	businessID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	business, err := h.businessService.GetBusiness(businessID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"business": business})
}

// GET /businesses/mine
func (h *BusinessHandler) ListMyBusinesses(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	businesses, err := h.businessService.ListForOwner(ownerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"businesses": businesses})
}

// PUT /businesses/:id
func (h *BusinessHandler) UpdateBusiness(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}
	businessID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	business, err := h.businessService.UpdateBusiness(businessID, ownerID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"business": business})
}
