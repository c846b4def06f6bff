// internal/handlers/interests.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/surplusline/marketplace-backend/internal/services"
	"github.com/surplusline/marketplace-backend/internal/utils"
)

type InterestHandler struct {
	interestService *services.InterestService
}

func NewInterestHandler(interestService *services.InterestService) *InterestHandler {
	return &InterestHandler{
		interestService: interestService,
	}
}

// POST /interests
func (h *InterestHandler) CreateInterest(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	interest, err := h.interestService.CreateInterest(buyerID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"interest": interest})
}

// PUT /interests/:id/negotiate
func (h *InterestHandler) StartNegotiation(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}
	interestID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	interest, err := h.interestService.StartNegotiation(interestID, sellerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"interest": interest})
}

// PUT /interests/:id/accept
func (h *InterestHandler) Accept(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}
	interestID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	interest, err := h.interestService.Accept(interestID, sellerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"interest": interest})
}

// PUT /interests/:id/reject
func (h *InterestHandler) Reject(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}
	interestID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	interest, err := h.interestService.Reject(interestID, sellerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"interest": interest})
}

// GET /interests/received
func (h *InterestHandler) ListReceived(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	interests, total, err := h.interestService.ListForSeller(sellerID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(interests, total, params))
}

// GET /interests/sent
func (h *InterestHandler) ListSent(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	interests, total, err := h.interestService.ListForBuyer(buyerID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(interests, total, params))
}
