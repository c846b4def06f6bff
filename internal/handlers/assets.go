// internal/handlers/assets.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/surplusline/marketplace-backend/internal/models"
	"github.com/surplusline/marketplace-backend/internal/services"
	"github.com/surplusline/marketplace-backend/internal/utils"
)

type AssetHandler struct {
	assetService   *services.AssetService
	storageService *services.StorageService
}

func NewAssetHandler(assetService *services.AssetService, storageService *services.StorageService) *AssetHandler {
	return &AssetHandler{
		assetService:   assetService,
		storageService: storageService,
	}
}

// POST /assets
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	asset, err := h.assetService.CreateAsset(sellerID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"asset": asset})
}

// GET /assets/:id
//
// Each fetch also bumps the view counter feeding the conversion funnel.
func (h *AssetHandler) GetAsset(c *gin.Context) {
	assetID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	asset, err := h.assetService.GetAsset(assetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := h.assetService.IncrementViews(assetID); err == nil {
		asset.Views++
	}

	utils.SuccessResponse(c, gin.H{"asset": asset})
}

// GET /assets
func (h *AssetHandler) ListAssets(c *gin.Context) {
	filter := services.AssetFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if sellerID := c.Query("seller_id"); sellerID != "" {
		if id, err := uuid.Parse(sellerID); err == nil {
			filter.SellerID = &id
		}
	}
	if businessID := c.Query("business_id"); businessID != "" {
		if id, err := uuid.Parse(businessID); err == nil {
			filter.BusinessID = &id
		}
	}
	if status := c.Query("status"); status != "" {
		s := models.AssetStatus(status)
		filter.Status = &s
	}

	assets, total, err := h.assetService.ListAssets(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(assets, total, filter.PaginationParams))
}

// PUT /assets/:id
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}
	assetID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	asset, err := h.assetService.UpdateAsset(assetID, sellerID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"asset": asset})
}

// POST /assets/upload-images
func (h *AssetHandler) UploadImages(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, "Invalid multipart form", err.Error())
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		utils.BadRequestResponse(c, "No images provided", nil)
		return
	}

	options := h.storageService.GetDefaultUploadOptions("assets")

	var results []services.UploadResult
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			utils.BadRequestResponse(c, "Failed to read uploaded file", err.Error())
			return
		}

		if err := h.storageService.ValidateImage(file); err != nil {
			file.Close()
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}

		result, err := h.storageService.UploadFile(file, header, options)
		file.Close()
		if err != nil {
			utils.InternalErrorResponse(c, err.Error())
			return
		}
		results = append(results, *result)
	}

	utils.SuccessResponse(c, gin.H{"uploads": results})
}
