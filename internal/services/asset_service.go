// internal/services/asset_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/surplusline/marketplace-backend/internal/models"
	"github.com/surplusline/marketplace-backend/internal/utils"
)

type AssetService struct {
	db *gorm.DB
}

func NewAssetService(db *gorm.DB) *AssetService {
	return &AssetService{db: db}
}

type CreateAssetRequest struct {
	BusinessID  *uuid.UUID `json:"business_id,omitempty"`
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description" validate:"required"`
	Category    string     `json:"category" validate:"required,max=100"`
	Condition   string     `json:"condition,omitempty"`
	Price       float64    `json:"price" validate:"required,gt=0"`
	CostPrice   *float64   `json:"cost_price,omitempty" validate:"omitempty,gte=0"`
	Quantity    int        `json:"quantity,omitempty" validate:"omitempty,gte=1"`
	Location    string     `json:"location,omitempty"`
	Images      []string   `json:"images,omitempty"`
}

type UpdateAssetRequest struct {
	Title       *string             `json:"title,omitempty" validate:"omitempty,max=255"`
	Description *string             `json:"description,omitempty"`
	Category    *string             `json:"category,omitempty" validate:"omitempty,max=100"`
	Price       *float64            `json:"price,omitempty" validate:"omitempty,gt=0"`
	CostPrice   *float64            `json:"cost_price,omitempty" validate:"omitempty,gte=0"`
	Quantity    *int                `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Location    *string             `json:"location,omitempty"`
	Status      *models.AssetStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type AssetFilter struct {
	utils.PaginationParams
	SellerID   *uuid.UUID
	BusinessID *uuid.UUID
	Status     *models.AssetStatus
}

func (s *AssetService) CreateAsset(sellerID uuid.UUID, req *CreateAssetRequest) (*models.Asset, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	if req.BusinessID != nil {
		var business models.Business
		if err := s.db.Where("id = ? AND owner_id = ?", *req.BusinessID, sellerID).First(&business).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBusinessNotFound
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	asset := models.Asset{
		SellerID:    sellerID,
		BusinessID:  req.BusinessID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Condition:   req.Condition,
		Price:       req.Price,
		CostPrice:   req.CostPrice,
		Quantity:    quantity,
		Location:    req.Location,
		Images:      pq.StringArray(req.Images),
		Status:      models.AssetStatusActive,
	}

	if err := s.db.Create(&asset).Error; err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}
	return &asset, nil
}

func (s *AssetService) GetAsset(assetID uuid.UUID) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.Preload("Seller").First(&asset, "id = ?", assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &asset, nil
}

func (s *AssetService) ListAssets(filter AssetFilter) ([]models.Asset, int64, error) {
	query := s.db.Model(&models.Asset{})

	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.BusinessID != nil {
		query = query.Where("business_id = ?", *filter.BusinessID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", searchTerm, searchTerm)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count assets: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "title", "price", "views", "category"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var assets []models.Asset
	if err := query.Find(&assets).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch assets: %w", err)
	}

	return assets, total, nil
}

func (s *AssetService) UpdateAsset(assetID, sellerID uuid.UUID, req *UpdateAssetRequest) (*models.Asset, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var asset models.Asset
	if err := s.db.Where("id = ? AND seller_id = ?", assetID, sellerID).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.Title != nil {
		asset.Title = *req.Title
	}
	if req.Description != nil {
		asset.Description = *req.Description
	}
	if req.Category != nil {
		asset.Category = *req.Category
	}
	if req.Price != nil {
		asset.Price = *req.Price
	}
	if req.CostPrice != nil {
		asset.CostPrice = req.CostPrice
	}
	if req.Quantity != nil {
		asset.Quantity = *req.Quantity
	}
	if req.Location != nil {
		asset.Location = *req.Location
	}
	if req.Status != nil {
		asset.Status = *req.Status
	}

	if err := s.db.Save(&asset).Error; err != nil {
		return nil, fmt.Errorf("failed to update asset: %w", err)
	}
	return &asset, nil
}

// IncrementViews bumps the view counter feeding the funnel and
// conversion analytics. Atomic on the database side.
func (s *AssetService) IncrementViews(assetID uuid.UUID) error {
	res := s.db.Model(&models.Asset{}).
		Where("id = ?", assetID).
		Update("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("failed to increment views: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAssetNotFound
	}
	return nil
}
