// internal/services/business_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/surplusline/marketplace-backend/internal/models"
	"github.com/surplusline/marketplace-backend/internal/utils"
)

type BusinessService struct {
	db *gorm.DB
}

func NewBusinessService(db *gorm.DB) *BusinessService {
	return &BusinessService{db: db}
}

type CreateBusinessRequest struct {
	BusinessName string `json:"business_name" validate:"required,max=255"`
	ImageURL     string `json:"image_url,omitempty"`
	City         string `json:"city,omitempty" validate:"max=100"`
	Place        string `json:"place,omitempty" validate:"max=255"`
}

type UpdateBusinessRequest struct {
	BusinessName *string `json:"business_name,omitempty" validate:"omitempty,max=255"`
	ImageURL     *string `json:"image_url,omitempty"`
	City         *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Place        *string `json:"place,omitempty" validate:"omitempty,max=255"`
}

func (s *BusinessService) CreateBusiness(ownerID uuid.UUID, req *CreateBusinessRequest) (*models.Business, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	business := models.Business{
		OwnerID:      ownerID,
		BusinessName: req.BusinessName,
		ImageURL:     req.ImageURL,
		City:         req.City,
		Place:        req.Place,
	}
	if err := s.db.Create(&business).Error; err != nil {
		return nil, fmt.Errorf("failed to create business: %w", err)
	}
	return &business, nil
}

func (s *BusinessService) GetBusiness(businessID uuid.UUID) (*models.Business, error) {
	var business models.Business
	if err := s.db.First(&business, "id = ?", businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &business, nil
}

func (s *BusinessService) ListForOwner(ownerID uuid.UUID) ([]models.Business, error) {
	var businesses []models.Business
	if err := s.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&businesses).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch businesses: %w", err)
	}
	return businesses, nil
}

func (s *BusinessService) UpdateBusiness(businessID, ownerID uuid.UUID, req *UpdateBusinessRequest) (*models.Business, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var business models.Business
	if err := s.db.Where("id = ? AND owner_id = ?", businessID, ownerID).First(&business).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.BusinessName != nil {
		business.BusinessName = *req.BusinessName
	}
	if req.ImageURL != nil {
		business.ImageURL = *req.ImageURL
	}
	if req.City != nil {
		business.City = *req.City
	}
	if req.Place != nil {
		business.Place = *req.Place
	}

	if err := s.db.Save(&business).Error; err != nil {
		return nil, fmt.Errorf("failed to update business: %w", err)
	}
	return &business, nil
}
