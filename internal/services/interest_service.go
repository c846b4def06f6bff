// internal/services/interest_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/surplusline/marketplace-backend/internal/models"
	"github.com/surplusline/marketplace-backend/internal/utils"
)

type InterestService struct {
	db *gorm.DB
}

func NewInterestService(db *gorm.DB) *InterestService {
	return &InterestService{db: db}
}

type CreateInterestRequest struct {
	AssetID uuid.UUID `json:"asset_id" validate:"required"`
	Message string    `json:"message,omitempty" validate:"max=2000"`
}

// CreateInterest opens a lead in the pending state; the seller is
// resolved from the asset.
func (s *InterestService) CreateInterest(buyerID uuid.UUID, req *CreateInterestRequest) (*models.Interest, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var asset models.Asset
	if err := s.db.First(&asset, "id = ?", req.AssetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	interest := models.Interest{
		BuyerID:  buyerID,
		SellerID: asset.SellerID,
		AssetID:  asset.ID,
		Message:  req.Message,
		Status:   models.InterestStatusPending,
	}
	if err := s.db.Create(&interest).Error; err != nil {
		return nil, fmt.Errorf("failed to create interest: %w", err)
	}
	return &interest, nil
}

// StartNegotiation moves a pending lead to negotiating and stamps the
// negotiation start, which later feeds the sale's negotiation duration.
func (s *InterestService) StartNegotiation(interestID, sellerID uuid.UUID) (*models.Interest, error) {
	interest, err := s.ownedOpenInterest(interestID, sellerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	interest.Status = models.InterestStatusNegotiating
	interest.NegotiationStartDate = &now

	if err := s.db.Save(interest).Error; err != nil {
		return nil, fmt.Errorf("failed to update interest: %w", err)
	}
	return interest, nil
}

func (s *InterestService) Accept(interestID, sellerID uuid.UUID) (*models.Interest, error) {
	return s.close(interestID, sellerID, models.InterestStatusAccepted)
}

func (s *InterestService) Reject(interestID, sellerID uuid.UUID) (*models.Interest, error) {
	return s.close(interestID, sellerID, models.InterestStatusRejected)
}

func (s *InterestService) close(interestID, sellerID uuid.UUID, status models.InterestStatus) (*models.Interest, error) {
	interest, err := s.ownedOpenInterest(interestID, sellerID)
	if err != nil {
		return nil, err
	}

	interest.Status = status
	if err := s.db.Save(interest).Error; err != nil {
		return nil, fmt.Errorf("failed to update interest: %w", err)
	}
	return interest, nil
}

func (s *InterestService) ownedOpenInterest(interestID, sellerID uuid.UUID) (*models.Interest, error) {
	var interest models.Interest
	if err := s.db.First(&interest, "id = ?", interestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInterestNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if interest.SellerID != sellerID {
		return nil, ErrInterestNotOwned
	}
	if interest.Status == models.InterestStatusAccepted || interest.Status == models.InterestStatusRejected {
		return nil, ErrInterestNotOpen
	}
	return &interest, nil
}

func (s *InterestService) ListForSeller(sellerID uuid.UUID, params utils.PaginationParams) ([]models.Interest, int64, error) {
	return s.list(s.db.Where("seller_id = ?", sellerID), params)
}

func (s *InterestService) ListForBuyer(buyerID uuid.UUID, params utils.PaginationParams) ([]models.Interest, int64, error) {
	return s.list(s.db.Where("buyer_id = ?", buyerID), params)
}

func (s *InterestService) list(query *gorm.DB, params utils.PaginationParams) ([]models.Interest, int64, error) {
	query = query.Model(&models.Interest{}).Preload("Asset").Preload("Buyer")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count interests: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var interests []models.Interest
	if err := query.Find(&interests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch interests: %w", err)
	}
	return interests, total, nil
}
