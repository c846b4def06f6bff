// internal/services/sales_service.go
package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/refund"
	"gorm.io/gorm"

	"github.com/surplusline/marketplace-backend/internal/config"
	"github.com/surplusline/marketplace-backend/internal/models"
	"github.com/surplusline/marketplace-backend/internal/utils"
)

type SalesService struct {
	db     *gorm.DB
	config *config.Config
}

func NewSalesService(db *gorm.DB, cfg *config.Config) *SalesService {
	// Initialize Stripe
	stripe.Key = cfg.Payment.StripeSecretKey

	return &SalesService{db: db, config: cfg}
}

type RecordSaleRequest struct {
	InterestID uuid.UUID  `json:"interest_id" validate:"required"`
	FinalPrice *float64   `json:"final_price,omitempty" validate:"omitempty,gt=0"`
	Quantity   int        `json:"quantity,omitempty" validate:"omitempty,gte=1"`
	DealDate   *time.Time `json:"deal_date,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
}

// RecordSale settles an accepted interest into a sale record. The
// operation is idempotent per interest: a second call for the same
// interest returns the already recorded sale instead of creating a
// duplicate.
func (s *SalesService) RecordSale(sellerID uuid.UUID, req *RecordSaleRequest) (*models.Sale, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var sale *models.Sale
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var interest models.Interest
		if err := tx.Preload("Asset").First(&interest, "id = ?", req.InterestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInterestNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}
		if interest.SellerID != sellerID {
			return ErrInterestNotOwned
		}

		var existing models.Sale
		err := tx.Where("interest_id = ? AND status = ? AND is_deleted = ?",
			interest.ID, models.SaleStatusSold, false).First(&existing).Error
		if err == nil {
			sale = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("database error: %w", err)
		}

		dealDate := time.Now()
		if req.DealDate != nil {
			dealDate = *req.DealDate
		}

		quantity := req.Quantity
		if quantity == 0 {
			quantity = 1
		}

		paid := interest.Asset.Price
		if req.FinalPrice != nil {
			paid = *req.FinalPrice
		}

		var negotiationDays float64
		if interest.NegotiationStartDate != nil {
			negotiationDays = dealDate.Sub(*interest.NegotiationStartDate).Hours() / 24
			negotiationDays = math.Max(0, math.Ceil(negotiationDays))
		}

		interestID := interest.ID
		record := models.Sale{
			SellerID:            interest.SellerID,
			BuyerID:             interest.BuyerID,
			AssetID:             interest.AssetID,
			InterestID:          &interestID,
			Price:               &interest.Asset.Price,
			FinalPrice:          req.FinalPrice,
			Quantity:            quantity,
			TotalAmount:         paid * float64(quantity),
			DealDate:            dealDate,
			NegotiationDuration: negotiationDays,
			Status:              models.SaleStatusSold,
			Notes:               req.Notes,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}

		soldStatus := models.SaleStatusSold
		updates := map[string]interface{}{
			"status":       models.InterestStatusAccepted,
			"sales_status": soldStatus,
		}
		if err := tx.Model(&models.Interest{}).Where("id = ?", interest.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update interest: %w", err)
		}

		sale = &record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// CreatePaymentIntent opens a Stripe payment intent for the buyer side
// of a recorded sale. The amount is taken from the sale itself so the
// client cannot alter it.
func (s *SalesService) CreatePaymentIntent(buyerID, saleID uuid.UUID) (*PaymentIntentResponse, error) {
	var sale models.Sale
	if err := s.db.First(&sale, "id = ? AND buyer_id = ? AND is_deleted = ?", saleID, buyerID, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	amountInCents := int64(sale.SpendAmount() * 100)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String(s.config.Payment.Currency),
	}
	params.AddMetadata("sale_id", sale.ID.String())
	params.AddMetadata("buyer_id", buyerID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}

type RefundSaleRequest struct {
	SaleID          uuid.UUID `json:"sale_id" validate:"required"`
	PaymentIntentID string    `json:"payment_intent_id,omitempty"`
	Reason          string    `json:"reason" validate:"required"`
}

// RefundSale marks a sale refunded and, when a payment reference is
// provided, pushes the refund through Stripe. Refunded sales drop out
// of every revenue aggregate.
func (s *SalesService) RefundSale(sellerID uuid.UUID, req *RefundSaleRequest) (*models.Sale, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var sale models.Sale
	if err := s.db.First(&sale, "id = ? AND seller_id = ? AND is_deleted = ?", req.SaleID, sellerID, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if sale.Status != models.SaleStatusSold && sale.Status != models.SaleStatusCompleted {
		return nil, ErrSaleNotRefundable
	}

	if req.PaymentIntentID != "" {
		amountInCents := int64(sale.SpendAmount() * 100)
		params := &stripe.RefundParams{
			PaymentIntent: stripe.String(req.PaymentIntentID),
			Amount:        stripe.Int64(amountInCents),
			Reason:        stripe.String("requested_by_customer"),
		}
		if _, err := refund.New(params); err != nil {
			return nil, fmt.Errorf("failed to process refund: %w", err)
		}
	}

	sale.Status = models.SaleStatusRefunded
	if req.Reason != "" {
		sale.Notes = req.Reason
	}
	if err := s.db.Save(&sale).Error; err != nil {
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}
	return &sale, nil
}

// DeleteSale soft-deletes a sale record. The row stays in place but is
// excluded from all analytics.
func (s *SalesService) DeleteSale(saleID, sellerID uuid.UUID) error {
	res := s.db.Model(&models.Sale{}).
		Where("id = ? AND seller_id = ? AND is_deleted = ?", saleID, sellerID, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return fmt.Errorf("failed to delete sale: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSaleNotFound
	}
	return nil
}

type SaleFilter struct {
	utils.PaginationParams
	Status *models.SaleStatus
}

func (s *SalesService) ListForSeller(sellerID uuid.UUID, filter SaleFilter) ([]models.Sale, int64, error) {
	return s.list(s.db.Where("seller_id = ?", sellerID), filter)
}

func (s *SalesService) ListForBuyer(buyerID uuid.UUID, filter SaleFilter) ([]models.Sale, int64, error) {
	return s.list(s.db.Where("buyer_id = ?", buyerID), filter)
}

func (s *SalesService) list(query *gorm.DB, filter SaleFilter) ([]models.Sale, int64, error) {
	query = query.Model(&models.Sale{}).
		Where("is_deleted = ?", false).
		Preload("Asset").Preload("Buyer")

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sales: %w", err)
	}

	allowedSortFields := []string{"created_at", "deal_date", "total_amount", "status"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var sales []models.Sale
	if err := query.Find(&sales).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch sales: %w", err)
	}
	return sales, total, nil
}
