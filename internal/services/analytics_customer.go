// internal/services/analytics_customer.go
package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/surplusline/marketplace-backend/internal/models"
)

// CustomerInsightService groups a business's all-time sales by buyer to
// produce spend, order and retention metrics.
type CustomerInsightService struct {
	db *gorm.DB
}

func NewCustomerInsightService(db *gorm.DB) *CustomerInsightService {
	return &CustomerInsightService{db: db}
}

type CustomerRow struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Company        string    `json:"company,omitempty"`
	Avatar         string    `json:"avatar,omitempty"`
	TotalSpend     float64   `json:"total_spend"`
	TotalOrders    int       `json:"total_orders"`
	FirstOrderDate time.Time `json:"first_order_date"`
	LastOrderDate  time.Time `json:"last_order_date"`
	CustomerType   string    `json:"customer_type"`
}

type CustomerSummary struct {
	TotalCustomers  int     `json:"total_customers"`
	NewCustomers    int     `json:"new_customers"`
	RepeatCustomers int     `json:"repeat_customers"`
	RetentionRate   float64 `json:"retention_rate"`
}

type CustomerInsights struct {
	Summary   CustomerSummary `json:"summary"`
	Customers []CustomerRow   `json:"customers"`
}

// GetInsights fails with ErrBusinessNotFound before aggregating when the
// business is not owned by ownerID.
func (s *CustomerInsightService) GetInsights(businessID, ownerID uuid.UUID) (*CustomerInsights, error) {
	var business models.Business
	if err := s.db.Where("id = ? AND owner_id = ?", businessID, ownerID).First(&business).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var assetIDs []uuid.UUID
	if err := s.db.Model(&models.Asset{}).Where("business_id = ?", businessID).Pluck("id", &assetIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch business assets: %w", err)
	}

	var sales []models.Sale
	if len(assetIDs) > 0 {
		err := s.db.Preload("Buyer").
			Where("asset_id IN ?", assetIDs).
			Where("is_deleted = ?", false).
			Where("status = ?", models.SaleStatusSold).
			Find(&sales).Error
		if err != nil {
			return nil, fmt.Errorf("failed to fetch sales: %w", err)
		}
	}

	return buildCustomerInsights(sales), nil
}

func buildCustomerInsights(sales []models.Sale) *CustomerInsights {
	byBuyer := make(map[uuid.UUID]*CustomerRow)
	var order []uuid.UUID

	for i := range sales {
		sale := &sales[i]
		row, ok := byBuyer[sale.BuyerID]
		if !ok {
			row = &CustomerRow{
				ID:      sale.BuyerID,
				Name:    sale.Buyer.FullName,
				Email:   sale.Buyer.Email,
				Company: sale.Buyer.CompanyName,
				Avatar:  sale.Buyer.AvatarURL,
			}
			byBuyer[sale.BuyerID] = row
			order = append(order, sale.BuyerID)
		}

		row.TotalSpend += sale.SpendAmount()
		row.TotalOrders++

		dealDate := sale.EffectiveDate()
		if row.FirstOrderDate.IsZero() || dealDate.Before(row.FirstOrderDate) {
			row.FirstOrderDate = dealDate
		}
		if dealDate.After(row.LastOrderDate) {
			row.LastOrderDate = dealDate
		}
	}

	customers := make([]CustomerRow, 0, len(order))
	repeatCustomers := 0
	for _, id := range order {
		row := *byBuyer[id]
		if row.TotalOrders > 1 {
			row.CustomerType = "Repeating"
			repeatCustomers++
		} else {
			row.CustomerType = "New"
		}
		customers = append(customers, row)
	}

	sort.SliceStable(customers, func(i, j int) bool { return customers[i].TotalSpend > customers[j].TotalSpend })

	summary := CustomerSummary{
		TotalCustomers:  len(customers),
		RepeatCustomers: repeatCustomers,
		NewCustomers:    len(customers) - repeatCustomers,
	}
	if summary.TotalCustomers > 0 {
		summary.RetentionRate = roundTo(float64(repeatCustomers)/float64(summary.TotalCustomers)*100, 1)
	}

	return &CustomerInsights{Summary: summary, Customers: customers}
}
