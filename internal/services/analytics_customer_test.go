// internal/services/analytics_customer_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surplusline/marketplace-backend/internal/models"
)

func TestGetInsights(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerInsightService(db)

	seller := seedUser(t, db, models.UserRoleSeller)
	repeat := seedUser(t, db, models.UserRoleBuyer)
	oneOff := seedUser(t, db, models.UserRoleBuyer)
	business := seedBusiness(t, db, seller.ID)
	asset := seedAsset(t, db, seller.ID, &business.ID, 300, nil)

	now := time.Now()
	seedSale(t, db, asset, repeat.ID, 300, now.AddDate(0, 0, -10))
	seedSale(t, db, asset, repeat.ID, 250, now.AddDate(0, 0, -2))
	seedSale(t, db, asset, oneOff.ID, 300, now.AddDate(0, 0, -5))

	insights, err := svc.GetInsights(business.ID, seller.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, insights.Summary.TotalCustomers)
	assert.Equal(t, 1, insights.Summary.RepeatCustomers)
	assert.Equal(t, 1, insights.Summary.NewCustomers)
	assert.Equal(t, 50.0, insights.Summary.RetentionRate)

	require.Len(t, insights.Customers, 2)

	// Sorted by total spend, highest first.
	top := insights.Customers[0]
	assert.Equal(t, repeat.ID, top.ID)
	assert.Equal(t, 550.0, top.TotalSpend)
	assert.Equal(t, 2, top.TotalOrders)
	assert.Equal(t, "Repeating", top.CustomerType)
	assert.True(t, top.FirstOrderDate.Before(top.LastOrderDate))

	assert.Equal(t, "New", insights.Customers[1].CustomerType)
}

func TestGetInsightsRejectsForeignBusiness(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerInsightService(db)

	owner := seedUser(t, db, models.UserRoleSeller)
	stranger := seedUser(t, db, models.UserRoleSeller)
	business := seedBusiness(t, db, owner.ID)

	_, err := svc.GetInsights(business.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestGetInsightsEmptyBusiness(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerInsightService(db)

	seller := seedUser(t, db, models.UserRoleSeller)
	business := seedBusiness(t, db, seller.ID)

	insights, err := svc.GetInsights(business.ID, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, insights.Summary.TotalCustomers)
	assert.Equal(t, 0.0, insights.Summary.RetentionRate)
	assert.Empty(t, insights.Customers)
}
