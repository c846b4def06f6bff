// internal/services/analytics_product_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surplusline/marketplace-backend/internal/models"
)

func TestGetAllPerformanceNilsSortLast(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductAnalyticsService(db)

	seller := seedUser(t, db, models.UserRoleSeller)
	buyer := seedUser(t, db, models.UserRoleBuyer)
	business := seedBusiness(t, db, seller.ID)

	sold := seedAsset(t, db, seller.ID, &business.ID, 200, floatPtr(120))
	unsold := seedAsset(t, db, seller.ID, &business.ID, 400, nil)

	seedSale(t, db, sold, buyer.ID, 180, time.Now().AddDate(0, 0, -1))

	for _, order := range []string{"asc", "desc"} {
		rows, err := svc.GetAllPerformance(business.ID, seller.ID, "profit", order)
		require.NoError(t, err)
		require.Len(t, rows, 2)

		// The never-sold asset has no profit and trails in both
		// directions.
		assert.Equal(t, sold.ID, rows[0].ID, order)
		assert.Equal(t, unsold.ID, rows[1].ID, order)
		assert.Nil(t, rows[1].Profit)
	}

	rows, err := svc.GetAllPerformance(business.ID, seller.ID, "profit", "asc")
	require.NoError(t, err)
	require.NotNil(t, rows[0].Profit)
	assert.Equal(t, 60.0, *rows[0].Profit) // 180 paid - 120 cost
	require.NotNil(t, rows[0].SoldPrice)
	assert.Equal(t, 180.0, *rows[0].SoldPrice)
}

func TestGetAllPerformanceSortsByTitle(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductAnalyticsService(db)

	seller := seedUser(t, db, models.UserRoleSeller)
	business := seedBusiness(t, db, seller.ID)

	a := seedAsset(t, db, seller.ID, &business.ID, 100, nil)
	b := seedAsset(t, db, seller.ID, &business.ID, 100, nil)
	require.NoError(t, db.Model(a).Update("title", "Bandsaw").Error)
	require.NoError(t, db.Model(b).Update("title", "anvil").Error)

	rows, err := svc.GetAllPerformance(business.ID, seller.ID, "title", "asc")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Case-insensitive ordering.
	assert.Equal(t, "anvil", rows[0].Title)
	assert.Equal(t, "Bandsaw", rows[1].Title)
}

func TestGetAllPerformanceRejectsForeignBusiness(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductAnalyticsService(db)

	owner := seedUser(t, db, models.UserRoleSeller)
	stranger := seedUser(t, db, models.UserRoleSeller)
	business := seedBusiness(t, db, owner.ID)

	_, err := svc.GetAllPerformance(business.ID, stranger.ID, "profit", "desc")
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestGetDetails(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductAnalyticsService(db)

	seller := seedUser(t, db, models.UserRoleSeller)
	buyer := seedUser(t, db, models.UserRoleBuyer)
	business := seedBusiness(t, db, seller.ID)
	asset := seedAsset(t, db, seller.ID, &business.ID, 500, floatPtr(300))
	require.NoError(t, db.Model(asset).Update("views", 200).Error)

	seedInterest(t, db, asset, buyer.ID, models.InterestStatusNegotiating)
	seedInterest(t, db, asset, buyer.ID, models.InterestStatusRejected)
	seedInterest(t, db, asset, buyer.ID, models.InterestStatusPending)

	seedSale(t, db, asset, buyer.ID, 450, time.Now().AddDate(0, 0, -2))

	details, err := svc.GetDetails(asset.ID, "30d")
	require.NoError(t, err)

	assert.Equal(t, 1, details.Metrics.TotalOrders)
	assert.Equal(t, 450.0, details.Metrics.TotalRevenue)
	assert.Equal(t, 150.0, details.Metrics.TotalProfit)
	assert.Equal(t, 0.5, details.Metrics.ConversionRate) // 1 of 200 views
	assert.Equal(t, 33.3, details.Metrics.DealsPer100Interests)

	assert.Equal(t, int64(200), details.Funnel.Impressions)
	assert.Equal(t, 3, details.Funnel.Attract)
	assert.Equal(t, 1, details.Funnel.Interact)
	assert.Equal(t, 1, details.Funnel.Convert)

	assert.Equal(t, 1, details.Breakdown.PendingRequests)
	assert.Equal(t, 1, details.Breakdown.NegotiatingRequests)
	assert.Equal(t, 1, details.Breakdown.RejectedRequests)

	// Sole asset in its category benchmarks against its own listing.
	assert.Equal(t, 500.0, details.PriceIntelligence.MarketAvgPrice)
	assert.Equal(t, 0.0, details.PriceIntelligence.Deviation)

	require.NotEmpty(t, details.Trends.Revenue)
	assert.Equal(t, 450.0, details.Trends.Revenue[0].Amount)

	require.NotEmpty(t, details.Trends.Views)
	last := details.Trends.Views[len(details.Trends.Views)-1]
	assert.Equal(t, int64(200), last.Views)
}

func TestGetDetailsZeroViewsZeroConversion(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductAnalyticsService(db)

	seller := seedUser(t, db, models.UserRoleSeller)
	buyer := seedUser(t, db, models.UserRoleBuyer)
	asset := seedAsset(t, db, seller.ID, nil, 100, nil)
	seedSale(t, db, asset, buyer.ID, 100, time.Now().AddDate(0, 0, -1))

	details, err := svc.GetDetails(asset.ID, "30d")
	require.NoError(t, err)
	assert.Equal(t, 0.0, details.Metrics.ConversionRate)
	assert.Equal(t, int64(0), details.Funnel.Impressions)
}

func TestGetDetailsMarketBenchmark(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductAnalyticsService(db)

	seller := seedUser(t, db, models.UserRoleSeller)
	buyer := seedUser(t, db, models.UserRoleBuyer)

	mine := seedAsset(t, db, seller.ID, nil, 150, nil)
	other := seedAsset(t, db, seller.ID, nil, 90, nil)
	seedSale(t, db, other, buyer.ID, 100, time.Now().AddDate(0, 0, -3))

	details, err := svc.GetDetails(mine.ID, "30d")
	require.NoError(t, err)

	assert.Equal(t, 100.0, details.PriceIntelligence.MarketAvgPrice)
	assert.Equal(t, "Overpriced", details.PriceIntelligence.PricePosition)
	assert.Equal(t, 50.0, details.PriceIntelligence.Deviation)
}
