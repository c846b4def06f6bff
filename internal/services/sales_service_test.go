// internal/services/sales_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/surplusline/marketplace-backend/internal/config"
	"github.com/surplusline/marketplace-backend/internal/models"
)

func newSalesService(db *gorm.DB) *SalesService {
	return NewSalesService(db, &config.Config{})
}

func TestRecordSaleIdempotentPerInterest(t *testing.T) {
	db := newTestDB(t)
	svc := newSalesService(db)

	seller := seedUser(t, db, models.UserRoleSeller)
	buyer := seedUser(t, db, models.UserRoleBuyer)
	asset := seedAsset(t, db, seller.ID, nil, 500, nil)

	interest := seedInterest(t, db, asset, buyer.ID, models.InterestStatusAccepted)
	negoStart := time.Now().Add(-60 * time.Hour) // 2.5 days, rounds up to 3
	require.NoError(t, db.Model(interest).Update("negotiation_start_date", negoStart).Error)

	req := &RecordSaleRequest{
		InterestID: interest.ID,
		FinalPrice: floatPtr(450),
	}

	first, err := svc.RecordSale(seller.ID, req)
	require.NoError(t, err)
	assert.Equal(t, models.SaleStatusSold, first.Status)
	assert.Equal(t, 450.0, first.PaidPrice())
	assert.Equal(t, 3.0, first.NegotiationDuration)

	// The replay returns the existing sale instead of duplicating it.
	second, err := svc.RecordSale(seller.ID, req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Sale{}).Where("interest_id = ?", interest.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var stored models.Interest
	require.NoError(t, db.First(&stored, "id = ?", interest.ID).Error)
	require.NotNil(t, stored.SalesStatus)
	assert.Equal(t, models.SaleStatusSold, *stored.SalesStatus)
	assert.Equal(t, models.InterestStatusAccepted, stored.Status)
}

func TestRecordSaleRejectsForeignInterest(t *testing.T) {
	db := newTestDB(t)
	svc := newSalesService(db)

	seller := seedUser(t, db, models.UserRoleSeller)
	stranger := seedUser(t, db, models.UserRoleSeller)
	buyer := seedUser(t, db, models.UserRoleBuyer)
	asset := seedAsset(t, db, seller.ID, nil, 500, nil)
	interest := seedInterest(t, db, asset, buyer.ID, models.InterestStatusAccepted)

	_, err := svc.RecordSale(stranger.ID, &RecordSaleRequest{InterestID: interest.ID})
	assert.ErrorIs(t, err, ErrInterestNotOwned)
}

func TestRecordSaleDefaultsToListingPrice(t *testing.T) {
	db := newTestDB(t)
	svc := newSalesService(db)

	seller := seedUser(t, db, models.UserRoleSeller)
	buyer := seedUser(t, db, models.UserRoleBuyer)
	asset := seedAsset(t, db, seller.ID, nil, 500, nil)
	interest := seedInterest(t, db, asset, buyer.ID, models.InterestStatusAccepted)

	sale, err := svc.RecordSale(seller.ID, &RecordSaleRequest{InterestID: interest.ID})
	require.NoError(t, err)
	assert.Equal(t, 500.0, sale.TotalAmount)
	assert.Equal(t, 0.0, sale.NegotiationDuration)
	assert.Nil(t, sale.FinalPrice)
}

func TestDeleteSaleSoftDeletes(t *testing.T) {
	db := newTestDB(t)
	svc := newSalesService(db)

	seller := seedUser(t, db, models.UserRoleSeller)
	buyer := seedUser(t, db, models.UserRoleBuyer)
	asset := seedAsset(t, db, seller.ID, nil, 100, nil)
	sale := seedSale(t, db, asset, buyer.ID, 100, time.Now())

	require.NoError(t, svc.DeleteSale(sale.ID, seller.ID))

	var stored models.Sale
	require.NoError(t, db.First(&stored, "id = ?", sale.ID).Error)
	assert.True(t, stored.IsDeleted)

	// A second delete no longer matches.
	assert.ErrorIs(t, svc.DeleteSale(sale.ID, seller.ID), ErrSaleNotFound)
}

func TestRefundSaleWithoutPaymentReference(t *testing.T) {
	db := newTestDB(t)
	svc := newSalesService(db)

	seller := seedUser(t, db, models.UserRoleSeller)
	buyer := seedUser(t, db, models.UserRoleBuyer)
	asset := seedAsset(t, db, seller.ID, nil, 100, nil)
	sale := seedSale(t, db, asset, buyer.ID, 100, time.Now())

	refunded, err := svc.RefundSale(seller.ID, &RefundSaleRequest{SaleID: sale.ID, Reason: "damaged on arrival"})
	require.NoError(t, err)
	assert.Equal(t, models.SaleStatusRefunded, refunded.Status)

	// Refunded sales cannot be refunded again.
	_, err = svc.RefundSale(seller.ID, &RefundSaleRequest{SaleID: sale.ID, Reason: "again"})
	assert.ErrorIs(t, err, ErrSaleNotRefundable)
}
