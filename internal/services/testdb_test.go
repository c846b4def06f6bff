// internal/services/testdb_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/surplusline/marketplace-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:svc_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Business{},
		&models.Asset{},
		&models.Interest{},
		&models.Sale{},
	))
	return db
}

// sqlite has no gen_random_uuid, so fixtures assign ids themselves.
func seedUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		BaseModel:       models.BaseModel{ID: uuid.New()},
		FullName:        "Test " + string(role),
		Email:           uuid.NewString() + "@example.com",
		PasswordHash:    "x",
		Role:            role,
		IsEliteEligible: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedBusiness(t *testing.T, db *gorm.DB, ownerID uuid.UUID) *models.Business {
	t.Helper()
	business := &models.Business{
		BaseModel:    models.BaseModel{ID: uuid.New()},
		OwnerID:      ownerID,
		BusinessName: "Test Business",
		City:         "Austin",
	}
	require.NoError(t, db.Create(business).Error)
	return business
}

func seedAsset(t *testing.T, db *gorm.DB, sellerID uuid.UUID, businessID *uuid.UUID, price float64, costPrice *float64) *models.Asset {
	t.Helper()
	asset := &models.Asset{
		BaseModel:  models.BaseModel{ID: uuid.New()},
		SellerID:   sellerID,
		BusinessID: businessID,
		Title:      "Asset " + uuid.NewString()[:8],
		Category:   "Machinery",
		Price:      price,
		CostPrice:  costPrice,
		Quantity:   1,
		Location:   "Austin",
		Status:     models.AssetStatusActive,
	}
	require.NoError(t, db.Create(asset).Error)
	return asset
}

func seedSale(t *testing.T, db *gorm.DB, asset *models.Asset, buyerID uuid.UUID, price float64, dealDate time.Time) *models.Sale {
	t.Helper()
	p := price
	sale := &models.Sale{
		BaseModel:   models.BaseModel{ID: uuid.New()},
		SellerID:    asset.SellerID,
		BuyerID:     buyerID,
		AssetID:     asset.ID,
		Price:       &p,
		Quantity:    1,
		TotalAmount: price,
		DealDate:    dealDate,
		Status:      models.SaleStatusSold,
	}
	require.NoError(t, db.Create(sale).Error)
	return sale
}

func seedInterest(t *testing.T, db *gorm.DB, asset *models.Asset, buyerID uuid.UUID, status models.InterestStatus) *models.Interest {
	t.Helper()
	interest := &models.Interest{
		BaseModel: models.BaseModel{ID: uuid.New()},
		BuyerID:   buyerID,
		SellerID:  asset.SellerID,
		AssetID:   asset.ID,
		Status:    status,
	}
	require.NoError(t, db.Create(interest).Error)
	return interest
}

func floatPtr(v float64) *float64 { return &v }
