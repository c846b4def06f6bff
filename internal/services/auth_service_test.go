// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/surplusline/marketplace-backend/internal/config"
	"github.com/surplusline/marketplace-backend/internal/models"
)

func newAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
	}
	return NewAuthService(db, cfg, NewBuyerAnalyticsService(db))
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	resp, err := svc.Register(&RegisterRequest{
		FullName: "Dana Smith",
		Email:    "dana@example.com",
		Password: "SuperSafe1!",
		Role:     models.UserRoleSeller,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.UserRoleSeller, resp.User.Role)
	assert.True(t, resp.User.IsEliteEligible)

	login, err := svc.Login(&LoginRequest{Email: "dana@example.com", Password: "SuperSafe1!"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(&LoginRequest{Email: "dana@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "SuperSafe1!"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	req := &RegisterRequest{
		FullName: "Dana Smith",
		Email:    "dana@example.com",
		Password: "SuperSafe1!",
	}
	_, err := svc.Register(req)
	require.NoError(t, err)

	_, err = svc.Register(req)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterDefaultsToBuyer(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	resp, err := svc.Register(&RegisterRequest{
		FullName: "Sam Lee",
		Email:    "sam@example.com",
		Password: "SuperSafe1!",
	})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleBuyer, resp.User.Role)
}

func TestGetPublicProfileForBuyerIncludesTrust(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	buyer := seedUser(t, db, models.UserRoleBuyer)

	profile, err := svc.GetPublicProfile(buyer.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.TrustScore)
	assert.NotEmpty(t, profile.Achievements)
	assert.Empty(t, profile.Businesses)
}

func TestGetPublicProfileForSellerListsBusinesses(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	seller := seedUser(t, db, models.UserRoleSeller)
	seedBusiness(t, db, seller.ID)

	profile, err := svc.GetPublicProfile(seller.ID)
	require.NoError(t, err)
	assert.Nil(t, profile.TrustScore)
	assert.Len(t, profile.Businesses, 1)
}
