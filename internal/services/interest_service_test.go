// internal/services/interest_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surplusline/marketplace-backend/internal/models"
	"github.com/surplusline/marketplace-backend/internal/utils"
)

func TestInterestLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewInterestService(db)

	seller := seedUser(t, db, models.UserRoleSeller)
	buyer := seedUser(t, db, models.UserRoleBuyer)
	asset := seedAsset(t, db, seller.ID, nil, 100, nil)

	interest, err := svc.CreateInterest(buyer.ID, &CreateInterestRequest{AssetID: asset.ID, Message: "still available?"})
	require.NoError(t, err)
	assert.Equal(t, models.InterestStatusPending, interest.Status)
	assert.Equal(t, seller.ID, interest.SellerID)
	assert.Nil(t, interest.NegotiationStartDate)

	negotiating, err := svc.StartNegotiation(interest.ID, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InterestStatusNegotiating, negotiating.Status)
	require.NotNil(t, negotiating.NegotiationStartDate)

	accepted, err := svc.Accept(interest.ID, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InterestStatusAccepted, accepted.Status)

	// Closed interests cannot transition again.
	_, err = svc.Reject(interest.ID, seller.ID)
	assert.ErrorIs(t, err, ErrInterestNotOpen)
}

func TestInterestOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewInterestService(db)

	seller := seedUser(t, db, models.UserRoleSeller)
	stranger := seedUser(t, db, models.UserRoleSeller)
	buyer := seedUser(t, db, models.UserRoleBuyer)
	asset := seedAsset(t, db, seller.ID, nil, 100, nil)
	interest := seedInterest(t, db, asset, buyer.ID, models.InterestStatusPending)

	_, err := svc.Accept(interest.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrInterestNotOwned)

	_, err = svc.Accept(uuid.New(), seller.ID)
	assert.ErrorIs(t, err, ErrInterestNotFound)
}

func TestCreateInterestUnknownAsset(t *testing.T) {
	db := newTestDB(t)
	svc := NewInterestService(db)

	buyer := seedUser(t, db, models.UserRoleBuyer)

	_, err := svc.CreateInterest(buyer.ID, &CreateInterestRequest{AssetID: uuid.New()})
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestInterestLists(t *testing.T) {
	db := newTestDB(t)
	svc := NewInterestService(db)

	seller := seedUser(t, db, models.UserRoleSeller)
	buyer := seedUser(t, db, models.UserRoleBuyer)
	other := seedUser(t, db, models.UserRoleBuyer)
	asset := seedAsset(t, db, seller.ID, nil, 100, nil)

	seedInterest(t, db, asset, buyer.ID, models.InterestStatusPending)
	seedInterest(t, db, asset, buyer.ID, models.InterestStatusAccepted)
	seedInterest(t, db, asset, other.ID, models.InterestStatusPending)

	params := utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}

	received, total, err := svc.ListForSeller(seller.ID, params)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, received, 3)

	sent, total, err := svc.ListForBuyer(buyer.ID, params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, sent, 2)
}
