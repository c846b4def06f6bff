// internal/services/analytics_buyer_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/surplusline/marketplace-backend/internal/models"
)

// seedPerfectBuyer builds a buyer whose trust components all max out:
// 10 accepted interests (reliability 40, activity 20), 5000 in lifetime
// spend (volume 20) and a 40-day-old account (tenure 20).
func seedPerfectBuyer(t *testing.T, db *gorm.DB) (*models.User, *models.Asset) {
	t.Helper()

	seller := seedUser(t, db, models.UserRoleSeller)
	buyer := seedUser(t, db, models.UserRoleBuyer)
	require.NoError(t, db.Model(buyer).Update("created_at", time.Now().AddDate(0, 0, -40)).Error)

	asset := seedAsset(t, db, seller.ID, nil, 1200, nil)
	for i := 0; i < 10; i++ {
		seedInterest(t, db, asset, buyer.ID, models.InterestStatusAccepted)
	}
	for i := 0; i < 5; i++ {
		seedSale(t, db, asset, buyer.ID, 1000, time.Now().AddDate(0, 0, -i-1))
	}
	return buyer, asset
}

func TestBuyerTrustScoreComponents(t *testing.T) {
	db := newTestDB(t)
	svc := NewBuyerAnalyticsService(db)

	buyer, _ := seedPerfectBuyer(t, db)

	overview, err := svc.GetBuyerOverview(buyer.ID, "1m")
	require.NoError(t, err)

	trust := overview.TrustScore
	assert.Equal(t, 40.0, trust.Reliability)
	assert.Equal(t, 20.0, trust.Activity)
	assert.Equal(t, 20.0, trust.Volume)
	assert.Equal(t, 20.0, trust.Tenure)
	assert.Equal(t, 100, trust.TotalScore)
	assert.True(t, trust.IsEligible)
}

func TestBuyerBadgeAwardedExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewBuyerAnalyticsService(db)

	buyer, _ := seedPerfectBuyer(t, db)

	first, err := svc.GetBuyerOverview(buyer.ID, "1m")
	require.NoError(t, err)
	assert.Equal(t, 1, first.MasteryBadges)

	// The score is still 100 but eligibility is spent.
	second, err := svc.GetBuyerOverview(buyer.ID, "1m")
	require.NoError(t, err)
	assert.Equal(t, 1, second.MasteryBadges)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", buyer.ID).Error)
	assert.Equal(t, 1, stored.MasteryBadges)
	assert.False(t, stored.IsEliteEligible)
}

func TestBuyerBadgeHysteresis(t *testing.T) {
	db := newTestDB(t)
	svc := NewBuyerAnalyticsService(db)

	buyer, _ := seedPerfectBuyer(t, db)

	_, err := svc.GetBuyerOverview(buyer.ID, "1m")
	require.NoError(t, err)

	// Tenure 15 puts the score at 95: inside the hysteresis band, no
	// re-arm yet.
	require.NoError(t, db.Model(buyer).Update("created_at", time.Now().Add(-22*24*time.Hour-12*time.Hour)).Error)
	mid, err := svc.GetBuyerOverview(buyer.ID, "1m")
	require.NoError(t, err)
	assert.Equal(t, 95, mid.TrustScore.TotalScore)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", buyer.ID).Error)
	assert.False(t, stored.IsEliteEligible)
	assert.Equal(t, 1, stored.MasteryBadges)

	// Tenure ~6.7 drops the score below 90 and re-arms eligibility.
	require.NoError(t, db.Model(buyer).Update("created_at", time.Now().AddDate(0, 0, -10)).Error)
	low, err := svc.GetBuyerOverview(buyer.ID, "1m")
	require.NoError(t, err)
	assert.Less(t, low.TrustScore.TotalScore, 90)

	require.NoError(t, db.First(&stored, "id = ?", buyer.ID).Error)
	assert.True(t, stored.IsEliteEligible)
	assert.Equal(t, 1, stored.MasteryBadges)

	// Back to a perfect score: a second badge lands.
	require.NoError(t, db.Model(buyer).Update("created_at", time.Now().AddDate(0, 0, -40)).Error)
	high, err := svc.GetBuyerOverview(buyer.ID, "1m")
	require.NoError(t, err)
	assert.Equal(t, 100, high.TrustScore.TotalScore)
	assert.Equal(t, 2, high.MasteryBadges)
}

func TestBuyerOverviewEmptyHistory(t *testing.T) {
	db := newTestDB(t)
	svc := NewBuyerAnalyticsService(db)

	buyer := seedUser(t, db, models.UserRoleBuyer)

	overview, err := svc.GetBuyerOverview(buyer.ID, "1m")
	require.NoError(t, err)

	assert.Equal(t, 0.0, overview.KPI.TotalSpent)
	assert.Equal(t, 0.0, overview.KPI.ConversionRate)
	assert.Equal(t, 0.0, overview.TrustScore.Reliability)
	assert.False(t, overview.TrustScore.IsEligible)
	assert.Len(t, overview.ChartData, 30)
	assert.Equal(t, 0, overview.MasteryBadges)

	for _, a := range overview.Achievements {
		assert.False(t, a.Earned, a.Code)
	}
}

func TestBuyerOverviewUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewBuyerAnalyticsService(db)

	_, err := svc.GetBuyerOverview(uuid.New(), "1m")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestBuyerConversionRateCountsClosedOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewBuyerAnalyticsService(db)

	seller := seedUser(t, db, models.UserRoleSeller)
	buyer := seedUser(t, db, models.UserRoleBuyer)
	asset := seedAsset(t, db, seller.ID, nil, 100, nil)

	seedInterest(t, db, asset, buyer.ID, models.InterestStatusAccepted)
	seedInterest(t, db, asset, buyer.ID, models.InterestStatusAccepted)
	seedInterest(t, db, asset, buyer.ID, models.InterestStatusRejected)
	seedInterest(t, db, asset, buyer.ID, models.InterestStatusPending)
	seedInterest(t, db, asset, buyer.ID, models.InterestStatusNegotiating)

	overview, err := svc.GetBuyerOverview(buyer.ID, "1m")
	require.NoError(t, err)

	// 2 accepted of 3 closed; open interests do not dilute the rate.
	assert.Equal(t, 66.7, overview.KPI.ConversionRate)
	assert.Equal(t, 5, overview.KPI.TotalInterests)
	assert.Equal(t, 2, overview.KPI.AcceptedInterests)
}

func TestBuyerSavingsAgainstListing(t *testing.T) {
	db := newTestDB(t)
	svc := NewBuyerAnalyticsService(db)

	seller := seedUser(t, db, models.UserRoleSeller)
	buyer := seedUser(t, db, models.UserRoleBuyer)
	asset := seedAsset(t, db, seller.ID, nil, 500, nil)

	seedSale(t, db, asset, buyer.ID, 400, time.Now().AddDate(0, 0, -1))

	overview, err := svc.GetBuyerOverview(buyer.ID, "1m")
	require.NoError(t, err)

	assert.Equal(t, 400.0, overview.KPI.TotalSpent)
	assert.Equal(t, 100.0, overview.KPI.TotalSavings)
	assert.Equal(t, 1, overview.KPI.Acquisitions)

	require.Len(t, overview.Trends.CategorySpend, 1)
	assert.Equal(t, "Machinery", overview.Trends.CategorySpend[0].Name)
}

func TestBuyerAchievements(t *testing.T) {
	db := newTestDB(t)
	svc := NewBuyerAnalyticsService(db)

	seller := seedUser(t, db, models.UserRoleSeller)
	buyer := seedUser(t, db, models.UserRoleBuyer)
	asset := seedAsset(t, db, seller.ID, nil, 500, nil)

	// Five purchases below listing, 2000 total, three in one hour.
	base := time.Now().AddDate(0, 0, -2)
	for i := 0; i < 5; i++ {
		seedSale(t, db, asset, buyer.ID, 400, base.Add(time.Duration(i*10)*time.Minute))
	}

	overview, err := svc.GetBuyerOverview(buyer.ID, "1m")
	require.NoError(t, err)

	earned := make(map[string]bool)
	for _, a := range overview.Achievements {
		earned[a.Code] = a.Earned
	}
	assert.True(t, earned["first_deal"])
	assert.True(t, earned["active_buyer"])
	assert.True(t, earned["negotiation_pro"])
	assert.True(t, earned["high_value"]) // 2000 > 1200
	assert.True(t, earned["fast_mover"])

	// 5 earned achievements unlock the ladder through Market Stalwart.
	unlocked := make(map[string]bool)
	for _, m := range overview.Milestones {
		unlocked[m.Name] = m.Unlocked
	}
	assert.True(t, unlocked["Active Inquirer"])
	assert.True(t, unlocked["Verified Trader"])
	assert.True(t, unlocked["Market Stalwart"])
	assert.False(t, unlocked["Elite Veteran"])
}
