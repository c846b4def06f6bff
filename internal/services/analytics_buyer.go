// internal/services/analytics_buyer.go
package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/surplusline/marketplace-backend/internal/models"
)

// BuyerAnalyticsService computes the buyer dashboard: range-scoped
// spend/savings KPIs and charts, plus the all-time trust score,
// achievement badges and milestone ladder. It is the only analytics
// path that writes: the mastery-badge state machine persists on the
// buyer's user record.
type BuyerAnalyticsService struct {
	db *gorm.DB
}

func NewBuyerAnalyticsService(db *gorm.DB) *BuyerAnalyticsService {
	return &BuyerAnalyticsService{db: db}
}

type BuyerKPI struct {
	TotalSpent        float64 `json:"total_spent"`
	TotalSavings      float64 `json:"total_savings"`
	Acquisitions      int     `json:"acquisitions"`
	TotalInterests    int     `json:"total_interests"`
	AcceptedInterests int     `json:"accepted_interests"`
	ConversionRate    float64 `json:"conversion_rate"`
}

// TrustScore is the weighted composite; the four contributions sum to
// at most 100 (reliability 40, activity 20, volume 20, tenure 20).
type TrustScore struct {
	Reliability float64 `json:"reliability"`
	Activity    float64 `json:"activity"`
	Volume      float64 `json:"volume"`
	Tenure      float64 `json:"tenure"`
	TotalScore  int     `json:"total_score"`
	IsEligible  bool    `json:"is_eligible"`
}

type Achievement struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Earned      bool   `json:"earned"`
}

type Milestone struct {
	Name     string `json:"name"`
	Level    int    `json:"level"`
	Unlocked bool   `json:"unlocked"`
}

type BuyerTrends struct {
	CategorySpend []NameValue `json:"category_spend"`
}

type BuyerOverview struct {
	KPI           BuyerKPI           `json:"kpi"`
	TrustScore    TrustScore         `json:"trust_score"`
	Achievements  []Achievement      `json:"achievements"`
	Milestones    []Milestone        `json:"milestones"`
	MasteryBadges int                `json:"mastery_badges"`
	Trends        BuyerTrends        `json:"trends"`
	ChartData     []BuyerSeriesPoint `json:"chart_data"`
}

// GetBuyerOverview never fails on empty data; a buyer with no activity
// gets zeroed KPIs and a complete zero-filled chart. The trust score and
// achievements always use all-time records regardless of the requested
// range.
func (s *BuyerAnalyticsService) GetBuyerOverview(buyerID uuid.UUID, rangeToken string) (*BuyerOverview, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", buyerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	now := time.Now()
	tr := ResolveRange(rangeToken, now)

	orders, err := s.fetchBuyerOrders(buyerID, &tr.Start)
	if err != nil {
		return nil, err
	}
	var interests []models.Interest
	if err := s.db.Where("buyer_id = ? AND created_at >= ?", buyerID, tr.Start).Find(&interests).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch interests: %w", err)
	}

	allOrders, err := s.fetchBuyerOrders(buyerID, nil)
	if err != nil {
		return nil, err
	}
	var allInterests []models.Interest
	if err := s.db.Where("buyer_id = ?", buyerID).Find(&allInterests).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch interests: %w", err)
	}

	overview := buildBuyerActivity(orders, interests, tr, now)

	allTimeSpend := 0.0
	for i := range allOrders {
		allTimeSpend += allOrders[i].PaidPrice()
	}

	trust := computeTrustScore(allInterests, allTimeSpend, user.CreatedAt, now)
	if err := s.applyBadgeTransition(&user, trust.TotalScore); err != nil {
		return nil, err
	}

	overview.TrustScore = trust
	overview.Achievements = computeAchievements(allOrders, allTimeSpend)
	overview.Milestones = computeMilestones(earnedCount(overview.Achievements), trust.TotalScore)
	overview.MasteryBadges = user.MasteryBadges
	return overview, nil
}

func (s *BuyerAnalyticsService) fetchBuyerOrders(buyerID uuid.UUID, start *time.Time) ([]models.Sale, error) {
	query := s.db.Preload("Asset").
		Where("buyer_id = ?", buyerID).
		Where("is_deleted = ?", false).
		Where("status = ?", models.SaleStatusSold)
	if start != nil {
		query = query.Where("deal_date >= ?", *start)
	}

	var orders []models.Sale
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, nil
}

func buildBuyerActivity(orders []models.Sale, interests []models.Interest, tr TimeRange, now time.Time) *BuyerOverview {
	var totalSpent, totalSavings float64
	categorySpend := make(map[string]float64)
	var categoryOrder []string

	window := newBucketWindow(tr, now)
	chart := make([]BuyerSeriesPoint, window.Len())
	for i, label := range window.labels {
		chart[i].Name = label
	}

	for i := range orders {
		order := &orders[i]
		paid := order.PaidPrice()

		// Fall back to the paid price when the asset (and hence the
		// original listing price) is gone, so savings reads as zero.
		original := paid
		if order.Asset.ID != uuid.Nil {
			original = order.Asset.Price
		}
		savings := math.Max(0, original-paid)

		totalSpent += paid
		totalSavings += savings

		if order.Asset.ID != uuid.Nil {
			cat := order.Asset.Category
			if cat == "" {
				cat = "Other"
			}
			if _, ok := categorySpend[cat]; !ok {
				categoryOrder = append(categoryOrder, cat)
			}
			categorySpend[cat] += paid
		}

		if idx, ok := window.IndexOf(order.EffectiveDate()); ok {
			chart[idx].Spent += paid
			chart[idx].Savings += savings
		}
	}

	accepted, rejected := 0, 0
	for i := range interests {
		switch interests[i].Status {
		case models.InterestStatusAccepted:
			accepted++
		case models.InterestStatusRejected:
			rejected++
		}
	}

	kpi := BuyerKPI{
		TotalSpent:        totalSpent,
		TotalSavings:      totalSavings,
		Acquisitions:      len(orders),
		TotalInterests:    len(interests),
		AcceptedInterests: accepted,
	}
	// Success rate over closed interactions only.
	if closed := accepted + rejected; closed > 0 {
		kpi.ConversionRate = roundTo(float64(accepted)/float64(closed)*100, 1)
	}

	trendRows := make([]NameValue, 0, len(categoryOrder))
	for _, name := range categoryOrder {
		trendRows = append(trendRows, NameValue{Name: name, Value: categorySpend[name]})
	}
	sort.SliceStable(trendRows, func(i, j int) bool { return trendRows[i].Value > trendRows[j].Value })

	return &BuyerOverview{
		KPI:       kpi,
		Trends:    BuyerTrends{CategorySpend: trendRows},
		ChartData: chart,
	}
}

func computeTrustScore(allInterests []models.Interest, allTimeSpend float64, accountCreated, now time.Time) TrustScore {
	accepted, rejected := 0, 0
	for i := range allInterests {
		switch allInterests[i].Status {
		case models.InterestStatusAccepted:
			accepted++
		case models.InterestStatusRejected:
			rejected++
		}
	}

	var reliability float64
	if closed := accepted + rejected; closed > 0 {
		reliability = float64(accepted) / float64(closed) * 100
	}

	accountAgeDays := now.Sub(accountCreated).Hours() / 24

	score := TrustScore{
		Reliability: reliability * 0.4,
		Activity:    math.Min(float64(len(allInterests))/10, 1) * 20,
		Volume:      math.Min(allTimeSpend/5000, 1) * 20,
		Tenure:      math.Min(accountAgeDays/30, 1) * 20,
	}
	score.TotalScore = int(math.Round(score.Reliability + score.Activity + score.Volume + score.Tenure))
	score.IsEligible = score.TotalScore >= 75
	return score
}

// applyBadgeTransition runs the persisted two-state machine. Awarding is
// a conditional update keyed on is_elite_eligible, so two concurrent
// overview computations for the same buyer cannot double-increment
// mastery_badges; re-arming below 90 (not 100) leaves a hysteresis band
// that stops score jitter from farming badges.
func (s *BuyerAnalyticsService) applyBadgeTransition(user *models.User, totalScore int) error {
	switch {
	case totalScore == 100:
		res := s.db.Model(&models.User{}).
			Where("id = ? AND is_elite_eligible = ?", user.ID, true).
			Updates(map[string]interface{}{
				"is_elite_eligible": false,
				"mastery_badges":    gorm.Expr("mastery_badges + ?", 1),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to award mastery badge: %w", res.Error)
		}
		if res.RowsAffected == 1 {
			user.IsEliteEligible = false
			user.MasteryBadges++
		}
	case totalScore < 90:
		res := s.db.Model(&models.User{}).
			Where("id = ? AND is_elite_eligible = ?", user.ID, false).
			Update("is_elite_eligible", true)
		if res.Error != nil {
			return fmt.Errorf("failed to re-arm badge eligibility: %w", res.Error)
		}
		if res.RowsAffected == 1 {
			user.IsEliteEligible = true
		}
	}
	return nil
}

const highValueSpendThreshold = 1200

func computeAchievements(allOrders []models.Sale, allTimeSpend float64) []Achievement {
	belowListing := 0
	for i := range allOrders {
		order := &allOrders[i]
		if order.Asset.ID != uuid.Nil && order.PaidPrice() < order.Asset.Price {
			belowListing++
		}
	}

	dates := make([]time.Time, len(allOrders))
	for i := range allOrders {
		dates[i] = allOrders[i].EffectiveDate()
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	fastMover := false
	for i := 0; i+2 < len(dates); i++ {
		if dates[i+2].Sub(dates[i]) <= time.Hour {
			fastMover = true
			break
		}
	}

	return []Achievement{
		{
			Code:        "first_deal",
			Name:        "First Deal",
			Description: "Closed a first purchase",
			Earned:      len(allOrders) >= 1,
		},
		{
			Code:        "active_buyer",
			Name:        "Active Buyer",
			Description: "Closed five or more purchases",
			Earned:      len(allOrders) >= 5,
		},
		{
			Code:        "negotiation_pro",
			Name:        "Negotiation Pro",
			Description: "Closed three deals below the listing price",
			Earned:      belowListing >= 3,
		},
		{
			Code:        "high_value",
			Name:        "High Value",
			Description: "Lifetime spend above the high-value threshold",
			Earned:      allTimeSpend > highValueSpendThreshold,
		},
		{
			Code:        "fast_mover",
			Name:        "Fast Mover",
			Description: "Closed three deals within a single hour",
			Earned:      fastMover,
		},
	}
}

func earnedCount(achievements []Achievement) int {
	n := 0
	for _, a := range achievements {
		if a.Earned {
			n++
		}
	}
	return n
}

// computeMilestones is a cumulative ladder keyed by earned achievement
// count; "Sentinel of Truth" unlocks on a perfect trust score
// independently of badge count.
func computeMilestones(earned, totalScore int) []Milestone {
	ladder := []struct {
		name   string
		level  int
		badges int
	}{
		{"Active Inquirer", 5, 1},
		{"Verified Trader", 10, 3},
		{"Market Stalwart", 25, 5},
		{"Elite Veteran", 50, 10},
	}

	milestones := make([]Milestone, 0, len(ladder)+1)
	for _, m := range ladder {
		milestones = append(milestones, Milestone{Name: m.name, Level: m.level, Unlocked: earned >= m.badges})
	}
	milestones = append(milestones, Milestone{Name: "Sentinel of Truth", Level: 100, Unlocked: totalScore == 100})
	return milestones
}
