// internal/services/analytics_product.go
package services

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/surplusline/marketplace-backend/internal/models"
)

// ProductAnalyticsService produces per-asset performance rows for a
// business and the deep-dive analytics for a single asset.
type ProductAnalyticsService struct {
	db *gorm.DB
}

func NewProductAnalyticsService(db *gorm.DB) *ProductAnalyticsService {
	return &ProductAnalyticsService{db: db}
}

// PerformanceRow is one asset's lifetime performance. Sale-derived
// fields are nil until the asset has sold; sorting sends nils to the end
// for either direction.
type PerformanceRow struct {
	ID                  uuid.UUID  `json:"id"`
	Title               string     `json:"title"`
	Category            string     `json:"category"`
	Status              string     `json:"status"`
	Views               int64      `json:"views"`
	ListingPrice        float64    `json:"listing_price"`
	CostPrice           float64    `json:"cost_price"`
	SoldPrice           *float64   `json:"sold_price"`
	Profit              *float64   `json:"profit"`
	Margin              *float64   `json:"margin"`
	NegotiationDuration *int       `json:"negotiation_duration"`
	SaleDate            *time.Time `json:"sale_date"`
	CreatedAt           time.Time  `json:"created_at"`
}

// GetAllPerformance returns one row per asset of the business,
// client-sortable by any column.
func (s *ProductAnalyticsService) GetAllPerformance(businessID, ownerID uuid.UUID, sortBy, order string) ([]PerformanceRow, error) {
	var business models.Business
	if err := s.db.Where("id = ? AND owner_id = ?", businessID, ownerID).First(&business).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var assets []models.Asset
	if err := s.db.Where("business_id = ?", businessID).Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch business assets: %w", err)
	}
	if len(assets) == 0 {
		return []PerformanceRow{}, nil
	}

	assetIDs := make([]uuid.UUID, len(assets))
	for i := range assets {
		assetIDs[i] = assets[i].ID
	}

	var sales []models.Sale
	if err := s.db.Where("asset_id IN ? AND is_deleted = ?", assetIDs, false).Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch sales: %w", err)
	}
	var interests []models.Interest
	if err := s.db.Where("asset_id IN ?", assetIDs).Find(&interests).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch interests: %w", err)
	}

	rows := buildPerformanceRows(assets, sales, interests)
	sortPerformanceRows(rows, sortBy, order)
	return rows, nil
}

func buildPerformanceRows(assets []models.Asset, sales []models.Sale, interests []models.Interest) []PerformanceRow {
	saleByAsset := make(map[uuid.UUID]*models.Sale)
	for i := range sales {
		if _, ok := saleByAsset[sales[i].AssetID]; !ok {
			saleByAsset[sales[i].AssetID] = &sales[i]
		}
	}
	interestsByAsset := make(map[uuid.UUID][]*models.Interest)
	for i := range interests {
		interestsByAsset[interests[i].AssetID] = append(interestsByAsset[interests[i].AssetID], &interests[i])
	}

	rows := make([]PerformanceRow, 0, len(assets))
	for i := range assets {
		asset := &assets[i]
		row := PerformanceRow{
			ID:           asset.ID,
			Title:        asset.Title,
			Category:     asset.Category,
			Status:       "Inactive",
			Views:        asset.Views,
			ListingPrice: asset.Price,
			CostPrice:    asset.CostPriceOrZero(),
			CreatedAt:    asset.CreatedAt,
		}
		if asset.Status == models.AssetStatusActive {
			row.Status = "Active"
		}

		if sale, ok := saleByAsset[asset.ID]; ok {
			soldPrice := sale.SpendAmount()
			row.SoldPrice = &soldPrice
			if soldPrice != 0 {
				profit := soldPrice - asset.CostPriceOrZero()
				margin := roundTo(profit/soldPrice*100, 1)
				row.Profit = &profit
				row.Margin = &margin
			}

			saleDate := sale.EffectiveDate()
			row.SaleDate = &saleDate

			// Negotiation duration runs from the winning interest to the
			// deal; a sale with no matching interest reads as zero days.
			days := 0
			for _, interest := range interestsByAsset[asset.ID] {
				if interest.BuyerID == sale.BuyerID {
					diff := saleDate.Sub(interest.CreatedAt)
					if diff > 0 {
						days = int(math.Ceil(diff.Hours() / 24))
					}
					break
				}
			}
			row.NegotiationDuration = &days
		}

		rows = append(rows, row)
	}
	return rows
}

// sortPerformanceRows stable-sorts in place. Rows whose sort key is nil
// go to the end whichever direction is requested.
func sortPerformanceRows(rows []PerformanceRow, sortBy, order string) {
	if sortBy == "" {
		sortBy = "created_at"
	}
	asc := order == "asc"

	sort.SliceStable(rows, func(i, j int) bool {
		vi, iok := performanceSortValue(&rows[i], sortBy)
		vj, jok := performanceSortValue(&rows[j], sortBy)
		if iok != jok {
			return iok
		}
		if !iok {
			return false
		}

		switch a := vi.(type) {
		case string:
			b := vj.(string)
			a, b = strings.ToLower(a), strings.ToLower(b)
			if a == b {
				return false
			}
			if asc {
				return a < b
			}
			return a > b
		case time.Time:
			b := vj.(time.Time)
			if a.Equal(b) {
				return false
			}
			if asc {
				return a.Before(b)
			}
			return a.After(b)
		default:
			a2 := vi.(float64)
			b := vj.(float64)
			if a2 == b {
				return false
			}
			if asc {
				return a2 < b
			}
			return a2 > b
		}
	})
}

func performanceSortValue(row *PerformanceRow, sortBy string) (interface{}, bool) {
	switch sortBy {
	case "title":
		return row.Title, true
	case "category":
		return row.Category, true
	case "status":
		return row.Status, true
	case "views":
		return float64(row.Views), true
	case "listing_price":
		return row.ListingPrice, true
	case "cost_price":
		return row.CostPrice, true
	case "sold_price":
		if row.SoldPrice == nil {
			return nil, false
		}
		return *row.SoldPrice, true
	case "profit":
		if row.Profit == nil {
			return nil, false
		}
		return *row.Profit, true
	case "margin":
		if row.Margin == nil {
			return nil, false
		}
		return *row.Margin, true
	case "negotiation_duration":
		if row.NegotiationDuration == nil {
			return nil, false
		}
		return float64(*row.NegotiationDuration), true
	case "sale_date":
		if row.SaleDate == nil {
			return nil, false
		}
		return *row.SaleDate, true
	default:
		return row.CreatedAt, true
	}
}

type AssetSummary struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Price        float64   `json:"price"`
	Views        int64     `json:"views"`
	Status       string    `json:"status"`
	AvailableQty int       `json:"available_qty"`
	ImageURL     string    `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type AssetMetrics struct {
	TotalOrders             int     `json:"total_orders"`
	TotalRevenue            float64 `json:"total_revenue"`
	TotalProfit             float64 `json:"total_profit"`
	AvgProfit               float64 `json:"avg_profit"`
	AvgTimeToSell           int     `json:"avg_time_to_sell"`
	AvgTimeInterestToSold   float64 `json:"avg_time_interest_to_sold"`
	AvgTimeNegotiationDays  float64 `json:"avg_time_negotiation_days"`
	AvgNegotiatedFinalPrice float64 `json:"avg_negotiated_final_price"`
	DealsPer100Interests    float64 `json:"deals_per_100_interests"`
	ConversionRate          float64 `json:"conversion_rate"`
}

type NegotiationStats struct {
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

type FunnelStats struct {
	Impressions int64 `json:"impressions"`
	Attract     int   `json:"attract"`
	Interact    int   `json:"interact"`
	Convert     int   `json:"convert"`
}

type InterestBreakdown struct {
	PendingRequests     int `json:"pending_requests"`
	NegotiatingRequests int `json:"negotiating_requests"`
	RejectedRequests    int `json:"rejected_requests"`
}

type PriceIntelligence struct {
	ListingPrice   float64 `json:"listing_price"`
	MarketAvgPrice float64 `json:"market_avg_price"`
	PricePosition  string  `json:"price_position"`
	Deviation      float64 `json:"deviation"`
}

type RevenuePoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Profit float64 `json:"profit"`
}

type ViewPoint struct {
	Date  string `json:"date"`
	Views int64  `json:"views"`
}

type AssetTrends struct {
	Revenue []RevenuePoint `json:"revenue"`
	Views   []ViewPoint    `json:"views"`
}

type AssetDetails struct {
	Asset             AssetSummary      `json:"asset"`
	Metrics           AssetMetrics      `json:"metrics"`
	Negotiation       NegotiationStats  `json:"negotiation"`
	Funnel            FunnelStats       `json:"funnel"`
	Breakdown         InterestBreakdown `json:"breakdown"`
	PriceIntelligence PriceIntelligence `json:"price_intelligence"`
	Trends            AssetTrends       `json:"trends"`
}

// GetDetails is the per-asset deep dive. The range accepts "30d" for
// the last thirty days; anything else means all-time.
func (s *ProductAnalyticsService) GetDetails(assetID uuid.UUID, rangeToken string) (*AssetDetails, error) {
	var asset models.Asset
	if err := s.db.First(&asset, "id = ?", assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	now := time.Now()
	startDate := time.Unix(0, 0)
	if rangeToken == "30d" {
		startDate = now.AddDate(0, 0, -30)
	}

	var sales []models.Sale
	err := s.db.Where("asset_id = ? AND is_deleted = ? AND deal_date >= ?", assetID, false, startDate).
		Order("deal_date asc").
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sales: %w", err)
	}

	var interests []models.Interest
	err = s.db.Where("asset_id = ? AND created_at >= ?", assetID, startDate).
		Order("created_at asc").
		Find(&interests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interests: %w", err)
	}

	marketAvgPrice, err := s.marketAveragePrice(&asset)
	if err != nil {
		return nil, err
	}

	return buildAssetDetails(&asset, sales, interests, marketAvgPrice, now), nil
}

// marketAveragePrice benchmarks against sold prices of other assets in
// the same category; with no market sales the asset's own listing price
// stands in.
func (s *ProductAnalyticsService) marketAveragePrice(asset *models.Asset) (float64, error) {
	var marketSales []models.Sale
	err := s.db.Joins("JOIN assets ON assets.id = sales.asset_id").
		Where("assets.category = ? AND assets.id <> ?", asset.Category, asset.ID).
		Where("sales.is_deleted = ? AND sales.status = ?", false, models.SaleStatusSold).
		Find(&marketSales).Error
	if err != nil {
		return 0, fmt.Errorf("failed to fetch market sales: %w", err)
	}

	if len(marketSales) == 0 {
		return asset.Price, nil
	}

	sum := 0.0
	for i := range marketSales {
		sum += marketSales[i].SpendAmount()
	}
	return sum / float64(len(marketSales)), nil
}

func buildAssetDetails(asset *models.Asset, sales []models.Sale, interests []models.Interest, marketAvgPrice float64, now time.Time) *AssetDetails {
	totalOrders := len(sales)
	costPrice := asset.CostPriceOrZero()

	var totalRevenue float64
	for i := range sales {
		totalRevenue += sales[i].TotalAmount
	}
	totalProfit := totalRevenue - float64(totalOrders)*costPrice

	var (
		timeToSellDays        float64
		interestToSoldDays    float64
		dealsWithInterest     int
		negotiatedSales       int
		negotiatedDays        float64
		totalNegotiatedAmount float64
	)

	for i := range sales {
		sale := &sales[i]
		timeToSellDays += sale.EffectiveDate().Sub(asset.CreatedAt).Hours() / 24

		if !sale.DealDate.IsZero() {
			for j := range interests {
				if interests[j].BuyerID == sale.BuyerID {
					dealsWithInterest++
					if diff := sale.DealDate.Sub(interests[j].CreatedAt); diff > 0 {
						interestToSoldDays += diff.Hours() / 24
					}
					break
				}
			}

			if sale.NegotiationDuration > 0 {
				negotiatedSales++
				negotiatedDays += sale.NegotiationDuration
				totalNegotiatedAmount += sale.TotalAmount
			}
		}
	}

	var pending, negotiating, rejected int
	for i := range interests {
		switch interests[i].Status {
		case models.InterestStatusPending:
			pending++
		case models.InterestStatusNegotiating:
			negotiating++
		case models.InterestStatusRejected:
			rejected++
		}
	}

	metrics := AssetMetrics{
		TotalOrders:  totalOrders,
		TotalRevenue: totalRevenue,
		TotalProfit:  totalProfit,
	}
	if totalOrders > 0 {
		metrics.AvgProfit = math.Round(totalProfit / float64(totalOrders))
		metrics.AvgTimeToSell = int(math.Ceil(timeToSellDays / float64(totalOrders)))
	}
	if dealsWithInterest > 0 {
		metrics.AvgTimeInterestToSold = interestToSoldDays / float64(dealsWithInterest)
	}
	if negotiatedSales > 0 {
		metrics.AvgTimeNegotiationDays = negotiatedDays / float64(negotiatedSales)
		metrics.AvgNegotiatedFinalPrice = math.Round(totalNegotiatedAmount / float64(negotiatedSales))
	}
	if len(interests) > 0 {
		metrics.DealsPer100Interests = roundTo(float64(totalOrders)/float64(len(interests))*100, 1)
	}
	if asset.Views > 0 {
		metrics.ConversionRate = roundTo(float64(totalOrders)/float64(asset.Views)*100, 2)
	}

	price := PriceIntelligence{
		ListingPrice:   asset.Price,
		MarketAvgPrice: math.Round(marketAvgPrice),
		PricePosition:  "Underpriced",
	}
	if asset.Price > marketAvgPrice {
		price.PricePosition = "Overpriced"
	}
	if marketAvgPrice > 0 {
		price.Deviation = math.Round((asset.Price - marketAvgPrice) / marketAvgPrice * 100)
	}

	summary := AssetSummary{
		ID:           asset.ID,
		Title:        asset.Title,
		Price:        asset.Price,
		Views:        asset.Views,
		Status:       string(asset.Status),
		AvailableQty: asset.Quantity,
		CreatedAt:    asset.CreatedAt,
	}
	if summary.AvailableQty == 0 {
		summary.AvailableQty = 1
	}
	if len(asset.Images) > 0 {
		summary.ImageURL = asset.Images[0]
	}

	return &AssetDetails{
		Asset:       summary,
		Metrics:     metrics,
		Negotiation: NegotiationStats{Passed: negotiatedSales, Failed: rejected},
		Funnel: FunnelStats{
			Impressions: asset.Views,
			Attract:     len(interests),
			Interact:    negotiating,
			Convert:     totalOrders,
		},
		Breakdown: InterestBreakdown{
			PendingRequests:     pending,
			NegotiatingRequests: negotiating,
			RejectedRequests:    rejected,
		},
		PriceIntelligence: price,
		Trends: AssetTrends{
			Revenue: buildRevenueTrend(sales, costPrice),
			Views:   buildViewsTrend(asset, now),
		},
	}
}

func buildRevenueTrend(sales []models.Sale, costPrice float64) []RevenuePoint {
	byDate := make(map[string]*RevenuePoint)
	var order []string
	for i := range sales {
		sale := &sales[i]
		if sale.DealDate.IsZero() {
			continue
		}
		date := sale.DealDate.Format("2006-01-02")
		point, ok := byDate[date]
		if !ok {
			point = &RevenuePoint{Date: date}
			byDate[date] = point
			order = append(order, date)
		}
		point.Amount += sale.TotalAmount
		point.Profit += sale.TotalAmount - costPrice
	}

	points := make([]RevenuePoint, 0, len(order))
	for _, date := range order {
		points = append(points, *byDate[date])
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// buildViewsTrend synthesizes a plausible cumulative views curve; no
// per-day view log exists. Seeded from the asset id so repeated requests
// draw the same curve, always ending at the real counter.
func buildViewsTrend(asset *models.Asset, now time.Time) []ViewPoint {
	daysSinceCreation := int(math.Ceil(now.Sub(asset.CreatedAt).Hours() / 24))
	viewPoints := daysSinceCreation
	if viewPoints < 1 {
		viewPoints = 1
	}
	if viewPoints > 30 {
		viewPoints = 30
	}

	var seed int64
	for _, b := range asset.ID {
		seed = seed*31 + int64(b)
	}
	rng := rand.New(rand.NewSource(seed))

	trend := make([]ViewPoint, 0, viewPoints)
	var currentViews int64
	for i := 0; i < viewPoints; i++ {
		date := asset.CreatedAt.AddDate(0, 0, i)
		maxDaily := float64(asset.Views) / float64(viewPoints) * 2
		currentViews += int64(rng.Float64() * maxDaily)
		if currentViews > asset.Views {
			currentViews = asset.Views
		}
		if i == viewPoints-1 {
			currentViews = asset.Views
		}
		trend = append(trend, ViewPoint{Date: date.Format("2006-01-02"), Views: currentViews})
	}
	return trend
}
