// internal/services/analytics_overview.go
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

// OverviewService computes the seller-facing business dashboard:
// aggregate KPIs, product rankings, market trends and the zero-filled
// revenue/profit time series.
type OverviewService struct {
	db *gorm.DB
}

func NewOverviewService(db *gorm.DB) *OverviewService {
	return &OverviewService{db: db}
}

type OverviewKPI struct {
	TotalRevenue           float64 `json:"total_revenue"`
	TotalProfit            float64 `json:"total_profit"`
	TotalLoss              float64 `json:"total_loss"`
	NetMargin              float64 `json:"net_margin"`
	TotalUnitsSold         int     `json:"total_units_sold"`
	AvgDealSize            float64 `json:"avg_deal_size"`
	AvgProfit              float64 `json:"avg_profit"`
	AvgDiscount            float64 `json:"avg_discount"`
	AvgProductsPerCustomer float64 `json:"avg_products_per_customer"`
	Customers              int     `json:"customers"`
	BestPeriod             string  `json:"best_period"`
}

type ProductStat struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	Count   int       `json:"count"`
	Revenue float64   `json:"revenue"`
	Profit  float64   `json:"profit"`
	Margin  float64   `json:"margin"`
}

type Rankings struct {
	TopSelling      ProductStat `json:"top_selling"`
	LeastSelling    ProductStat `json:"least_selling"`
	MostProfitable  ProductStat `json:"most_profitable"`
	LeastProfitable ProductStat `json:"least_profitable"`
}

type BestPerformers struct {
	ByQuantity []ProductStat `json:"by_quantity"`
	ByRevenue  []ProductStat `json:"by_revenue"`
	ByProfit   []ProductStat `json:"by_profit"`
}

type WorstPerformers struct {
	ByQuantity []ProductStat `json:"by_quantity"`
	ByLoss     []ProductStat `json:"by_loss"`
	ByMargin   []ProductStat `json:"by_margin"`
}

type Performers struct {
	Best  BestPerformers  `json:"best"`
	Worst WorstPerformers `json:"worst"`
}

type NameValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type MarketTrends struct {
	CategoryRevenue []NameValue `json:"category_revenue"`
	CategoryProfit  []NameValue `json:"category_profit"`
	Locations       []NameValue `json:"locations"`
}

type OverviewStats struct {
	KPI        OverviewKPI   `json:"kpi"`
	Rankings   Rankings      `json:"rankings"`
	Performers Performers    `json:"performers"`
	Trends     MarketTrends  `json:"trends"`
	ChartData  []SeriesPoint `json:"chart_data"`
}

// GetOverviewStats aggregates the business's sold, non-deleted sales
// inside the requested range. The ownership check runs before any
// aggregation and fails with ErrBusinessNotFound.
func (s *OverviewService) GetOverviewStats(businessID, ownerID uuid.UUID, rangeToken string) (*OverviewStats, error) {
	var business models.Business
	if err := s.db.Where("id = ? AND owner_id = ?", businessID, ownerID).First(&business).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	now := time.Now()
	tr := ResolveRange(rangeToken, now)

	sales, err := s.fetchBusinessSales(businessID, tr.Start)
	if err != nil {
		return nil, err
	}

	return buildOverviewStats(sales, tr, now), nil
}

func (s *OverviewService) fetchBusinessSales(businessID uuid.UUID, start time.Time) ([]models.Sale, error) {
	var assetIDs []uuid.UUID
	if err := s.db.Model(&models.Asset{}).Where("business_id = ?", businessID).Pluck("id", &assetIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch business assets: %w", err)
	}
	if len(assetIDs) == 0 {
		return nil, nil
	}

	var sales []models.Sale
	err := s.db.Preload("Asset").
		Where("asset_id IN ?", assetIDs).
		Where("is_deleted = ?", false).
		Where("status = ?", models.SaleStatusSold).
		Where("deal_date >= ?", start).
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sales: %w", err)
	}
	return sales, nil
}

type categoryStat struct {
	name    string
	revenue float64
	profit  float64
}

// buildOverviewStats is a single pass over the fetched sales. The chart
// window is generated zero-filled up front; a sale whose date falls
// outside the window still counts in the aggregate KPIs.
func buildOverviewStats(sales []models.Sale, tr TimeRange, now time.Time) *OverviewStats {
	var totalRevenue, totalCost, totalProfit, totalLoss, totalDiscount float64

	uniqueBuyers := make(map[uuid.UUID]struct{})
	productStats := make(map[uuid.UUID]*ProductStat)
	var productOrder []uuid.UUID
	categoryStats := make(map[string]*categoryStat)
	var categoryOrder []string
	locationCounts := make(map[string]float64)
	var locationOrder []string

	window := newBucketWindow(tr, now)
	chart := make([]SeriesPoint, window.Len())
	for i, label := range window.labels {
		chart[i].Name = label
	}

	for i := range sales {
		sale := &sales[i]
		paid := sale.PaidPrice()
		cost := sale.Asset.CostPriceOrZero()
		profit := paid - cost

		listingPrice := paid
		if sale.Asset.ID != uuid.Nil {
			listingPrice = sale.Asset.Price
		}

		totalRevenue += paid
		totalCost += cost
		totalProfit += profit
		if profit < 0 {
			totalLoss += -profit
		}
		totalDiscount += math.Max(0, listingPrice-paid)

		uniqueBuyers[sale.BuyerID] = struct{}{}

		if sale.Asset.ID != uuid.Nil {
			stat, ok := productStats[sale.AssetID]
			if !ok {
				stat = &ProductStat{ID: sale.AssetID, Title: sale.Asset.Title}
				productStats[sale.AssetID] = stat
				productOrder = append(productOrder, sale.AssetID)
			}
			stat.Count++
			stat.Revenue += paid
			stat.Profit += profit

			cat := sale.Asset.Category
			if cat == "" {
				cat = "Other"
			}
			cStat, ok := categoryStats[cat]
			if !ok {
				cStat = &categoryStat{name: cat}
				categoryStats[cat] = cStat
				categoryOrder = append(categoryOrder, cat)
			}
			cStat.revenue += paid
			cStat.profit += profit

			loc := sale.Asset.Location
			if loc == "" {
				loc = "Unknown"
			}
			if _, ok := locationCounts[loc]; !ok {
				locationOrder = append(locationOrder, loc)
			}
			locationCounts[loc]++
		}

		if idx, ok := window.IndexOf(sale.EffectiveDate()); ok {
			chart[idx].Revenue += paid
			chart[idx].Profit += profit
			chart[idx].Count++
		}
	}

	salesCount := len(sales)
	kpi := OverviewKPI{
		TotalRevenue:   totalRevenue,
		TotalProfit:    totalProfit,
		TotalLoss:      totalLoss,
		TotalUnitsSold: salesCount,
		Customers:      len(uniqueBuyers),
		BestPeriod:     bestPerformanceLabel(chart, tr.Token),
	}
	if totalRevenue > 0 {
		kpi.NetMargin = roundTo(totalProfit/totalRevenue*100, 1)
	}
	if salesCount > 0 {
		kpi.AvgDealSize = math.Round(totalRevenue / float64(salesCount))
		kpi.AvgProfit = math.Round(totalProfit / float64(salesCount))
		kpi.AvgDiscount = math.Round(totalDiscount / float64(salesCount))
	}
	if len(uniqueBuyers) > 0 {
		kpi.AvgProductsPerCustomer = roundTo(float64(salesCount)/float64(len(uniqueBuyers)), 1)
	}

	products := make([]ProductStat, 0, len(productOrder))
	for _, id := range productOrder {
		p := *productStats[id]
		if p.Revenue > 0 {
			p.Margin = p.Profit / p.Revenue * 100
		}
		products = append(products, p)
	}

	byCountDesc := sortedProducts(products, func(a, b ProductStat) bool { return a.Count > b.Count })
	byCountAsc := sortedProducts(products, func(a, b ProductStat) bool { return a.Count < b.Count })
	byProfitDesc := sortedProducts(products, func(a, b ProductStat) bool { return a.Profit > b.Profit })
	byProfitAsc := sortedProducts(products, func(a, b ProductStat) bool { return a.Profit < b.Profit })
	byRevenueDesc := sortedProducts(products, func(a, b ProductStat) bool { return a.Revenue > b.Revenue })
	byMarginAsc := sortedProducts(products, func(a, b ProductStat) bool { return a.Margin < b.Margin })

	return &OverviewStats{
		KPI: kpi,
		Rankings: Rankings{
			TopSelling:      firstOrPlaceholder(byCountDesc),
			LeastSelling:    firstOrPlaceholder(byCountAsc),
			MostProfitable:  firstOrPlaceholder(byProfitDesc),
			LeastProfitable: firstOrPlaceholder(byProfitAsc),
		},
		Performers: Performers{
			Best: BestPerformers{
				ByQuantity: topN(byCountDesc, 5),
				ByRevenue:  topN(byRevenueDesc, 5),
				ByProfit:   topN(byProfitDesc, 5),
			},
			Worst: WorstPerformers{
				ByQuantity: topN(byCountAsc, 5),
				ByLoss:     topN(byProfitAsc, 5),
				ByMargin:   topN(byMarginAsc, 5),
			},
		},
		Trends: MarketTrends{
			CategoryRevenue: categoryTrend(categoryOrder, categoryStats, func(c *categoryStat) float64 { return c.revenue }),
			CategoryProfit:  categoryTrend(categoryOrder, categoryStats, func(c *categoryStat) float64 { return c.profit }),
			Locations:       locationTrend(locationOrder, locationCounts, 8),
		},
		ChartData: chart,
	}
}

// sortedProducts returns a stable-sorted copy; ties keep
// first-encountered order.
func sortedProducts(src []ProductStat, less func(a, b ProductStat) bool) []ProductStat {
	out := make([]ProductStat, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func firstOrPlaceholder(products []ProductStat) ProductStat {
	if len(products) == 0 {
		return ProductStat{Title: "N/A"}
	}
	return products[0]
}

func topN(products []ProductStat, n int) []ProductStat {
	if len(products) > n {
		products = products[:n]
	}
	out := make([]ProductStat, len(products))
	copy(out, products)
	return out
}

func categoryTrend(order []string, stats map[string]*categoryStat, value func(*categoryStat) float64) []NameValue {
	out := make([]NameValue, 0, len(order))
	for _, name := range order {
		out = append(out, NameValue{Name: name, Value: value(stats[name])})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

func locationTrend(order []string, counts map[string]float64, limit int) []NameValue {
	out := make([]NameValue, 0, len(order))
	for _, name := range order {
		out = append(out, NameValue{Name: name, Value: counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func roundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
