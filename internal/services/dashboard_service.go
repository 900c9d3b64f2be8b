package services

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"bento-backend/internal/domain"
	"bento-backend/internal/repository"
)

type YesterdayComparison struct {
	OrdersChange         int     `json:"orders_change"`
	OrdersChangePercent  float64 `json:"orders_change_percent"`
	RevenueChange        int64   `json:"revenue_change"`
	RevenueChangePercent float64 `json:"revenue_change_percent"`
}

type PopularMenu struct {
	MenuID       uint64 `json:"menu_id"`
	MenuName     string `json:"menu_name"`
	OrderCount   int    `json:"order_count"`
	TotalRevenue int64  `json:"total_revenue"`
}

type HourlyOrders struct {
	Hour       int `json:"hour"`
	OrderCount int `json:"order_count"`
}

type DashboardSummary struct {
	TotalOrders         int                 `json:"total_orders"`
	PendingOrders       int                 `json:"pending_orders"`
	ReadyOrders         int                 `json:"ready_orders"`
	CompletedOrders     int                 `json:"completed_orders"`
	CancelledOrders     int                 `json:"cancelled_orders"`
	TotalSales          int64               `json:"total_sales"`
	AverageOrderValue   float64             `json:"average_order_value"`
	YesterdayComparison YesterdayComparison `json:"yesterday_comparison"`
	PopularMenus        []PopularMenu       `json:"popular_menus"`
	HourlyOrders        []HourlyOrders      `json:"hourly_orders"`
}

type WeeklySales struct {
	Labels []string `json:"labels"`
	Data   []int64  `json:"data"`
}

// DashboardService computes tenant-scoped rollups over finalized orders.
// The store filter is applied in the repository query, never after the
// fact, so one tenant's rows can never reach another tenant's rollup.
type DashboardService struct {
	orders  repository.OrderRepository
	catalog repository.CatalogRepository
	now     func() time.Time
}

func NewDashboardService(orders repository.OrderRepository, catalog repository.CatalogRepository) *DashboardService {
	return &DashboardService{orders: orders, catalog: catalog, now: time.Now}
}

// scope resolves the caller to a store filter: owners aggregate across all
// stores (nil), everyone else only their own.
func scope(user *domain.User) (*uint64, error) {
	if user.IsOwner() {
		return nil, nil
	}
	if user.StoreID == nil {
		return nil, ErrNoStore
	}
	return user.StoreID, nil
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Summary builds today's totals, the yesterday comparison, the top-3 menus,
// and the hourly histogram. Each time window is fetched once and rolled up
// in a single pass; the two window queries run concurrently.
func (s *DashboardService) Summary(ctx context.Context, user *domain.User) (*DashboardSummary, error) {
	storeID, err := scope(user)
	if err != nil {
		return nil, err
	}

	todayStart := dayStart(s.now())
	tomorrowStart := todayStart.AddDate(0, 0, 1)
	yesterdayStart := todayStart.AddDate(0, 0, -1)

	var todayOrders, yesterdayOrders []domain.Order
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		todayOrders, err = s.orders.Between(gctx, storeID, todayStart, tomorrowStart)
		return err
	})
	g.Go(func() error {
		var err error
		yesterdayOrders, err = s.orders.Between(gctx, storeID, yesterdayStart, todayStart)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		TotalOrders:  len(todayOrders),
		PopularMenus: []PopularMenu{},
	}

	menuAggs := make(map[uint64]*menuAgg)
	hourly := make([]int, 24)

	for _, o := range todayOrders {
		switch o.Status {
		case domain.StatusPending:
			summary.PendingOrders++
		case domain.StatusReady:
			summary.ReadyOrders++
		case domain.StatusCompleted:
			summary.CompletedOrders++
		case domain.StatusCancelled:
			summary.CancelledOrders++
		}

		hourly[o.OrderedAt.Hour()]++

		if o.Status != domain.StatusCancelled {
			summary.TotalSales += o.TotalPrice
			agg, ok := menuAggs[o.MenuID]
			if !ok {
				agg = &menuAgg{}
				menuAggs[o.MenuID] = agg
			}
			agg.count++
			agg.revenue += o.TotalPrice
		}
	}

	if effective := summary.TotalOrders - summary.CancelledOrders; effective > 0 {
		summary.AverageOrderValue = float64(summary.TotalSales) / float64(effective)
	}

	yesterdayCount := len(yesterdayOrders)
	var yesterdayRevenue int64
	for _, o := range yesterdayOrders {
		if o.Status != domain.StatusCancelled {
			yesterdayRevenue += o.TotalPrice
		}
	}
	summary.YesterdayComparison = compare(summary.TotalOrders, yesterdayCount, summary.TotalSales, yesterdayRevenue)

	popular, err := s.topMenus(ctx, menuAggs, 3)
	if err != nil {
		return nil, err
	}
	summary.PopularMenus = popular

	summary.HourlyOrders = make([]HourlyOrders, 24)
	for hour := 0; hour < 24; hour++ {
		summary.HourlyOrders[hour] = HourlyOrders{Hour: hour, OrderCount: hourly[hour]}
	}

	return summary, nil
}

func compare(todayCount, yesterdayCount int, todayRevenue, yesterdayRevenue int64) YesterdayComparison {
	cmp := YesterdayComparison{
		OrdersChange:  todayCount - yesterdayCount,
		RevenueChange: todayRevenue - yesterdayRevenue,
	}
	if yesterdayCount > 0 {
		cmp.OrdersChangePercent = round2(float64(cmp.OrdersChange) / float64(yesterdayCount) * 100)
	}
	if yesterdayRevenue > 0 {
		cmp.RevenueChangePercent = round2(float64(cmp.RevenueChange) / float64(yesterdayRevenue) * 100)
	}
	return cmp
}

func round2(v float64) float64 {
	if v < 0 {
		return float64(int64(v*100-0.5)) / 100
	}
	return float64(int64(v*100+0.5)) / 100
}

type menuAgg struct {
	count   int
	revenue int64
}

// topMenus ranks today's non-cancelled orders by order count and resolves
// menu names for the kept entries only.
func (s *DashboardService) topMenus(ctx context.Context, aggs map[uint64]*menuAgg, n int) ([]PopularMenu, error) {
	ranked := make([]PopularMenu, 0, len(aggs))
	for menuID, agg := range aggs {
		ranked = append(ranked, PopularMenu{
			MenuID:       menuID,
			OrderCount:   agg.count,
			TotalRevenue: agg.revenue,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].OrderCount != ranked[j].OrderCount {
			return ranked[i].OrderCount > ranked[j].OrderCount
		}
		if ranked[i].TotalRevenue != ranked[j].TotalRevenue {
			return ranked[i].TotalRevenue > ranked[j].TotalRevenue
		}
		return ranked[i].MenuID < ranked[j].MenuID
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	if len(ranked) == 0 {
		return []PopularMenu{}, nil
	}

	ids := make([]uint64, len(ranked))
	for i, p := range ranked {
		ids[i] = p.MenuID
	}
	menus, err := s.catalog.FindMenus(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uint64]string, len(menus))
	for _, m := range menus {
		names[m.ID] = m.Name
	}
	for i := range ranked {
		ranked[i].MenuName = names[ranked[i].MenuID]
	}
	return ranked, nil
}

// Weekly returns one revenue aggregate per calendar day for the trailing
// seven days including today, oldest first, zero-filling quiet days.
func (s *DashboardService) Weekly(ctx context.Context, user *domain.User) (*WeeklySales, error) {
	storeID, err := scope(user)
	if err != nil {
		return nil, err
	}

	todayStart := dayStart(s.now())
	windowStart := todayStart.AddDate(0, 0, -6)
	windowEnd := todayStart.AddDate(0, 0, 1)

	orders, err := s.orders.Between(ctx, storeID, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	daily := make(map[string]int64, 7)
	for _, o := range orders {
		if o.Status == domain.StatusCancelled {
			continue
		}
		daily[o.OrderedAt.Format("2006-01-02")] += o.TotalPrice
	}

	weekly := &WeeklySales{
		Labels: make([]string, 0, 7),
		Data:   make([]int64, 0, 7),
	}
	for daysAgo := 6; daysAgo >= 0; daysAgo-- {
		day := todayStart.AddDate(0, 0, -daysAgo).Format("2006-01-02")
		weekly.Labels = append(weekly.Labels, day)
		weekly.Data = append(weekly.Data, daily[day])
	}
	return weekly, nil
}
