// internal/analytics/aggregator.go
package analytics

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hasithasandunlakshan/inventory-console/internal/domain"
	"github.com/hasithasandunlakshan/inventory-console/internal/repository"
	"github.com/hasithasandunlakshan/inventory-console/pkg/dateutil"
)

// TopSupplierLimit caps the ranked supplier list.
const TopSupplierLimit = 5

// Aggregator derives spend and trend reports from the purchase-order
// collection. Every upstream fetch is issued independently so one failing
// service cannot blank the whole report.
type Aggregator struct {
	orders    repository.PORepository
	suppliers repository.SupplierRepository
}

func NewAggregator(orders repository.PORepository, suppliers repository.SupplierRepository) *Aggregator {
	return &Aggregator{orders: orders, suppliers: suppliers}
}

// Report is the assembled dashboard payload. Each section degrades
// independently; inspect State before trusting Value.
type Report struct {
	TopSuppliers  Section[[]domain.SupplierSpend]    `json:"topSuppliers"`
	MonthlyTrends Section[[]domain.MonthlyTrend]     `json:"monthlyTrends"`
	Summary       Section[domain.StatsSummary]       `json:"summary"`
	Categories    Section[[]domain.SupplierCategory] `json:"categories"`
}

// FoldSupplierSpend accumulates total spend and order count per supplier.
// Orders missing a supplier id, supplier name or a numeric amount are skipped
// with a warning, never a thrown error. Map iteration would shuffle ties, so
// first-encounter order is preserved explicitly.
func FoldSupplierSpend(orders []domain.PurchaseOrder) []domain.SupplierSpend {
	byID := make(map[int64]*domain.SupplierSpend)
	var encounterOrder []int64

	for _, order := range orders {
		amount, ok := order.Amount()
		if order.SupplierID == 0 || order.SupplierName == "" || !ok {
			log.Warn().
				Int64("order_id", order.ID).
				Int64("supplier_id", order.SupplierID).
				Msg("order excluded from supplier spend fold")
			continue
		}

		spend, seen := byID[order.SupplierID]
		if !seen {
			spend = &domain.SupplierSpend{SupplierID: order.SupplierID, SupplierName: order.SupplierName}
			byID[order.SupplierID] = spend
			encounterOrder = append(encounterOrder, order.SupplierID)
		}
		spend.TotalSpend += amount
		spend.OrderCount++
	}

	result := make([]domain.SupplierSpend, 0, len(encounterOrder))
	for _, id := range encounterOrder {
		result = append(result, *byID[id])
	}
	return result
}

// TopSuppliers ranks suppliers by total spend, descending, capped at
// TopSupplierLimit. Ties keep first-encounter order (stable sort); no
// secondary key has been agreed with product.
func TopSuppliers(orders []domain.PurchaseOrder) []domain.SupplierSpend {
	ranked := FoldSupplierSpend(orders)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalSpend > ranked[j].TotalSpend
	})
	if len(ranked) > TopSupplierLimit {
		ranked = ranked[:TopSupplierLimit]
	}
	return ranked
}

// FoldMonthlyTrends buckets orders by YYYY-MM. Orders whose date cannot be
// parsed are skipped entirely, so the series is sparse over months with no
// valid orders rather than zero-filled. Output is sorted ascending by month
// key; lexical order is correct for YYYY-MM.
func FoldMonthlyTrends(orders []domain.PurchaseOrder) []domain.MonthlyTrend {
	buckets := make(map[string]*domain.MonthlyTrend)

	for _, order := range orders {
		month, ok := dateutil.ExtractMonth(order.Date)
		if !ok {
			continue
		}

		bucket, seen := buckets[month]
		if !seen {
			bucket = &domain.MonthlyTrend{Month: month}
			buckets[month] = bucket
		}
		bucket.Orders++
		if amount, ok := order.Amount(); ok {
			bucket.Value += amount
		}
	}

	months := make([]string, 0, len(buckets))
	for month := range buckets {
		months = append(months, month)
	}
	sort.Strings(months)

	result := make([]domain.MonthlyTrend, 0, len(months))
	for _, month := range months {
		result = append(result, *buckets[month])
	}
	return result
}

// BuildReport fans out the upstream fetches in parallel and folds the order
// collection into the derived sections. The stats summary comes from the
// server's summary endpoint and is never recomputed from the raw list, so
// divergent status taxonomies cannot double-count.
func (a *Aggregator) BuildReport(ctx context.Context, filter domain.SearchFilter) *Report {
	report := &Report{}

	var ordersSection Section[[]domain.PurchaseOrder]

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ordersSection = FetchWithFallback(gctx, "orders", []domain.PurchaseOrder{}, func(ctx context.Context) ([]domain.PurchaseOrder, error) {
			page, err := a.orders.Search(ctx, filter)
			if err != nil {
				return nil, err
			}
			return page.Content, nil
		})
		return nil
	})

	g.Go(func() error {
		report.Summary = FetchWithFallback(gctx, "stats-summary", domain.StatsSummary{}, func(ctx context.Context) (domain.StatsSummary, error) {
			summary, err := a.orders.StatsSummary(ctx, filter)
			if err != nil {
				return domain.StatsSummary{}, err
			}
			return *summary, nil
		})
		return nil
	})

	g.Go(func() error {
		report.Categories = FetchWithFallback(gctx, "supplier-categories", []domain.SupplierCategory{}, func(ctx context.Context) ([]domain.SupplierCategory, error) {
			if a.suppliers == nil {
				return []domain.SupplierCategory{}, nil
			}
			return a.suppliers.ListCategories(ctx)
		})
		return nil
	})

	// Goroutines degrade instead of erroring, so Wait cannot fail.
	_ = g.Wait()

	if ordersSection.State == SectionOk {
		report.TopSuppliers = Ok(TopSuppliers(ordersSection.Value))
		report.MonthlyTrends = Ok(FoldMonthlyTrends(ordersSection.Value))
	} else {
		report.TopSuppliers = Degraded([]domain.SupplierSpend{}, ordersSection.Err)
		report.MonthlyTrends = Degraded([]domain.MonthlyTrend{}, ordersSection.Err)
	}

	return report
}
