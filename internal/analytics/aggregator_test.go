package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/hasithasandunlakshan/inventory-console/internal/domain"
)

func orderWith(id, supplierID int64, name, date string, amount any) domain.PurchaseOrder {
	return domain.PurchaseOrder{
		ID:           id,
		SupplierID:   supplierID,
		SupplierName: name,
		Date:         date,
		TotalAmount:  amount,
	}
}

func TestTopSuppliersRanking(t *testing.T) {
	// 3 orders for supplier A totaling 500, 2 for supplier B totaling 1200.
	orders := []domain.PurchaseOrder{
		orderWith(1, 1, "Supplier A", "2024-01-10", 200.0),
		orderWith(2, 1, "Supplier A", "2024-01-15", 150.0),
		orderWith(3, 2, "Supplier B", "2024-01-20", 700.0),
		orderWith(4, 1, "Supplier A", "2024-02-02", 150.0),
		orderWith(5, 2, "Supplier B", "2024-02-08", 500.0),
	}

	top := TopSuppliers(orders)
	if len(top) != 2 {
		t.Fatalf("expected 2 suppliers, got %d", len(top))
	}
	if top[0].SupplierID != 2 || top[0].TotalSpend != 1200 || top[0].OrderCount != 2 {
		t.Fatalf("top supplier = %+v, want supplier B with 1200 over 2 orders", top[0])
	}
	if top[1].SupplierID != 1 || top[1].TotalSpend != 500 || top[1].OrderCount != 3 {
		t.Fatalf("second supplier = %+v, want supplier A with 500 over 3 orders", top[1])
	}
}

func TestTopSuppliersCapAndOrder(t *testing.T) {
	var orders []domain.PurchaseOrder
	for i := int64(1); i <= 7; i++ {
		orders = append(orders, orderWith(i, i, "S", "2024-01-01", float64(i*100)))
	}

	top := TopSuppliers(orders)
	if len(top) != TopSupplierLimit {
		t.Fatalf("expected %d suppliers, got %d", TopSupplierLimit, len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i-1].TotalSpend < top[i].TotalSpend {
			t.Fatalf("ranking not non-increasing at %d: %v < %v", i, top[i-1].TotalSpend, top[i].TotalSpend)
		}
	}
}

func TestTopSuppliersTieKeepsEncounterOrder(t *testing.T) {
	orders := []domain.PurchaseOrder{
		orderWith(1, 10, "First Seen", "2024-01-01", 300.0),
		orderWith(2, 20, "Second Seen", "2024-01-02", 300.0),
	}

	top := TopSuppliers(orders)
	if top[0].SupplierID != 10 || top[1].SupplierID != 20 {
		t.Fatalf("tie broke encounter order: %+v", top)
	}
}

func TestFoldSkipsMalformedOrders(t *testing.T) {
	orders := []domain.PurchaseOrder{
		orderWith(1, 0, "No ID", "2024-01-01", 100.0),             // missing supplier id
		orderWith(2, 5, "", "2024-01-01", 100.0),                  // missing name
		orderWith(3, 5, "Ok Supplier", "2024-01-01", "not-money"), // non-numeric amount
		orderWith(4, 5, "Ok Supplier", "2024-01-01", "NaN"),       // parses, but not finite
		orderWith(5, 5, "Ok Supplier", "2024-01-01", 250.0),
	}

	spend := FoldSupplierSpend(orders)
	if len(spend) != 1 {
		t.Fatalf("expected 1 supplier, got %d", len(spend))
	}
	if spend[0].TotalSpend != 250 || spend[0].OrderCount != 1 {
		t.Fatalf("fold = %+v, want 250 over 1 order", spend[0])
	}
}

// A single record carrying a non-finite amount must not stop the whole
// supplier section from serializing; encoding/json rejects NaN outright.
func TestTopSuppliersSurviveNonFiniteAmounts(t *testing.T) {
	orders := []domain.PurchaseOrder{
		orderWith(1, 1, "Supplier A", "2024-01-05", "NaN"),
		orderWith(2, 1, "Supplier A", "2024-01-06", "+Inf"),
		orderWith(3, 2, "Supplier B", "2024-01-07", 400.0),
	}

	top := TopSuppliers(orders)
	if len(top) != 1 || top[0].SupplierID != 2 {
		t.Fatalf("top suppliers = %+v, want only supplier B", top)
	}
	for _, s := range top {
		if math.IsNaN(s.TotalSpend) || math.IsInf(s.TotalSpend, 0) {
			t.Fatalf("non-finite spend leaked into ranking: %+v", s)
		}
	}
	if _, err := json.Marshal(Ok(top)); err != nil {
		t.Fatalf("section failed to marshal: %v", err)
	}
}

func TestMonthlyTrendsSparseAndSorted(t *testing.T) {
	orders := []domain.PurchaseOrder{
		orderWith(1, 1, "S", "2024-02-15", 300.0),
		orderWith(2, 1, "S", "not-a-date", 999.0), // contributes nothing
		orderWith(3, 1, "S", "2023-11-02", 50.0),
		orderWith(4, 1, "S", "2024-02-20", 100.0),
	}

	trends := FoldMonthlyTrends(orders)
	if len(trends) != 2 {
		t.Fatalf("expected 2 sparse buckets, got %d: %+v", len(trends), trends)
	}
	if trends[0].Month != "2023-11" || trends[1].Month != "2024-02" {
		t.Fatalf("buckets not sorted ascending: %+v", trends)
	}
	if trends[1].Orders != 2 || trends[1].Value != 400 {
		t.Fatalf("2024-02 bucket = %+v, want 2 orders valued 400", trends[1])
	}
}

func TestMonthlyTrendSingleBucketScenario(t *testing.T) {
	orders := []domain.PurchaseOrder{
		orderWith(1, 1, "S", "2024-02-15", 300.0),
		orderWith(2, 1, "S", "garbage", 999.0),
	}

	trends := FoldMonthlyTrends(orders)
	if len(trends) != 1 || trends[0].Month != "2024-02" || trends[0].Value != 300 {
		t.Fatalf("trend = %+v, want exactly one 2024-02 bucket valued 300", trends)
	}
}

// stubOrders implements repository.PORepository for the fetch paths the
// aggregator exercises; everything else is unreachable from BuildReport.
type stubOrders struct {
	searchErr error
	orders    []domain.PurchaseOrder
	statsErr  error
	stats     domain.StatsSummary
}

var errNotUsed = errors.New("not used by aggregator")

func (s *stubOrders) Search(ctx context.Context, filter domain.SearchFilter) (*domain.OrderPage, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return &domain.OrderPage{Content: s.orders, Total: len(s.orders)}, nil
}

func (s *stubOrders) StatsSummary(ctx context.Context, filter domain.SearchFilter) (*domain.StatsSummary, error) {
	if s.statsErr != nil {
		return nil, s.statsErr
	}
	stats := s.stats
	return &stats, nil
}

func (s *stubOrders) Create(context.Context, domain.CreateOrderRequest) (*domain.PurchaseOrder, error) {
	return nil, errNotUsed
}
func (s *stubOrders) Get(context.Context, int64) (*domain.PurchaseOrder, error) {
	return nil, errNotUsed
}
func (s *stubOrders) List(context.Context, int, int) (*domain.OrderPage, error) {
	return nil, errNotUsed
}
func (s *stubOrders) Update(context.Context, int64, domain.UpdateOrderRequest) (*domain.PurchaseOrder, error) {
	return nil, errNotUsed
}
func (s *stubOrders) Delete(context.Context, int64, bool, string) error { return errNotUsed }
func (s *stubOrders) UpdateStatus(context.Context, int64, domain.StatusChangeRequest) (*domain.PurchaseOrder, error) {
	return nil, errNotUsed
}
func (s *stubOrders) Receive(context.Context, int64, domain.ReceiveRequest) (*domain.PurchaseOrder, error) {
	return nil, errNotUsed
}
func (s *stubOrders) AddItem(context.Context, int64, domain.ItemInput) error { return errNotUsed }
func (s *stubOrders) UpdateItem(context.Context, int64, int64, domain.ItemPatch) error {
	return errNotUsed
}
func (s *stubOrders) RemoveItem(context.Context, int64, int64) error            { return errNotUsed }
func (s *stubOrders) UpdateItemQuantity(context.Context, int64, int64, int) error { return errNotUsed }
func (s *stubOrders) GetNotes(context.Context, int64) ([]domain.PurchaseOrderNote, error) {
	return nil, errNotUsed
}
func (s *stubOrders) AddNote(context.Context, int64, domain.NoteInput) (*domain.PurchaseOrderNote, error) {
	return nil, errNotUsed
}
func (s *stubOrders) GetAttachments(context.Context, int64) ([]domain.PurchaseOrderAttachment, error) {
	return nil, errNotUsed
}
func (s *stubOrders) AddAttachment(context.Context, int64, string, io.Reader, string) (*domain.PurchaseOrderAttachment, error) {
	return nil, errNotUsed
}
func (s *stubOrders) DownloadAttachment(context.Context, int64, int64) (io.ReadCloser, string, error) {
	return nil, "", errNotUsed
}
func (s *stubOrders) GetAudit(context.Context, int64) ([]domain.PurchaseOrderAudit, error) {
	return nil, errNotUsed
}
func (s *stubOrders) ExportCSV(context.Context, domain.SearchFilter) (io.ReadCloser, error) {
	return nil, errNotUsed
}
func (s *stubOrders) Import(context.Context, string, io.Reader) error { return errNotUsed }

type stubSuppliers struct {
	categories []domain.SupplierCategory
	err        error
}

func (s *stubSuppliers) ListSuppliers(context.Context) ([]domain.Supplier, error) {
	return nil, errNotUsed
}

func (s *stubSuppliers) ListCategories(context.Context) ([]domain.SupplierCategory, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.categories, nil
}

func TestBuildReportDegradesSectionsIndependently(t *testing.T) {
	repo := &stubOrders{
		orders: []domain.PurchaseOrder{
			orderWith(1, 2, "Supplier B", "2024-02-01", 1200.0),
		},
		statsErr: errors.New("summary service down"),
	}
	agg := NewAggregator(repo, &stubSuppliers{err: errors.New("supplier service down")})

	report := agg.BuildReport(context.Background(), domain.SearchFilter{})

	if report.TopSuppliers.State != SectionOk {
		t.Fatalf("top suppliers should render, got %s", report.TopSuppliers.State)
	}
	if len(report.TopSuppliers.Value) != 1 || report.TopSuppliers.Value[0].SupplierID != 2 {
		t.Fatalf("top suppliers = %+v", report.TopSuppliers.Value)
	}
	if report.Summary.State != SectionDegraded {
		t.Fatalf("summary should be degraded, got %s", report.Summary.State)
	}
	if report.Summary.Value.TotalOrders != 0 {
		t.Fatalf("degraded summary must be zero-valued, got %+v", report.Summary.Value)
	}
	if report.Categories.State != SectionDegraded {
		t.Fatalf("categories should be degraded, got %s", report.Categories.State)
	}
}

func TestBuildReportOrdersFailureDegradesDerivedSections(t *testing.T) {
	repo := &stubOrders{
		searchErr: errors.New("order service down"),
		stats:     domain.StatsSummary{TotalOrders: 42, TotalValue: 9000},
	}
	agg := NewAggregator(repo, &stubSuppliers{})

	report := agg.BuildReport(context.Background(), domain.SearchFilter{})

	if report.TopSuppliers.State != SectionDegraded || report.MonthlyTrends.State != SectionDegraded {
		t.Fatalf("derived sections should degrade when orders fail")
	}
	if len(report.TopSuppliers.Value) != 0 || len(report.MonthlyTrends.Value) != 0 {
		t.Fatal("degraded derived sections must be empty")
	}
	if report.Summary.State != SectionOk || report.Summary.Value.TotalOrders != 42 {
		t.Fatalf("summary should still render from its own endpoint: %+v", report.Summary)
	}
}
