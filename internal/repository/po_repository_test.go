package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasithasandunlakshan/inventory-console/internal/client"
	"github.com/hasithasandunlakshan/inventory-console/internal/domain"
)

// fakeOrderService is a minimal stand-in for the purchase-order backend. Each
// handler records what it saw so tests can assert on paths and payloads.
type fakeOrderService struct {
	router  *mux.Router
	lastURL string
	lastReq map[string]any
}

func newFakeOrderService(t *testing.T) (*fakeOrderService, PORepository) {
	t.Helper()
	f := &fakeOrderService{router: mux.NewRouter()}
	f.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			f.lastURL = r.URL.String()
			next.ServeHTTP(w, r)
		})
	})

	srv := httptest.NewServer(f.router)
	t.Cleanup(srv.Close)
	return f, NewHTTPPORepository(client.New(srv.URL, time.Second, nil))
}

func (f *fakeOrderService) captureJSON(r *http.Request) {
	f.lastReq = map[string]any{}
	_ = json.NewDecoder(r.Body).Decode(&f.lastReq)
}

func writeOrder(w http.ResponseWriter, order domain.PurchaseOrder) {
	_ = json.NewEncoder(w).Encode(order)
}

func TestSearchQueryBuildsFilterParams(t *testing.T) {
	minTotal := 10.5
	query := searchQuery(domain.SearchFilter{
		Q:          "bolts",
		Status:     domain.StatusPending,
		SupplierID: 4,
		DateFrom:   "2024-01-01",
		DateTo:     "2024-06-30",
		MinTotal:   &minTotal,
		Page:       2,
		Size:       50,
		Sort:       "date,desc",
	})

	assert.Equal(t, "bolts", query.Get("q"))
	assert.Equal(t, "PENDING", query.Get("status"))
	assert.Equal(t, "4", query.Get("supplierId"))
	assert.Equal(t, "2024-01-01", query.Get("dateFrom"))
	assert.Equal(t, "2024-06-30", query.Get("dateTo"))
	assert.Equal(t, "10.5", query.Get("minTotal"))
	assert.Equal(t, "2", query.Get("page"))
	assert.Equal(t, "50", query.Get("size"))
	assert.Equal(t, "date,desc", query.Get("sort"))
}

func TestSearchQuerySkipsZeroValues(t *testing.T) {
	query := searchQuery(domain.SearchFilter{})
	assert.Empty(t, query, "empty filter must not emit params")
}

func TestSearchHitsSearchEndpoint(t *testing.T) {
	f, repo := newFakeOrderService(t)
	f.router.HandleFunc("/api/purchase-orders/search", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(domain.OrderPage{
			Content: []domain.PurchaseOrder{{ID: 1, Status: domain.StatusSent}},
			Total:   1, Page: 1, Size: 20, TotalPages: 1,
		})
	}).Methods(http.MethodGet)

	page, err := repo.Search(context.Background(), domain.SearchFilter{Status: domain.StatusSent})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, domain.StatusSent, page.Content[0].Status)
	assert.Contains(t, f.lastURL, "status=SENT")
}

func TestUpdateStatusUsesPatch(t *testing.T) {
	f, repo := newFakeOrderService(t)
	f.router.HandleFunc("/api/purchase-orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		f.captureJSON(r)
		writeOrder(w, domain.PurchaseOrder{ID: 9, Status: domain.StatusSent})
	}).Methods(http.MethodPatch)

	order, err := repo.UpdateStatus(context.Background(), 9, domain.StatusChangeRequest{
		Status: domain.StatusSent,
		Reason: "approved",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, order.Status)
	assert.Equal(t, "SENT", f.lastReq["status"])
	assert.Equal(t, "approved", f.lastReq["reason"])
}

func TestReceivePostsToReceiveEndpoint(t *testing.T) {
	f, repo := newFakeOrderService(t)
	f.router.HandleFunc("/api/purchase-orders/{id}/receive", func(w http.ResponseWriter, r *http.Request) {
		f.captureJSON(r)
		writeOrder(w, domain.PurchaseOrder{ID: 3, Status: domain.StatusReceived})
	}).Methods(http.MethodPost)

	order, err := repo.Receive(context.Background(), 3, domain.ReceiveRequest{ReceivedBy: "warehouse"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReceived, order.Status)
	assert.Equal(t, "warehouse", f.lastReq["receivedBy"])
}

func TestItemQuantityPatchBody(t *testing.T) {
	f, repo := newFakeOrderService(t)
	f.router.HandleFunc("/api/purchase-orders/{id}/items/{itemId}/quantity", func(w http.ResponseWriter, r *http.Request) {
		f.captureJSON(r)
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodPatch)

	require.NoError(t, repo.UpdateItemQuantity(context.Background(), 5, 12, 30))
	assert.Equal(t, "/api/purchase-orders/5/items/12/quantity", f.lastURL)
	assert.Equal(t, float64(30), f.lastReq["quantity"])
}

func TestDeleteHardSetsQueryFlags(t *testing.T) {
	f, repo := newFakeOrderService(t)
	f.router.HandleFunc("/api/purchase-orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodDelete)

	require.NoError(t, repo.Delete(context.Background(), 7, true, "duplicate entry"))
	assert.Contains(t, f.lastURL, "hard=true")
	assert.Contains(t, f.lastURL, "reason=duplicate")
}

func TestImportUploadsMultipart(t *testing.T) {
	f, repo := newFakeOrderService(t)
	var gotName, gotBody string
	f.router.HandleFunc("/api/purchase-orders/import", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		gotName, gotBody = header.Filename, string(content)
		w.WriteHeader(http.StatusAccepted)
	}).Methods(http.MethodPost)

	err := repo.Import(context.Background(), "orders.csv", strings.NewReader("orderNumber,supplier\nPO-1,Acme"))
	require.NoError(t, err)
	assert.Equal(t, "orders.csv", gotName)
	assert.Contains(t, gotBody, "PO-1,Acme")
}

func TestStatsSummaryPassesFilter(t *testing.T) {
	f, repo := newFakeOrderService(t)
	f.router.HandleFunc("/api/purchase-orders/stats/summary", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(domain.StatsSummary{TotalOrders: 12, TotalValue: 8400})
	}).Methods(http.MethodGet)

	summary, err := repo.StatsSummary(context.Background(), domain.SearchFilter{DateFrom: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, 12, summary.TotalOrders)
	assert.Contains(t, f.lastURL, "dateFrom=2024-01-01")
}

func TestSupplierRepositoryEndpoints(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/suppliers", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]domain.Supplier{{ID: 1, Name: "Acme"}})
	}).Methods(http.MethodGet)
	router.HandleFunc("/api/suppliers/categories", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]domain.SupplierCategory{{ID: 2, Name: "Packaging"}})
	}).Methods(http.MethodGet)

	srv := httptest.NewServer(router)
	defer srv.Close()

	repo := NewHTTPSupplierRepository(client.New(srv.URL, time.Second, nil))

	suppliers, err := repo.ListSuppliers(context.Background())
	require.NoError(t, err)
	require.Len(t, suppliers, 1)
	assert.Equal(t, "Acme", suppliers[0].Name)

	categories, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Packaging", categories[0].Name)
}
