// internal/repository/po_http.go
package repository

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/hasithasandunlakshan/inventory-console/internal/client"
	"github.com/hasithasandunlakshan/inventory-console/internal/domain"
)

type httpPORepository struct {
	client *client.Client
}

// NewHTTPPORepository builds a PORepository over the purchase-order service.
func NewHTTPPORepository(c *client.Client) PORepository {
	return &httpPORepository{client: c}
}

func orderPath(id int64, suffix string) string {
	return fmt.Sprintf("/api/purchase-orders/%d%s", id, suffix)
}

func (r *httpPORepository) Create(ctx context.Context, req domain.CreateOrderRequest) (*domain.PurchaseOrder, error) {
	var order domain.PurchaseOrder
	if err := r.client.PostJSON(ctx, "/api/purchase-orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *httpPORepository) Get(ctx context.Context, id int64) (*domain.PurchaseOrder, error) {
	var order domain.PurchaseOrder
	if err := r.client.GetJSON(ctx, orderPath(id, ""), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *httpPORepository) List(ctx context.Context, page, size int) (*domain.OrderPage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		query.Set("size", strconv.Itoa(size))
	}

	var result domain.OrderPage
	if err := r.client.GetJSON(ctx, "/api/purchase-orders", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *httpPORepository) Search(ctx context.Context, filter domain.SearchFilter) (*domain.OrderPage, error) {
	var result domain.OrderPage
	if err := r.client.GetJSON(ctx, "/api/purchase-orders/search", searchQuery(filter), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func searchQuery(filter domain.SearchFilter) url.Values {
	query := url.Values{}
	if filter.Q != "" {
		query.Set("q", filter.Q)
	}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.SupplierID > 0 {
		query.Set("supplierId", strconv.FormatInt(filter.SupplierID, 10))
	}
	if filter.DateFrom != "" {
		query.Set("dateFrom", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query.Set("dateTo", filter.DateTo)
	}
	if filter.MinTotal != nil {
		query.Set("minTotal", strconv.FormatFloat(*filter.MinTotal, 'f', -1, 64))
	}
	if filter.MaxTotal != nil {
		query.Set("maxTotal", strconv.FormatFloat(*filter.MaxTotal, 'f', -1, 64))
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Size > 0 {
		query.Set("size", strconv.Itoa(filter.Size))
	}
	if filter.Sort != "" {
		query.Set("sort", filter.Sort)
	}
	return query
}

func (r *httpPORepository) Update(ctx context.Context, id int64, req domain.UpdateOrderRequest) (*domain.PurchaseOrder, error) {
	var order domain.PurchaseOrder
	if err := r.client.PutJSON(ctx, orderPath(id, ""), req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *httpPORepository) Delete(ctx context.Context, id int64, hard bool, reason string) error {
	query := url.Values{}
	if hard {
		query.Set("hard", "true")
	}
	if reason != "" {
		query.Set("reason", reason)
	}
	return r.client.Delete(ctx, orderPath(id, ""), query)
}

func (r *httpPORepository) UpdateStatus(ctx context.Context, id int64, req domain.StatusChangeRequest) (*domain.PurchaseOrder, error) {
	var order domain.PurchaseOrder
	if err := r.client.PatchJSON(ctx, orderPath(id, "/status"), req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *httpPORepository) Receive(ctx context.Context, id int64, req domain.ReceiveRequest) (*domain.PurchaseOrder, error) {
	var order domain.PurchaseOrder
	if err := r.client.PostJSON(ctx, orderPath(id, "/receive"), req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *httpPORepository) AddItem(ctx context.Context, orderID int64, item domain.ItemInput) error {
	return r.client.PostJSON(ctx, orderPath(orderID, "/items"), item, nil)
}

func (r *httpPORepository) UpdateItem(ctx context.Context, orderID, itemID int64, patch domain.ItemPatch) error {
	return r.client.PutJSON(ctx, orderPath(orderID, fmt.Sprintf("/items/%d", itemID)), patch, nil)
}

func (r *httpPORepository) RemoveItem(ctx context.Context, orderID, itemID int64) error {
	return r.client.Delete(ctx, orderPath(orderID, fmt.Sprintf("/items/%d", itemID)), nil)
}

func (r *httpPORepository) UpdateItemQuantity(ctx context.Context, orderID, itemID int64, quantity int) error {
	body := map[string]int{"quantity": quantity}
	return r.client.PatchJSON(ctx, orderPath(orderID, fmt.Sprintf("/items/%d/quantity", itemID)), body, nil)
}

func (r *httpPORepository) GetNotes(ctx context.Context, orderID int64) ([]domain.PurchaseOrderNote, error) {
	var notes []domain.PurchaseOrderNote
	if err := r.client.GetJSON(ctx, orderPath(orderID, "/notes"), nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *httpPORepository) AddNote(ctx context.Context, orderID int64, note domain.NoteInput) (*domain.PurchaseOrderNote, error) {
	var created domain.PurchaseOrderNote
	if err := r.client.PostJSON(ctx, orderPath(orderID, "/notes"), note, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *httpPORepository) GetAttachments(ctx context.Context, orderID int64) ([]domain.PurchaseOrderAttachment, error) {
	var attachments []domain.PurchaseOrderAttachment
	if err := r.client.GetJSON(ctx, orderPath(orderID, "/attachments"), nil, &attachments); err != nil {
		return nil, err
	}
	return attachments, nil
}

func (r *httpPORepository) AddAttachment(ctx context.Context, orderID int64, fileName string, content io.Reader, uploadedBy string) (*domain.PurchaseOrderAttachment, error) {
	fields := map[string]string{}
	if uploadedBy != "" {
		fields["uploadedBy"] = uploadedBy
	}

	var created domain.PurchaseOrderAttachment
	err := r.client.UploadMultipart(ctx, orderPath(orderID, "/attachments"), "file", fileName, content, fields, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *httpPORepository) DownloadAttachment(ctx context.Context, orderID, attachmentID int64) (io.ReadCloser, string, error) {
	return r.client.Download(ctx, orderPath(orderID, fmt.Sprintf("/attachments/%d/download", attachmentID)), nil)
}

func (r *httpPORepository) GetAudit(ctx context.Context, orderID int64) ([]domain.PurchaseOrderAudit, error) {
	var entries []domain.PurchaseOrderAudit
	if err := r.client.GetJSON(ctx, orderPath(orderID, "/audit"), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *httpPORepository) StatsSummary(ctx context.Context, filter domain.SearchFilter) (*domain.StatsSummary, error) {
	var summary domain.StatsSummary
	if err := r.client.GetJSON(ctx, "/api/purchase-orders/stats/summary", searchQuery(filter), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *httpPORepository) ExportCSV(ctx context.Context, filter domain.SearchFilter) (io.ReadCloser, error) {
	body, _, err := r.client.Download(ctx, "/api/purchase-orders/export/csv", searchQuery(filter))
	return body, err
}

func (r *httpPORepository) Import(ctx context.Context, fileName string, content io.Reader) error {
	return r.client.UploadMultipart(ctx, "/api/purchase-orders/import", "file", fileName, content, nil, nil)
}

type httpSupplierRepository struct {
	client *client.Client
}

// NewHTTPSupplierRepository builds a SupplierRepository over the supplier
// service.
func NewHTTPSupplierRepository(c *client.Client) SupplierRepository {
	return &httpSupplierRepository{client: c}
}

func (r *httpSupplierRepository) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	var suppliers []domain.Supplier
	if err := r.client.GetJSON(ctx, "/api/suppliers", nil, &suppliers); err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *httpSupplierRepository) ListCategories(ctx context.Context) ([]domain.SupplierCategory, error) {
	var categories []domain.SupplierCategory
	if err := r.client.GetJSON(ctx, "/api/suppliers/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
