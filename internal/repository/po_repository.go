// internal/repository/po_repository.go
package repository

import (
	"context"
	"io"

	"github.com/hasithasandunlakshan/inventory-console/internal/domain"
)

// PORepository is the typed contract against the purchase-order service.
// Implementations return typed failures (client.APIError and friends) rather
// than panicking; the server remains the source of truth for every rule.
type PORepository interface {
	Create(ctx context.Context, req domain.CreateOrderRequest) (*domain.PurchaseOrder, error)
	Get(ctx context.Context, id int64) (*domain.PurchaseOrder, error)
	List(ctx context.Context, page, size int) (*domain.OrderPage, error)
	Search(ctx context.Context, filter domain.SearchFilter) (*domain.OrderPage, error)
	Update(ctx context.Context, id int64, req domain.UpdateOrderRequest) (*domain.PurchaseOrder, error)
	Delete(ctx context.Context, id int64, hard bool, reason string) error

	UpdateStatus(ctx context.Context, id int64, req domain.StatusChangeRequest) (*domain.PurchaseOrder, error)
	Receive(ctx context.Context, id int64, req domain.ReceiveRequest) (*domain.PurchaseOrder, error)

	AddItem(ctx context.Context, orderID int64, item domain.ItemInput) error
	UpdateItem(ctx context.Context, orderID, itemID int64, patch domain.ItemPatch) error
	RemoveItem(ctx context.Context, orderID, itemID int64) error
	UpdateItemQuantity(ctx context.Context, orderID, itemID int64, quantity int) error

	GetNotes(ctx context.Context, orderID int64) ([]domain.PurchaseOrderNote, error)
	AddNote(ctx context.Context, orderID int64, note domain.NoteInput) (*domain.PurchaseOrderNote, error)
	GetAttachments(ctx context.Context, orderID int64) ([]domain.PurchaseOrderAttachment, error)
	AddAttachment(ctx context.Context, orderID int64, fileName string, content io.Reader, uploadedBy string) (*domain.PurchaseOrderAttachment, error)
	DownloadAttachment(ctx context.Context, orderID, attachmentID int64) (io.ReadCloser, string, error)
	GetAudit(ctx context.Context, orderID int64) ([]domain.PurchaseOrderAudit, error)

	StatsSummary(ctx context.Context, filter domain.SearchFilter) (*domain.StatsSummary, error)
	ExportCSV(ctx context.Context, filter domain.SearchFilter) (io.ReadCloser, error)
	Import(ctx context.Context, fileName string, content io.Reader) error
}

// SupplierRepository is the read-only contract against the supplier service.
type SupplierRepository interface {
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	ListCategories(ctx context.Context) ([]domain.SupplierCategory, error)
}
