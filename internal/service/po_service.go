// internal/service/po_service.go
package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hasithasandunlakshan/inventory-console/internal/domain"
	"github.com/hasithasandunlakshan/inventory-console/internal/repository"
)

// POService orchestrates purchase-order workflows against the order service.
// It validates what can be checked locally, but never applies a state change
// before the server has confirmed it. Every item mutation is followed by a
// full reload of the parent order so totals never drift from server truth.
type POService struct {
	repo repository.PORepository
}

func NewPOService(repo repository.PORepository) *POService {
	return &POService{repo: repo}
}

// CreateOrder validates required fields locally, then creates the order.
func (s *POService) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.PurchaseOrder, error) {
	if req.SupplierID <= 0 {
		return nil, &ValidationError{Field: "supplierId", Message: "supplier is required"}
	}
	if strings.TrimSpace(req.Date) == "" {
		return nil, &ValidationError{Field: "date", Message: "date is required"}
	}
	for i, item := range req.Items {
		if err := validateItem(item.Quantity, item.UnitPrice); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return s.repo.Create(ctx, req)
}

// GetOrder reloads the full order (items and totals) from the server.
func (s *POService) GetOrder(ctx context.Context, id int64) (*domain.PurchaseOrder, error) {
	return s.repo.Get(ctx, id)
}

// SearchOrders proxies a filtered search.
func (s *POService) SearchOrders(ctx context.Context, filter domain.SearchFilter) (*domain.OrderPage, error) {
	return s.repo.Search(ctx, filter)
}

// UpdateOrder updates mutable header fields and returns the fresh order.
func (s *POService) UpdateOrder(ctx context.Context, id int64, req domain.UpdateOrderRequest) (*domain.PurchaseOrder, error) {
	return s.repo.Update(ctx, id, req)
}

// DeleteOrder asks the server to delete; the caller drops its reference only
// after this returns nil.
func (s *POService) DeleteOrder(ctx context.Context, id int64, hard bool, reason string) error {
	return s.repo.Delete(ctx, id, hard, reason)
}

// RequestTransition sends a status change to the server. Nothing is applied
// locally; on success the confirmed order is returned, on rejection the
// previously loaded order is still valid and the caller should reload.
func (s *POService) RequestTransition(ctx context.Context, id int64, current, target domain.Status, reason string) (*domain.PurchaseOrder, error) {
	if !target.Valid() {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", target)}
	}
	if current.Valid() && !current.CanTransitionTo(target) {
		log.Warn().
			Int64("order_id", id).
			Str("from", string(current)).
			Str("to", string(target)).
			Msg("requesting a transition outside the structural edges; server decides")
	}

	order, err := s.repo.UpdateStatus(ctx, id, domain.StatusChangeRequest{Status: target, Reason: reason})
	if err != nil {
		return nil, &TransitionError{OrderID: id, Target: string(target), Err: err}
	}
	return order, nil
}

// MarkReceived performs the receiving workflow: a transition to RECEIVED that
// also submits receiver identity and notes, and triggers inventory effects
// upstream. Failures surface as *ReceiveError, not a generic transition
// failure.
func (s *POService) MarkReceived(ctx context.Context, id int64, req domain.ReceiveRequest) (*domain.PurchaseOrder, error) {
	if _, err := s.repo.Receive(ctx, id, req); err != nil {
		return nil, &ReceiveError{OrderID: id, Err: err}
	}
	// Reload so items, totals and audit reflect the received state.
	return s.repo.Get(ctx, id)
}

func validateItem(quantity int, unitPrice float64) error {
	if quantity <= 0 {
		return &ValidationError{Field: "quantity", Message: "must be greater than zero"}
	}
	if unitPrice < 0 {
		return &ValidationError{Field: "unitPrice", Message: "must not be negative"}
	}
	return nil
}

// AddItem validates, posts the new line, then reloads the parent order.
func (s *POService) AddItem(ctx context.Context, orderID int64, item domain.ItemInput) (*domain.PurchaseOrder, error) {
	if err := validateItem(item.Quantity, item.UnitPrice); err != nil {
		return nil, err
	}
	if err := s.repo.AddItem(ctx, orderID, item); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, orderID)
}

// UpdateItem patches a line item and reloads the parent order.
func (s *POService) UpdateItem(ctx context.Context, orderID, itemID int64, patch domain.ItemPatch) (*domain.PurchaseOrder, error) {
	if patch.Quantity != nil && *patch.Quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Message: "must be greater than zero"}
	}
	if patch.UnitPrice != nil && *patch.UnitPrice < 0 {
		return nil, &ValidationError{Field: "unitPrice", Message: "must not be negative"}
	}
	if err := s.repo.UpdateItem(ctx, orderID, itemID, patch); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, orderID)
}

// RemoveItem deletes a line item and reloads the parent order.
func (s *POService) RemoveItem(ctx context.Context, orderID, itemID int64) (*domain.PurchaseOrder, error) {
	if err := s.repo.RemoveItem(ctx, orderID, itemID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, orderID)
}

// UpdateItemQuantity changes only the quantity of a line and reloads.
func (s *POService) UpdateItemQuantity(ctx context.Context, orderID, itemID int64, quantity int) (*domain.PurchaseOrder, error) {
	if quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Message: "must be greater than zero"}
	}
	if err := s.repo.UpdateItemQuantity(ctx, orderID, itemID, quantity); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, orderID)
}

// GetNotes returns the order's notes, degrading to an empty list on any
// fetch failure. A missing trail must not fail the parent view.
func (s *POService) GetNotes(ctx context.Context, orderID int64) []domain.PurchaseOrderNote {
	notes, err := s.repo.GetNotes(ctx, orderID)
	if err != nil {
		log.Warn().Err(err).Int64("order_id", orderID).Msg("notes unavailable, rendering empty")
		return []domain.PurchaseOrderNote{}
	}
	if notes == nil {
		return []domain.PurchaseOrderNote{}
	}
	return notes
}

// AddNote appends a note. Unlike listing, a failed append is critical.
func (s *POService) AddNote(ctx context.Context, orderID int64, body string) (*domain.PurchaseOrderNote, error) {
	if strings.TrimSpace(body) == "" {
		return nil, &ValidationError{Field: "body", Message: "note body is required"}
	}
	return s.repo.AddNote(ctx, orderID, domain.NoteInput{Body: body})
}

// GetAudit returns the append-only audit trail, empty on any fetch failure.
func (s *POService) GetAudit(ctx context.Context, orderID int64) []domain.PurchaseOrderAudit {
	entries, err := s.repo.GetAudit(ctx, orderID)
	if err != nil {
		log.Warn().Err(err).Int64("order_id", orderID).Msg("audit unavailable, rendering empty")
		return []domain.PurchaseOrderAudit{}
	}
	if entries == nil {
		return []domain.PurchaseOrderAudit{}
	}
	return entries
}

// GetAttachments lists attachment metadata, empty on fetch failure.
func (s *POService) GetAttachments(ctx context.Context, orderID int64) []domain.PurchaseOrderAttachment {
	attachments, err := s.repo.GetAttachments(ctx, orderID)
	if err != nil {
		log.Warn().Err(err).Int64("order_id", orderID).Msg("attachments unavailable, rendering empty")
		return []domain.PurchaseOrderAttachment{}
	}
	if attachments == nil {
		return []domain.PurchaseOrderAttachment{}
	}
	return attachments
}

// UploadAttachment is critical: failures propagate so the operator knows the
// file was not stored.
func (s *POService) UploadAttachment(ctx context.Context, orderID int64, fileName string, content io.Reader, uploadedBy string) (*domain.PurchaseOrderAttachment, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, &ValidationError{Field: "fileName", Message: "file name is required"}
	}
	return s.repo.AddAttachment(ctx, orderID, fileName, content, uploadedBy)
}

// DownloadAttachment streams the binary; failures propagate.
func (s *POService) DownloadAttachment(ctx context.Context, orderID, attachmentID int64) (io.ReadCloser, string, error) {
	return s.repo.DownloadAttachment(ctx, orderID, attachmentID)
}

// ExportCSV streams the server-side CSV export for the given filter.
func (s *POService) ExportCSV(ctx context.Context, filter domain.SearchFilter) (io.ReadCloser, error) {
	return s.repo.ExportCSV(ctx, filter)
}

// Import uploads an order import file (multipart).
func (s *POService) Import(ctx context.Context, fileName string, content io.Reader) error {
	return s.repo.Import(ctx, fileName, content)
}
