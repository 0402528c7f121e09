// internal/domain/models.go
package domain

import (
	"time"

	"github.com/hasithasandunlakshan/inventory-console/pkg/dateutil"
)

// PurchaseOrder is the client-side projection of a purchase order owned by
// the order service. Totals are pointers: nil until the server has computed
// them, so callers cannot confuse an absent total with a zero one.
type PurchaseOrder struct {
	ID           int64               `json:"id"`
	OrderNumber  string              `json:"orderNumber,omitempty"`
	SupplierID   int64               `json:"supplierId"`
	SupplierName string              `json:"supplierName"`
	Date         string              `json:"date"` // calendar date, YYYY-MM-DD, no time component
	Status       Status              `json:"status"`
	Items        []PurchaseOrderItem `json:"items,omitempty"`
	Subtotal     *float64            `json:"subtotal,omitempty"`
	Total        *float64            `json:"total,omitempty"`
	// TotalAmount is the reporting field on list/search payloads. Some
	// upstream services emit it as a number, others as a numeric string,
	// so it stays loosely typed and is read through Amount.
	TotalAmount any        `json:"totalAmount,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Amount returns the order's reportable value: the server-computed total when
// present, otherwise the loosely typed totalAmount field. ok is false when
// neither yields a number.
func (o *PurchaseOrder) Amount() (float64, bool) {
	if o.Total != nil {
		return *o.Total, true
	}
	return dateutil.ParseAmount(o.TotalAmount)
}

// PurchaseOrderItem is one line of a purchase order. LineTotal is the
// server-persisted value; it is nil before the order has been reloaded after
// a mutation.
type PurchaseOrderItem struct {
	ID        int64    `json:"id,omitempty"` // zero until persisted
	ItemID    int64    `json:"itemId"`
	Quantity  int      `json:"quantity"`
	UnitPrice float64  `json:"unitPrice"`
	LineTotal *float64 `json:"lineTotal,omitempty"`
}

// PurchaseOrderNote is immutable once created.
type PurchaseOrderNote struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// PurchaseOrderAttachment carries attachment metadata; the binary itself is
// streamed through the attachments download endpoint.
type PurchaseOrderAttachment struct {
	ID         int64     `json:"id"`
	FileName   string    `json:"fileName"`
	UploadedBy string    `json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
	Size       int64     `json:"size,omitempty"`
}

// PurchaseOrderAudit is an append-only entry produced by the server. The
// client never synthesizes audit entries.
type PurchaseOrderAudit struct {
	ID         int64     `json:"id"`
	Action     string    `json:"action"`
	Actor      string    `json:"actor"`
	Detail     string    `json:"detail,omitempty"`
	FromStatus Status    `json:"fromStatus,omitempty"`
	ToStatus   Status    `json:"toStatus,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Supplier is a reference entity owned by the supplier service.
type Supplier struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Category *SupplierCategory `json:"category,omitempty"`
}

type SupplierCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SupplierSpend is a derived aggregate, recomputed on demand.
type SupplierSpend struct {
	SupplierID   int64   `json:"supplierId"`
	SupplierName string  `json:"supplierName"`
	TotalSpend   float64 `json:"totalSpend"`
	OrderCount   int     `json:"orderCount"`
}

// MonthlyTrend is one YYYY-MM bucket of the trend series.
type MonthlyTrend struct {
	Month  string  `json:"month"`
	Orders int     `json:"orders"`
	Value  float64 `json:"value"`
}

// StatsSummary is taken from the order service's summary endpoint. The
// aggregator never recomputes these from the raw order list; the service owns
// the status taxonomy.
type StatsSummary struct {
	TotalOrders       int                `json:"totalOrders"`
	TotalValue        float64            `json:"totalValue"`
	AverageOrderValue float64            `json:"averageOrderValue"`
	PendingOrders     int                `json:"pendingOrders"`
	CompletedOrders   int                `json:"completedOrders"`
	CancelledOrders   int                `json:"cancelledOrders"`
	ByStatusCounts    map[string]int     `json:"byStatusCounts,omitempty"`
	ByStatusTotals    map[string]float64 `json:"byStatusTotals,omitempty"`
}

// CreateOrderRequest is the body of POST /api/purchase-orders.
type CreateOrderRequest struct {
	SupplierID int64       `json:"supplierId"`
	Date       string      `json:"date"`
	Status     Status      `json:"status,omitempty"`
	Items      []ItemInput `json:"items,omitempty"`
}

// UpdateOrderRequest is the body of PUT /api/purchase-orders/{id}.
type UpdateOrderRequest struct {
	SupplierID *int64  `json:"supplierId,omitempty"`
	Date       *string `json:"date,omitempty"`
}

// ItemInput adds one line item to an order.
type ItemInput struct {
	ItemID    int64   `json:"itemId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// ItemPatch updates an existing line item. Nil fields are left unchanged.
type ItemPatch struct {
	Quantity  *int     `json:"quantity,omitempty"`
	UnitPrice *float64 `json:"unitPrice,omitempty"`
}

// StatusChangeRequest is the body of PATCH /api/purchase-orders/{id}/status.
type StatusChangeRequest struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// ReceiveRequest is the body of POST /api/purchase-orders/{id}/receive.
type ReceiveRequest struct {
	ReceivedBy string `json:"receivedBy,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// NoteInput appends a note to an order.
type NoteInput struct {
	Body string `json:"body"`
}

// SearchFilter holds the query parameters of GET /api/purchase-orders/search.
type SearchFilter struct {
	Q          string
	Status     Status
	SupplierID int64
	DateFrom   string
	DateTo     string
	MinTotal   *float64
	MaxTotal   *float64
	Page       int
	Size       int
	Sort       string
}

// OrderPage is a paginated order listing.
type OrderPage struct {
	Content    []PurchaseOrder `json:"content"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	Size       int             `json:"size"`
	TotalPages int             `json:"totalPages"`
}
