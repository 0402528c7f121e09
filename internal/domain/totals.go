package domain

// TotalView is a display amount tagged with its provenance. Persisted means
// the server computed the value; a computed preview must never be written
// back as authoritative.
type TotalView struct {
	Amount    float64 `json:"amount"`
	Persisted bool    `json:"persisted"`
}

// TotalView returns the item's line total, preferring the server-persisted
// value and falling back to a quantity x unitPrice preview.
func (i PurchaseOrderItem) TotalView() TotalView {
	if i.LineTotal != nil {
		return TotalView{Amount: *i.LineTotal, Persisted: true}
	}
	return TotalView{Amount: float64(i.Quantity) * i.UnitPrice, Persisted: false}
}

// DisplayTotal sums lineTotal over all items, substituting the preview for
// lines the server has not totalled yet. Display convenience only.
func (o *PurchaseOrder) DisplayTotal() float64 {
	var sum float64
	for _, item := range o.Items {
		sum += item.TotalView().Amount
	}
	return sum
}

// TotalView returns the order total tagged persisted when the server has
// attached one, and a computed item-sum preview otherwise.
func (o *PurchaseOrder) TotalView() TotalView {
	if o.Total != nil {
		return TotalView{Amount: *o.Total, Persisted: true}
	}
	return TotalView{Amount: o.DisplayTotal(), Persisted: false}
}
