package storage

import (
	"context"
	"io"
)

// ObjectInfo represents metadata for an archived attachment object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// Archive mirrors downloaded purchase-order attachments so operators keep a
// copy outside the order service. Archiving is best-effort and optional; a
// disabled archive is a no-op.
type Archive interface {
	Store(ctx context.Context, orderID int64, fileName string, content io.Reader) (ObjectInfo, error)
	List(ctx context.Context, orderID int64) ([]ObjectInfo, error)
}
