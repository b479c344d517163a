package cart

import (
	"context"
	"time"
)

// StockReader fetches live availability for a product.
type StockReader interface {
	GetStock(ctx context.Context, productID int64) (*Stock, error)
}

// ProductReader fetches a catalog record. A nil product with a nil error
// means the catalog has no such product.
type ProductReader interface {
	GetProduct(ctx context.Context, productID int64) (*Product, error)
}

// Storage is the key/value medium the cart is mirrored to. GetItem returns
// nil data and a nil error when the key has never been written.
type Storage interface {
	GetItem(ctx context.Context, key string) ([]byte, error)
	SetItem(ctx context.Context, key string, value []byte) error
}

// Notification is the one-line message emitted for a failed operation.
type Notification struct {
	SessionID string    `json:"-"`
	Kind      Kind      `json:"kind"`
	Op        Op        `json:"op"`
	ProductID int64     `json:"product_id"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

// Notifier receives failure notifications. Delivery is fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
