package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
	"github.com/go-playground/validator/v10"
)

// DefaultStorageKey is the storage key the cart is mirrored under.
const DefaultStorageKey = "@RocketShoes:cart"

var validate = validator.New()

// StoreParams wires a Store to its collaborators.
type StoreParams struct {
	SessionID string
	Key       string
	Stock     StockReader
	Products  ProductReader
	Storage   Storage
	Notifier  Notifier
	Logger    *logger.Logger
	Metrics   *metrics.CartMetrics
}

// Store owns one session's cart. Operations run one at a time so that the
// read-modify-write around the stock and product fetches never interleaves;
// Snapshot never waits on an in-flight operation.
type Store struct {
	sessionID string
	key       string
	stock     *StockValidator
	products  ProductReader
	storage   Storage
	notifier  Notifier
	logg      *logger.Logger
	metrics   *metrics.CartMetrics

	mu    sync.Mutex
	state atomic.Pointer[Cart]
}

// NewStore loads the persisted cart for the session and returns its store.
// An absent storage key yields an empty cart.
func NewStore(ctx context.Context, params StoreParams) (*Store, error) {
	if params.Products == nil {
		return nil, errors.New("product reader required")
	}
	if params.Storage == nil {
		return nil, errors.New("storage required")
	}
	if params.Notifier == nil {
		return nil, errors.New("notifier required")
	}
	validatorSvc, err := NewStockValidator(params.Stock)
	if err != nil {
		return nil, err
	}
	key := params.Key
	if key == "" {
		key = DefaultStorageKey
	}

	s := &Store{
		sessionID: params.SessionID,
		key:       key,
		stock:     validatorSvc,
		products:  params.Products,
		storage:   params.Storage,
		notifier:  params.Notifier,
		logg:      params.Logger,
		metrics:   params.Metrics,
	}

	initial, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.state.Store(&initial)
	return s, nil
}

func (s *Store) load(ctx context.Context) (Cart, error) {
	data, err := s.storage.GetItem(ctx, s.key)
	if err != nil {
		return Cart{}, fmt.Errorf("read cart %q: %w", s.key, err)
	}
	if len(data) == 0 {
		return Cart{}, nil
	}
	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return Cart{}, fmt.Errorf("decode cart %q: %w", s.key, err)
	}
	return c, nil
}

// SessionID identifies the session this store belongs to.
func (s *Store) SessionID() string {
	return s.sessionID
}

// Snapshot returns the last committed cart.
func (s *Store) Snapshot() Cart {
	return *s.state.Load()
}

// AddProduct adds one unit of productID. Failures are reported to the
// notifier only.
func (s *Store) AddProduct(ctx context.Context, productID int64) {
	_, _ = s.TryAddProduct(ctx, productID)
}

// RemoveProduct drops the line item for productID. Failures are reported to
// the notifier only.
func (s *Store) RemoveProduct(ctx context.Context, productID int64) {
	_, _ = s.TryRemoveProduct(ctx, productID)
}

// UpdateProductAmount sets the quantity for productID. Failures are reported
// to the notifier only.
func (s *Store) UpdateProductAmount(ctx context.Context, productID int64, amount int) {
	_, _ = s.TryUpdateProductAmount(ctx, productID, amount)
}

// TryAddProduct is AddProduct returning the committed cart or a *Failure.
func (s *Store) TryAddProduct(ctx context.Context, productID int64) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.Snapshot()

	available, err := s.stock.AvailableQuantity(ctx, productID)
	if err != nil {
		return current, s.fail(ctx, newFailure(KindRequestFailed, OpAdd, productID, err))
	}
	if available == 0 {
		return current, s.fail(ctx, newFailure(KindOutOfStock, OpAdd, productID, nil))
	}

	inCart := current.Amount(productID)
	if inCart+1 > available {
		return current, s.fail(ctx, newFailure(KindOutOfStock, OpAdd, productID, nil))
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return current, s.fail(ctx, newFailure(KindRequestFailed, OpAdd, productID, err))
	}
	if err := validProduct(product, productID); err != nil {
		return current, s.fail(ctx, newFailure(KindProductNotFound, OpAdd, productID, err))
	}

	item := LineItem{Product: *product, Amount: inCart + 1}
	next := current.without(productID).with(item)

	if err := s.commit(ctx, next); err != nil {
		return current, s.fail(ctx, newFailure(KindRequestFailed, OpAdd, productID, err))
	}
	s.succeed(OpAdd)
	return next, nil
}

// TryRemoveProduct is RemoveProduct returning the committed cart or a *Failure.
func (s *Store) TryRemoveProduct(ctx context.Context, productID int64) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.Snapshot()
	if _, ok := current.Find(productID); !ok {
		return current, s.fail(ctx, newFailure(KindItemNotInCart, OpRemove, productID, nil))
	}

	next := current.without(productID)
	if err := s.commit(ctx, next); err != nil {
		return current, s.fail(ctx, newFailure(KindRequestFailed, OpRemove, productID, err))
	}
	s.succeed(OpRemove)
	return next, nil
}

// TryUpdateProductAmount is UpdateProductAmount returning the committed cart
// or a *Failure. A non-positive amount is ignored without a failure.
func (s *Store) TryUpdateProductAmount(ctx context.Context, productID int64, amount int) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.Snapshot()
	if amount <= 0 {
		return current, nil
	}

	if _, ok := current.Find(productID); !ok {
		return current, s.fail(ctx, newFailure(KindItemNotInCart, OpUpdate, productID, nil))
	}

	available, err := s.stock.AvailableQuantity(ctx, productID)
	if err != nil {
		return current, s.fail(ctx, newFailure(KindRequestFailed, OpUpdate, productID, err))
	}
	if amount > available {
		return current, s.fail(ctx, newFailure(KindOutOfStock, OpUpdate, productID, nil))
	}

	next := current.withAmount(productID, amount)
	if err := s.commit(ctx, next); err != nil {
		return current, s.fail(ctx, newFailure(KindRequestFailed, OpUpdate, productID, err))
	}
	s.succeed(OpUpdate)
	return next, nil
}

// commit writes the full cart to storage and then publishes it in memory.
func (s *Store) commit(ctx context.Context, next Cart) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.storage.SetItem(ctx, s.key, data); err != nil {
		return fmt.Errorf("write cart %q: %w", s.key, err)
	}
	s.state.Store(&next)
	return nil
}

func (s *Store) fail(ctx context.Context, f *Failure) *Failure {
	s.metrics.IncOperation(string(f.Op), string(f.Kind))

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"session_id": s.sessionID,
			"product_id": f.ProductID,
			"kind":       string(f.Kind),
		})
		if f.Kind == KindRequestFailed {
			s.logg.Error(logCtx, "cart."+string(f.Op)+".failed", f)
		} else {
			s.logg.Warn(logCtx, "cart."+string(f.Op)+".rejected")
		}
	}

	s.notifier.Notify(ctx, Notification{
		SessionID: s.sessionID,
		Kind:      f.Kind,
		Op:        f.Op,
		ProductID: f.ProductID,
		Message:   f.Message(),
		At:        time.Now().UTC(),
	})
	return f
}

func (s *Store) succeed(op Op) {
	s.metrics.IncOperation(string(op), "success")
}

func validProduct(product *Product, productID int64) error {
	if product == nil {
		return errors.New("product not found")
	}
	if err := validate.Struct(product); err != nil {
		return err
	}
	if product.ID != productID {
		return fmt.Errorf("catalog returned product %d for %d", product.ID, productID)
	}
	return nil
}
