package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

type stubStock struct {
	mu      sync.Mutex
	amounts map[int64]int
	missing map[int64]bool
	err     error
	calls   int
}

func newStubStock(amounts map[int64]int) *stubStock {
	return &stubStock{amounts: amounts, missing: map[int64]bool{}}
}

func (s *stubStock) set(id int64, amount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.amounts[id] = amount
}

func (s *stubStock) GetStock(_ context.Context, productID int64) (*Stock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.missing[productID] {
		return &Stock{ID: productID}, nil
	}
	amount, ok := s.amounts[productID]
	if !ok {
		return nil, nil
	}
	return &Stock{ID: productID, Amount: &amount}, nil
}

type stubProducts struct {
	mu       sync.Mutex
	products map[int64]*Product
	err      error
}

func (s *stubProducts) GetProduct(_ context.Context, productID int64) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[productID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

type memStorage struct {
	mu       sync.Mutex
	items    map[string][]byte
	writeErr error
	readErr  error
	writes   int
}

func newMemStorage() *memStorage {
	return &memStorage{items: map[string][]byte{}}
}

func (m *memStorage) GetItem(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	v, ok := m.items[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *memStorage) SetItem(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.items[key] = append([]byte(nil), value...)
	return nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

var errCatalogDown = errors.New("catalog unavailable")

type fixture struct {
	stock    *stubStock
	products *stubProducts
	storage  *memStorage
	notifier *recordingNotifier
	store    *Store
}

func sneaker(id int64, price string) *Product {
	return &Product{
		ID:    id,
		Title: "Tênis de Caminhada",
		Price: decimal.RequireFromString(price),
		Image: "https://cdn.example.com/tenis.jpg",
	}
}

func newFixture(t testing.TB, stock map[int64]int) *fixture {
	t.Helper()
	f := &fixture{
		stock: newStubStock(stock),
		products: &stubProducts{products: map[int64]*Product{
			1: sneaker(1, "179.90"),
			2: sneaker(2, "139.90"),
			7: sneaker(7, "99.90"),
		}},
		storage:  newMemStorage(),
		notifier: &recordingNotifier{},
	}
	f.store = f.newStore(t)
	return f
}

func (f *fixture) newStore(t testing.TB) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), StoreParams{
		SessionID: "session-1",
		Stock:     f.stock,
		Products:  f.products,
		Storage:   f.storage,
		Notifier:  f.notifier,
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}
