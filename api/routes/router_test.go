package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-cart/api/controllers"
	"github.com/angelmondragon/storefront-cart/api/middleware"
	"github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/internal/notify"
	"github.com/angelmondragon/storefront-cart/internal/storage"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
)

type stubCatalog struct{}

func (stubCatalog) GetStock(_ context.Context, productID int64) (*cart.Stock, error) {
	amount := 5
	return &cart.Stock{ID: productID, Amount: &amount}, nil
}

func (stubCatalog) GetProduct(_ context.Context, productID int64) (*cart.Product, error) {
	return &cart.Product{ID: productID, Title: "Tênis", Price: decimal.NewFromInt(100), Image: "x.jpg"}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	mem := storage.NewMemory()
	feed := notify.NewFeed(0)

	provider, err := cart.NewProvider(cart.ProviderParams{
		Stock:    stubCatalog{},
		Products: stubCatalog{},
		Storage:  mem,
		Notifier: feed,
		Metrics:  metrics.NewCartMetrics(reg),
	})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	return NewRouter(Deps{
		Config:        &config.Config{App: config.AppConfig{Env: "dev"}},
		Sessions:      provider,
		Notifications: feed,
		Ready:         map[string]controllers.Pinger{"storage": mem},
		Gatherer:      reg,
	})
}

func TestRouterHealth(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
		if resp.Header().Get("X-Request-Id") == "" {
			t.Fatalf("%s: expected request id header", path)
		}
	}
}

func TestRouterCartIssuesSession(t *testing.T) {
	router := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get(middleware.SessionHeader) == "" {
		t.Fatal("expected a session id to be issued")
	}
}

func TestRouterMetricsExposeCartOperations(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":3}`))
	req.Header.Set(middleware.SessionHeader, "abc")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `cart_operations_total{op="add",result="success"} 1`) {
		t.Fatalf("expected add counter in metrics output:\n%s", resp.Body.String())
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
