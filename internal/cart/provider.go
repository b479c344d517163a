package cart

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
)

const (
	DefaultMaxSessions    = 10000
	DefaultSessionIdleTTL = 30 * time.Minute
)

// ProviderParams holds the collaborators shared by every session's Store.
// MaxSessions and IdleTTL bound how many stores stay resident.
type ProviderParams struct {
	Key         string
	Stock       StockReader
	Products    ProductReader
	Storage     Storage
	Notifier    Notifier
	Logger      *logger.Logger
	Metrics     *metrics.CartMetrics
	MaxSessions int
	IdleTTL     time.Duration
}

// Provider hands out one Store per session. A Store is created on first
// access and reused until it goes idle or is pushed out by newer sessions;
// the next access reloads it from storage.
type Provider struct {
	params   ProviderParams
	sessions *expirable.LRU[string, *Store]
	loads    singleflight.Group
}

func NewProvider(params ProviderParams) (*Provider, error) {
	if params.Stock == nil || params.Products == nil {
		return nil, errors.New("catalog readers required")
	}
	if params.Storage == nil {
		return nil, errors.New("storage required")
	}
	if params.Notifier == nil {
		return nil, errors.New("notifier required")
	}
	if params.Key == "" {
		params.Key = DefaultStorageKey
	}
	if params.MaxSessions <= 0 {
		params.MaxSessions = DefaultMaxSessions
	}
	if params.IdleTTL <= 0 {
		params.IdleTTL = DefaultSessionIdleTTL
	}
	return &Provider{
		params:   params,
		sessions: expirable.NewLRU[string, *Store](params.MaxSessions, nil, params.IdleTTL),
	}, nil
}

// Session returns the Store for sessionID, loading it from storage when it is
// not resident. Concurrent first accesses for one session share a single load.
func (p *Provider) Session(ctx context.Context, sessionID string) (*Store, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, errors.New("session id required")
	}

	if store, ok := p.touch(sessionID); ok {
		return store, nil
	}

	v, err, _ := p.loads.Do(sessionID, func() (any, error) {
		if store, ok := p.touch(sessionID); ok {
			return store, nil
		}
		store, err := NewStore(ctx, StoreParams{
			SessionID: sessionID,
			Key:       SessionKey(sessionID, p.params.Key),
			Stock:     p.params.Stock,
			Products:  p.params.Products,
			Storage:   p.params.Storage,
			Notifier:  p.params.Notifier,
			Logger:    p.params.Logger,
			Metrics:   p.params.Metrics,
		})
		if err != nil {
			return nil, err
		}
		p.sessions.Add(sessionID, store)
		return store, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Store), nil
}

// Resident reports how many session stores are held in memory.
func (p *Provider) Resident() int {
	return p.sessions.Len()
}

// touch returns the resident store and restarts its idle timer.
func (p *Provider) touch(sessionID string) (*Store, bool) {
	store, ok := p.sessions.Get(sessionID)
	if ok {
		p.sessions.Add(sessionID, store)
	}
	return store, ok
}

// SessionKey is the storage key a session's cart is mirrored under.
func SessionKey(sessionID, key string) string {
	return sessionID + ":" + key
}
