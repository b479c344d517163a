package notify

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

const (
	// DefaultFeedCapacity bounds how many undrained notifications a session keeps.
	DefaultFeedCapacity = 20
	DefaultFeedSessions = 10000
	DefaultFeedIdleTTL  = 30 * time.Minute
)

// Log writes every notification as a structured log line.
type Log struct {
	logg *logger.Logger
}

func NewLog(logg *logger.Logger) *Log {
	return &Log{logg: logg}
}

func (l *Log) Notify(ctx context.Context, n cart.Notification) {
	if l == nil || l.logg == nil {
		return
	}
	ctx = l.logg.WithFields(ctx, map[string]any{
		"session_id": n.SessionID,
		"product_id": n.ProductID,
		"op":         string(n.Op),
		"kind":       string(n.Kind),
		"notice":     n.Message,
	})
	l.logg.Info(ctx, "cart.notification")
}

// Feed buffers notifications per session until the view layer drains them.
// When a session exceeds its capacity the oldest notification is dropped.
// Sessions that stay undrained past the idle TTL, or that fall off the
// session limit, lose their queue.
type Feed struct {
	capacity    int
	maxSessions int
	idleTTL     time.Duration

	mu      sync.Mutex
	pending *expirable.LRU[string, []cart.Notification]
}

// FeedOption configures optional feed behavior.
type FeedOption func(*Feed)

// WithSessionLimit bounds how many sessions hold queued notifications and how
// long an untouched queue is kept.
func WithSessionLimit(maxSessions int, idleTTL time.Duration) FeedOption {
	return func(f *Feed) {
		if maxSessions > 0 {
			f.maxSessions = maxSessions
		}
		if idleTTL > 0 {
			f.idleTTL = idleTTL
		}
	}
}

func NewFeed(capacity int, opts ...FeedOption) *Feed {
	if capacity <= 0 {
		capacity = DefaultFeedCapacity
	}
	f := &Feed{
		capacity:    capacity,
		maxSessions: DefaultFeedSessions,
		idleTTL:     DefaultFeedIdleTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	f.pending = expirable.NewLRU[string, []cart.Notification](f.maxSessions, nil, f.idleTTL)
	return f
}

func (f *Feed) Notify(_ context.Context, n cart.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	queue, _ := f.pending.Get(n.SessionID)
	queue = append(slices.Clip(queue), n)
	if over := len(queue) - f.capacity; over > 0 {
		queue = slices.Clone(queue[over:])
	}
	f.pending.Add(n.SessionID, queue)
}

// Drain returns and clears the pending notifications for sessionID, oldest
// first.
func (f *Feed) Drain(sessionID string) []cart.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	queue, ok := f.pending.Get(sessionID)
	if !ok {
		return []cart.Notification{}
	}
	f.pending.Remove(sessionID)
	return queue
}

// Sessions reports how many sessions currently hold queued notifications.
func (f *Feed) Sessions() int {
	return f.pending.Len()
}

// Multi fans a notification out to every wrapped notifier in order.
type Multi []cart.Notifier

func (m Multi) Notify(ctx context.Context, n cart.Notification) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(ctx, n)
		}
	}
}
