package services

import (
	"sync"
	"time"

	"github.com/marketbay/shopfront/pkg/views"
	"github.com/marketbay/shopfront/services/storefront-api/internal/observability"
	"go.uber.org/zap"
)

// Relay is the keyed broker behind the payment-events stream. A browser tab
// waiting on checkout subscribes with its order code; the webhook path (via
// the Kafka consumer) delivers exactly one event to every waiter for that
// code. Registrations expire after the configured TTL so abandoned tabs do
// not leak entries.
type Relay interface {
	// Subscribe registers a waiter for the order code. The returned channel
	// receives at most one event and is closed afterwards. Cancel must be
	// called when the subscriber goes away without an event.
	Subscribe(orderCode string) (<-chan views.PaymentEvent, func())
	// Publish delivers the event to all current waiters for its order code.
	// Returns the number of waiters reached.
	Publish(event views.PaymentEvent) int
	// Close stops the eviction janitor and drops all registrations.
	Close()
}

type waiter struct {
	ch        chan views.PaymentEvent
	expiresAt time.Time
}

type RelayImpl struct {
	logger  *zap.Logger
	ttl     time.Duration
	mu      sync.Mutex
	waiters map[string][]*waiter
	done    chan struct{}
	once    sync.Once
}

// NewRelay creates a relay whose registrations expire after ttl. The janitor
// sweeps at ttl/4 (floored at one second).
func NewRelay(logger *zap.Logger, ttl time.Duration) Relay {
	r := &RelayImpl{
		logger:  logger,
		ttl:     ttl,
		waiters: make(map[string][]*waiter),
		done:    make(chan struct{}),
	}
	go r.janitor()
	return r
}

func (r *RelayImpl) Subscribe(orderCode string) (<-chan views.PaymentEvent, func()) {
	w := &waiter{
		ch:        make(chan views.PaymentEvent, 1),
		expiresAt: time.Now().Add(r.ttl),
	}

	r.mu.Lock()
	r.waiters[orderCode] = append(r.waiters[orderCode], w)
	total := len(r.waiters[orderCode])
	r.mu.Unlock()

	observability.RelayWaiters.Inc()
	r.logger.Debug("relay_waiter_registered",
		zap.String("orderCode", orderCode),
		zap.Int("waiters", total))

	cancel := func() { r.remove(orderCode, w, false) }
	return w.ch, cancel
}

func (r *RelayImpl) Publish(event views.PaymentEvent) int {
	r.mu.Lock()
	delivered := r.waiters[event.OrderCode]
	delete(r.waiters, event.OrderCode)
	r.mu.Unlock()

	for _, w := range delivered {
		w.ch <- event // buffered, never blocks
		close(w.ch)
	}
	if n := len(delivered); n > 0 {
		observability.RelayWaiters.Sub(float64(n))
		observability.RelayDelivered.Add(float64(n))
		r.logger.Info("relay_event_delivered",
			zap.String("orderCode", event.OrderCode),
			zap.Int("waiters", n))
		return n
	}
	r.logger.Debug("relay_event_unclaimed", zap.String("orderCode", event.OrderCode))
	return 0
}

func (r *RelayImpl) Close() {
	r.once.Do(func() { close(r.done) })
	r.mu.Lock()
	defer r.mu.Unlock()
	for code, ws := range r.waiters {
		for _, w := range ws {
			close(w.ch)
		}
		delete(r.waiters, code)
		observability.RelayWaiters.Sub(float64(len(ws)))
	}
}

// remove drops a single waiter; expired=true counts it as an eviction.
func (r *RelayImpl) remove(orderCode string, target *waiter, expired bool) {
	r.mu.Lock()
	ws := r.waiters[orderCode]
	for i, w := range ws {
		if w == target {
			r.waiters[orderCode] = append(ws[:i], ws[i+1:]...)
			if len(r.waiters[orderCode]) == 0 {
				delete(r.waiters, orderCode)
			}
			r.mu.Unlock()
			observability.RelayWaiters.Dec()
			if expired {
				observability.RelayExpired.Inc()
				close(target.ch)
			}
			return
		}
	}
	r.mu.Unlock()
}

func (r *RelayImpl) janitor() {
	interval := r.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case now := <-ticker.C:
			r.evictExpired(now)
		}
	}
}

func (r *RelayImpl) evictExpired(now time.Time) {
	r.mu.Lock()
	var expired []*waiter
	var codes []string
	for code, ws := range r.waiters {
		kept := ws[:0]
		for _, w := range ws {
			if now.After(w.expiresAt) {
				expired = append(expired, w)
				codes = append(codes, code)
			} else {
				kept = append(kept, w)
			}
		}
		if len(kept) == 0 {
			delete(r.waiters, code)
		} else {
			r.waiters[code] = kept
		}
	}
	r.mu.Unlock()

	for i, w := range expired {
		close(w.ch)
		observability.RelayWaiters.Dec()
		observability.RelayExpired.Inc()
		r.logger.Debug("relay_waiter_expired", zap.String("orderCode", codes[i]))
	}
}
