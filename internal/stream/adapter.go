// Package stream manages the two independent push-based forecast
// subscriptions (hourly, daily) of a widget instance. Each subscription is
// an explicit resource: acquired once when the data source and primary
// entity are both available, released exactly once on teardown. Pushed
// arrays fully replace the kind's row sequence; nothing is merged.
package stream

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"meteocard/internal/types"
	"meteocard/internal/viewmodel"
)

// CancelFunc releases a forecast subscription. Implementations must
// tolerate being called after the source has gone away.
type CancelFunc func()

// ForecastUpdate is one push from the forecast feed. A nil Forecast is a
// valid push and clears the kind's row sequence.
type ForecastUpdate struct {
	Forecast []types.RawForecast `json:"forecast"`
}

// ForecastFeed registers push-based forecast subscriptions with the host
// data source, keyed by entity id and forecast kind.
type ForecastFeed interface {
	// SubscribeForecast registers onUpdate for pushes of the given kind and
	// returns the cancellation handle. Registration may fail; failures are
	// non-fatal to the caller.
	SubscribeForecast(ctx context.Context, entityID string, kind types.ForecastKind, onUpdate func(ForecastUpdate)) (CancelFunc, error)
}

// kindState tracks one subscription's lifecycle.
type kindState int

const (
	stateUnsubscribed kindState = iota
	stateSubscribing
	stateSubscribed
)

type kindStream struct {
	state  kindState
	cancel CancelFunc
	rows   []types.ForecastRow
}

// Adapter holds both forecast subscriptions and buffers the latest pushed
// row sequence per kind. All entry points are safe for concurrent use; row
// replacement completes before the change notification fires, so a
// rebuild triggered by onChange never observes a torn sequence.
type Adapter struct {
	feed     ForecastFeed
	entityID string
	logger   *slog.Logger
	onChange func()
	breaker  *gobreaker.CircuitBreaker[CancelFunc]

	mu      sync.Mutex
	streams map[types.ForecastKind]*kindStream
	closed  bool
}

// NewAdapter creates an Adapter for the given feed and primary entity id.
// onChange is invoked after every accepted push; it must not call back
// into the adapter's write paths. A nil logger falls back to slog.Default.
func NewAdapter(feed ForecastFeed, entityID string, logger *slog.Logger, onChange func()) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	if onChange == nil {
		onChange = func() {}
	}
	breaker := gobreaker.NewCircuitBreaker[CancelFunc](gobreaker.Settings{
		Name:        "forecast-feed",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
	return &Adapter{
		feed:     feed,
		entityID: entityID,
		logger:   logger,
		onChange: onChange,
		breaker:  breaker,
		streams: map[types.ForecastKind]*kindStream{
			types.ForecastHourly: {},
			types.ForecastDaily:  {},
		},
	}
}

// EnsureSubscribed triggers registration for both kinds. It is idempotent:
// kinds already subscribed or mid-registration are left alone, and a kind
// whose previous attempt failed becomes eligible again. Failures are
// logged and never propagate.
func (a *Adapter) EnsureSubscribed(ctx context.Context) {
	if a.feed == nil || a.entityID == "" {
		return
	}
	a.ensureKind(ctx, types.ForecastHourly)
	a.ensureKind(ctx, types.ForecastDaily)
}

func (a *Adapter) ensureKind(ctx context.Context, kind types.ForecastKind) {
	a.mu.Lock()
	ks := a.streams[kind]
	if a.closed || ks.state != stateUnsubscribed {
		a.mu.Unlock()
		return
	}
	ks.state = stateSubscribing
	a.mu.Unlock()

	// Registration runs outside the lock; the feed may push before it
	// returns. The breaker stops hammering a feed that keeps refusing.
	cancel, err := a.breaker.Execute(func() (CancelFunc, error) {
		return a.feed.SubscribeForecast(ctx, a.entityID, kind, func(u ForecastUpdate) {
			a.handlePush(kind, u)
		})
	})

	a.mu.Lock()
	if err != nil {
		ks.state = stateUnsubscribed
		a.mu.Unlock()
		a.logger.Warn("forecast subscription failed",
			"entity_id", a.entityID,
			"kind", string(kind),
			"error", err,
		)
		return
	}
	if a.closed {
		// Torn down while registering; release immediately.
		a.mu.Unlock()
		cancel()
		return
	}
	ks.state = stateSubscribed
	ks.cancel = cancel
	a.mu.Unlock()

	a.logger.Debug("forecast subscription established",
		"entity_id", a.entityID,
		"kind", string(kind),
	)
}

// handlePush replaces the kind's row sequence with the pushed array (or an
// empty sequence when the push carries no forecast) and then requests a
// re-render. Pushes arriving after teardown are dropped.
func (a *Adapter) handlePush(kind types.ForecastKind, u ForecastUpdate) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.streams[kind].rows = viewmodel.BuildForecastRows(u.Forecast, kind)
	a.mu.Unlock()

	a.onChange()
}

// Rows returns the latest row sequence for a kind. Empty until the first
// successful push.
func (a *Adapter) Rows(kind types.ForecastKind) []types.ForecastRow {
	a.mu.Lock()
	defer a.mu.Unlock()
	ks, ok := a.streams[kind]
	if !ok {
		return nil
	}
	return ks.rows
}

// Subscribed reports whether the kind currently holds a live subscription.
func (a *Adapter) Subscribed(kind types.ForecastKind) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	ks, ok := a.streams[kind]
	return ok && ks.state == stateSubscribed
}

// Teardown cancels every live subscription exactly once and marks the
// adapter final. Safe to call when never subscribed, and safe to call
// more than once.
func (a *Adapter) Teardown() {
	a.mu.Lock()
	a.closed = true
	var cancels []CancelFunc
	for _, ks := range a.streams {
		if ks.cancel != nil {
			cancels = append(cancels, ks.cancel)
			ks.cancel = nil
		}
		ks.state = stateUnsubscribed
	}
	a.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}
