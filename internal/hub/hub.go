// Package hub is the in-process push-based data source feeding a widget.
// The host pushes entity snapshots and forecast arrays into it; the widget
// reads snapshots synchronously on demand and receives forecast arrays
// through cancellable subscriptions keyed by entity id and kind.
package hub

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"meteocard/internal/stream"
	"meteocard/internal/types"
)

// Hub holds the latest snapshot per entity and the registry of forecast
// subscriptions. Callbacks are always invoked outside the hub's lock.
type Hub struct {
	logger *slog.Logger

	mu     sync.RWMutex
	states map[string]types.EntityState
	subs   map[string]*subscription
}

type subscription struct {
	entityID string
	kind     types.ForecastKind
	onUpdate func(stream.ForecastUpdate)
}

// New creates an empty Hub.
func New(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger: logger,
		states: make(map[string]types.EntityState),
		subs:   make(map[string]*subscription),
	}
}

// GetState returns the latest snapshot for an entity id.
func (h *Hub) GetState(entityID string) (types.EntityState, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	e, ok := h.states[entityID]
	return e, ok
}

// PushStates replaces the snapshots of the given entities. Snapshots
// without an entity id are dropped. Returns the number accepted.
func (h *Hub) PushStates(states []types.EntityState) int {
	h.mu.Lock()
	accepted := 0
	for _, e := range states {
		if e.EntityID == "" {
			continue
		}
		h.states[e.EntityID] = e
		accepted++
	}
	h.mu.Unlock()

	h.logger.Debug("entity snapshots pushed", "accepted", accepted)
	return accepted
}

// SubscribeForecast registers a forecast subscription and returns its
// cancellation handle. Cancelling is idempotent.
func (h *Hub) SubscribeForecast(_ context.Context, entityID string, kind types.ForecastKind, onUpdate func(stream.ForecastUpdate)) (stream.CancelFunc, error) {
	if entityID == "" {
		return nil, types.NewAppError(types.ErrCodeValidationBadPayload,
			"subscription requires an entity id", nil)
	}
	if !kind.Valid() {
		return nil, types.NewAppError(types.ErrCodeValidationInvalidKind,
			"unknown forecast kind: "+string(kind), nil)
	}

	token := uuid.NewString()
	h.mu.Lock()
	h.subs[token] = &subscription{entityID: entityID, kind: kind, onUpdate: onUpdate}
	h.mu.Unlock()

	h.logger.Debug("forecast subscription registered",
		"entity_id", entityID,
		"kind", string(kind),
		"token", token,
	)

	return func() {
		h.mu.Lock()
		delete(h.subs, token)
		h.mu.Unlock()
	}, nil
}

// PushForecast delivers a forecast array to every subscription matching
// the entity id and kind, and returns how many were notified.
func (h *Hub) PushForecast(entityID string, kind types.ForecastKind, forecast []types.RawForecast) int {
	h.mu.RLock()
	var targets []func(stream.ForecastUpdate)
	for _, sub := range h.subs {
		if sub.entityID == entityID && sub.kind == kind {
			targets = append(targets, sub.onUpdate)
		}
	}
	h.mu.RUnlock()

	update := stream.ForecastUpdate{Forecast: forecast}
	for _, deliver := range targets {
		deliver(update)
	}
	return len(targets)
}
