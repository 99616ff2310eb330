// Package widget is the composition root of the weather card core. It owns
// the configuration lifecycle, wires the entity reader, forecast stream
// adapter and popup navigator together, and rebuilds the full render
// output from the latest snapshots on every external event. Redraws are
// idempotent: the same inputs always produce the same output.
package widget

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"meteocard/internal/entity"
	"meteocard/internal/popup"
	"meteocard/internal/stream"
	"meteocard/internal/types"
	"meteocard/internal/viewmodel"
)

// DataSource is the host-side collaborator: synchronous snapshot reads
// plus push-based forecast subscriptions.
type DataSource interface {
	entity.StateSource
	stream.ForecastFeed
}

// Widget is one card instance. All entry points are serialized, so view
// models are never rebuilt concurrently with a forecast replacement.
type Widget struct {
	logger     *slog.Logger
	validate   *validator.Validate
	now        func() time.Time
	closeDelay time.Duration
	onRender   func(types.RenderOutput)

	mu      sync.Mutex
	cfg     types.CardConfig
	cfgSet  bool
	source  DataSource
	adapter *stream.Adapter
	nav     *popup.Navigator
	torn    bool
}

// Option configures a Widget.
type Option func(*Widget)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Widget) {
		w.logger = logger
	}
}

// WithClock overrides the time source used for day labels. For tests.
func WithClock(now func() time.Time) Option {
	return func(w *Widget) {
		w.now = now
	}
}

// WithCloseDelay overrides the popup close transition delay. For tests.
func WithCloseDelay(d time.Duration) Option {
	return func(w *Widget) {
		w.closeDelay = d
	}
}

// New creates an unconfigured Widget. It renders the error placeholder
// until a valid configuration and a data source are supplied.
func New(opts ...Option) *Widget {
	w := &Widget{
		logger:     slog.Default(),
		validate:   validator.New(),
		now:        time.Now,
		closeDelay: popup.DefaultCloseDelay,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.nav = popup.NewNavigator(w.notify, popup.WithCloseDelay(w.closeDelay))
	return w
}

// SetRenderListener registers the callback invoked with the freshly
// rebuilt output after every state change.
func (w *Widget) SetRenderListener(fn func(types.RenderOutput)) {
	w.mu.Lock()
	w.onRender = fn
	w.mu.Unlock()
}

// SetConfig validates and applies a card configuration. A missing primary
// entity id is the single fatal configuration error: the configuration is
// refused outright and the previous one stays active. Changing the
// primary entity re-acquires the forecast subscriptions.
func (w *Widget) SetConfig(cfg types.CardConfig) error {
	if cfg.Entity == "" {
		return types.NewAppError(types.ErrCodeConfigMissingEntity,
			"a primary weather entity is required", nil)
	}
	if cfg.HourlyForecastCount == 0 {
		cfg.HourlyForecastCount = types.DefaultHourlyForecastCount
	}
	if cfg.DailyForecastCount == 0 {
		cfg.DailyForecastCount = types.DefaultDailyForecastCount
	}
	if err := w.validate.Struct(cfg); err != nil {
		return types.NewAppError(types.ErrCodeConfigInvalid,
			"card configuration is out of bounds", err)
	}

	w.mu.Lock()
	if w.torn {
		w.mu.Unlock()
		return types.NewAppError(types.ErrCodeWidgetTornDown, "widget has been torn down", nil)
	}
	entityChanged := !w.cfgSet || w.cfg.Entity != cfg.Entity
	w.cfg = cfg
	w.cfgSet = true

	var stale *stream.Adapter
	if entityChanged {
		stale = w.adapter
		w.adapter = nil
		if w.source != nil {
			w.adapter = stream.NewAdapter(w.source, cfg.Entity, w.logger, w.notify)
		}
	}
	adapter := w.adapter
	w.mu.Unlock()

	if stale != nil {
		stale.Teardown()
	}
	if adapter != nil {
		adapter.EnsureSubscribed(context.Background())
	}

	w.logger.Info("card configuration applied",
		"entity_id", cfg.Entity,
		"hourly_rows", cfg.HourlyForecastCount,
		"daily_rows", cfg.DailyForecastCount,
	)

	w.notify()
	return nil
}

// SetSource attaches the host data source and acquires the forecast
// subscriptions once both the source and a configured entity exist.
func (w *Widget) SetSource(src DataSource) {
	w.mu.Lock()
	if w.torn {
		w.mu.Unlock()
		return
	}
	w.source = src
	if w.adapter == nil && w.cfgSet && src != nil {
		w.adapter = stream.NewAdapter(src, w.cfg.Entity, w.logger, w.notify)
	}
	adapter := w.adapter
	w.mu.Unlock()

	if adapter != nil {
		adapter.EnsureSubscribed(context.Background())
	}
	w.notify()
}

// SourceUpdated signals that the data source carries fresh snapshots.
// It opportunistically retries any failed forecast subscription and
// triggers a rebuild, mirroring a host state push.
func (w *Widget) SourceUpdated() {
	w.mu.Lock()
	adapter := w.adapter
	torn := w.torn
	w.mu.Unlock()

	if torn {
		return
	}
	if adapter != nil {
		adapter.EnsureSubscribed(context.Background())
	}
	w.notify()
}

// OpenPopup shows the named detail view. Opening over an already open
// view replaces it.
func (w *Widget) OpenPopup(view types.PopupView) error {
	return w.nav.Open(view)
}

// ClosePopup requests the delayed close transition.
func (w *Widget) ClosePopup() {
	w.nav.RequestClose()
}

// Teardown releases the forecast subscriptions and freezes the popup
// state machine. Idempotent; the widget refuses further mutation.
func (w *Widget) Teardown() {
	w.mu.Lock()
	if w.torn {
		w.mu.Unlock()
		return
	}
	w.torn = true
	adapter := w.adapter
	w.adapter = nil
	w.mu.Unlock()

	w.nav.Stop()
	if adapter != nil {
		adapter.Teardown()
	}
	w.logger.Info("widget torn down")
}

// Render rebuilds the composed output from the current snapshots.
func (w *Widget) Render() types.RenderOutput {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.renderLocked()
}

func (w *Widget) renderLocked() types.RenderOutput {
	if !w.cfgSet {
		return types.RenderOutput{Error: &types.RenderError{
			Code:    types.ErrCodeConfigMissingEntity,
			Message: "aucune configuration",
		}}
	}
	if w.source == nil {
		return types.RenderOutput{Error: &types.RenderError{
			Code:     types.ErrCodeEntityNotFound,
			Message:  "source de données indisponible",
			EntityID: w.cfg.Entity,
		}}
	}

	reader := entity.NewReader(w.source, w.cfg)
	primary, ok := reader.Primary()
	if !ok {
		// The whole view degrades to the placeholder; no popup either,
		// whatever the navigation state says.
		return types.RenderOutput{Error: &types.RenderError{
			Code:     types.ErrCodeEntityNotFound,
			Message:  "entité introuvable : " + w.cfg.Entity,
			EntityID: w.cfg.Entity,
		}}
	}

	rain := viewmodel.BuildRainTimeline(optional(reader.RainForecast()))
	alerts := viewmodel.BuildAlertSet(optional(reader.Alert()))
	hourly, daily := w.rowsLocked()

	summary := viewmodel.BuildSummary(viewmodel.SummaryInput{
		Config:     w.cfg,
		Entity:     primary,
		Rain:       rain,
		Alerts:     alerts,
		Hourly:     hourly,
		Daily:      daily,
		RainChance: optional(reader.RainChance()),
		Now:        w.now(),
	})

	out := types.RenderOutput{Summary: &summary}
	if view, open, closing := w.nav.Active(); open {
		overlay := w.buildPopupLocked(view, primary, reader, rain, alerts, hourly, daily)
		overlay.Closing = closing
		out.Popup = overlay
	}
	return out
}

// buildPopupLocked assembles the payload of the open view from whichever
// view models are available. Absent models surface as an explicit
// unavailable placeholder, never a blank overlay.
func (w *Widget) buildPopupLocked(
	view types.PopupView,
	primary types.EntityState,
	reader *entity.Reader,
	rain *types.RainTimeline,
	alerts *types.AlertSet,
	hourly, daily []types.ForecastRow,
) *types.PopupOverlay {
	overlay := &types.PopupOverlay{
		View:  view,
		Title: viewmodel.PopupTitle(view),
	}

	switch view {
	case types.PopupCurrent:
		cc := viewmodel.BuildCurrentConditions(primary)
		overlay.Current = &cc
		overlay.Details = w.detailListLocked(primary, reader)
	case types.PopupDetails:
		overlay.Details = w.detailListLocked(primary, reader)
		overlay.Unavailable = len(overlay.Details) == 0
	case types.PopupRain:
		overlay.Rain = rain
		overlay.Unavailable = rain == nil
	case types.PopupAlerts:
		overlay.Alerts = alerts
		overlay.Unavailable = alerts == nil
	case types.PopupHourly:
		overlay.Forecast = truncateRows(hourly, w.cfg.HourlyForecastCount)
		overlay.Unavailable = len(overlay.Forecast) == 0
	case types.PopupDaily:
		overlay.Forecast = truncateRows(daily, w.cfg.DailyForecastCount)
		overlay.Unavailable = len(overlay.Forecast) == 0
	}
	return overlay
}

func (w *Widget) detailListLocked(primary types.EntityState, reader *entity.Reader) []types.DetailItem {
	return viewmodel.BuildDetailList(primary, viewmodel.OptionalEntities{
		UV:           optional(reader.UV()),
		RainChance:   optional(reader.RainChance()),
		FreezeChance: optional(reader.FreezeChance()),
		SnowChance:   optional(reader.SnowChance()),
	})
}

func (w *Widget) rowsLocked() (hourly, daily []types.ForecastRow) {
	if w.adapter == nil {
		return nil, nil
	}
	return w.adapter.Rows(types.ForecastHourly), w.adapter.Rows(types.ForecastDaily)
}

// notify rebuilds the output and hands it to the render listener. It runs
// after every state transition; a torn-down widget stays silent.
func (w *Widget) notify() {
	w.mu.Lock()
	if w.torn {
		w.mu.Unlock()
		return
	}
	listener := w.onRender
	var out types.RenderOutput
	if listener != nil {
		out = w.renderLocked()
	}
	w.mu.Unlock()

	if listener != nil {
		listener(out)
	}
}

// truncateRows applies the configured row count at the presentation
// boundary: the first n rows of the full sequence.
func truncateRows(rows []types.ForecastRow, n int) []types.ForecastRow {
	if n <= 0 || n >= len(rows) {
		return rows
	}
	return rows[:n]
}

// optional adapts a reader lookup to the pointer form the builders take.
func optional(e types.EntityState, ok bool) *types.EntityState {
	if !ok {
		return nil
	}
	return &e
}
