package widget

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meteocard/internal/stream"
	"meteocard/internal/types"
)

// mockSource implements DataSource: an in-memory snapshot store plus a
// forecast feed whose update callbacks tests can drive directly.
type mockSource struct {
	mu           sync.Mutex
	states       map[string]types.EntityState
	callbacks    map[types.ForecastKind]func(stream.ForecastUpdate)
	subscribeErr error
	subscribes   int
	cancels      int
}

func newMockSource() *mockSource {
	return &mockSource{
		states:    make(map[string]types.EntityState),
		callbacks: make(map[types.ForecastKind]func(stream.ForecastUpdate)),
	}
}

func (m *mockSource) GetState(entityID string) (types.EntityState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.states[entityID]
	return e, ok
}

func (m *mockSource) SubscribeForecast(_ context.Context, _ string, kind types.ForecastKind, onUpdate func(stream.ForecastUpdate)) (stream.CancelFunc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribes++
	if m.subscribeErr != nil {
		return nil, m.subscribeErr
	}
	m.callbacks[kind] = onUpdate
	return func() {
		m.mu.Lock()
		m.cancels++
		m.mu.Unlock()
	}, nil
}

func (m *mockSource) setState(e types.EntityState) {
	m.mu.Lock()
	m.states[e.EntityID] = e
	m.mu.Unlock()
}

func (m *mockSource) push(kind types.ForecastKind, forecast []types.RawForecast) {
	m.mu.Lock()
	cb := m.callbacks[kind]
	m.mu.Unlock()
	if cb != nil {
		cb(stream.ForecastUpdate{Forecast: forecast})
	}
}

func testConfig() types.CardConfig {
	cfg := types.DefaultCardConfig()
	cfg.Entity = "weather.paris"
	return cfg
}

func primaryState() types.EntityState {
	return types.EntityState{
		EntityID: "weather.paris",
		State:    "sunny",
		Attributes: map[string]any{
			"friendly_name": "Météo Paris",
			"temperature":   21.3,
			"humidity":      55.0,
		},
	}
}

func newTestWidget(t *testing.T, src *mockSource) *Widget {
	t.Helper()
	w := New(WithCloseDelay(5 * time.Millisecond))
	w.SetSource(src)
	require.NoError(t, w.SetConfig(testConfig()))
	t.Cleanup(w.Teardown)
	return w
}

func TestSetConfigMissingEntityRefused(t *testing.T) {
	w := New()

	err := w.SetConfig(types.CardConfig{})
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeConfigMissingEntity, appErr.Code)

	// The refusal leaves the widget unconfigured.
	out := w.Render()
	require.NotNil(t, out.Error)
	assert.Equal(t, types.ErrCodeConfigMissingEntity, out.Error.Code)
}

func TestSetConfigOutOfBoundsRefused(t *testing.T) {
	w := New()

	cfg := testConfig()
	cfg.HourlyForecastCount = 48
	err := w.SetConfig(cfg)
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeConfigInvalid, appErr.Code)
}

func TestSetConfigZeroCountsGetDefaults(t *testing.T) {
	src := newMockSource()
	src.setState(primaryState())

	w := New()
	w.SetSource(src)
	cfg := testConfig()
	cfg.HourlyForecastCount = 0
	cfg.DailyForecastCount = 0
	require.NoError(t, w.SetConfig(cfg))
	t.Cleanup(w.Teardown)

	// Push more rows than the default count and check the popup truncation.
	var forecast []types.RawForecast
	for i := 0; i < 10; i++ {
		forecast = append(forecast, types.RawForecast{
			Datetime:  time.Now().Add(time.Duration(i) * time.Hour),
			Condition: "sunny",
		})
	}
	src.push(types.ForecastHourly, forecast)

	require.NoError(t, w.OpenPopup(types.PopupHourly))
	out := w.Render()
	require.NotNil(t, out.Popup)
	assert.Len(t, out.Popup.Forecast, types.DefaultHourlyForecastCount)
}

func TestRenderWithoutSource(t *testing.T) {
	w := New()
	require.NoError(t, w.SetConfig(testConfig()))

	out := w.Render()
	require.NotNil(t, out.Error)
	assert.Equal(t, types.ErrCodeEntityNotFound, out.Error.Code)
	assert.Nil(t, out.Summary)
}

func TestRenderPlaceholderWhenPrimaryMissing(t *testing.T) {
	src := newMockSource() // knows no entities
	w := newTestWidget(t, src)

	// Even with a popup open, the placeholder wins and no popup renders.
	require.NoError(t, w.OpenPopup(types.PopupDetails))

	out := w.Render()
	require.NotNil(t, out.Error)
	assert.Equal(t, types.ErrCodeEntityNotFound, out.Error.Code)
	assert.Equal(t, "entité introuvable : weather.paris", out.Error.Message)
	assert.Equal(t, "weather.paris", out.Error.EntityID)
	assert.Nil(t, out.Summary)
	assert.Nil(t, out.Popup)
}

func TestRenderHappyPath(t *testing.T) {
	src := newMockSource()
	src.setState(primaryState())
	w := newTestWidget(t, src)

	out := w.Render()
	require.Nil(t, out.Error)
	require.NotNil(t, out.Summary)
	assert.Equal(t, "Météo Paris", out.Summary.Title)
	assert.Equal(t, "☀️", out.Summary.ConditionIcon)
	require.NotNil(t, out.Summary.Current.Temperature)
	assert.Equal(t, 21, *out.Summary.Current.Temperature)
	assert.Nil(t, out.Popup)
}

func TestPopupLifecycle(t *testing.T) {
	src := newMockSource()
	src.setState(primaryState())

	// A long close delay keeps the closing state observable.
	w := New(WithCloseDelay(time.Minute))
	w.SetSource(src)
	require.NoError(t, w.SetConfig(testConfig()))
	t.Cleanup(w.Teardown)

	require.NoError(t, w.OpenPopup(types.PopupCurrent))

	out := w.Render()
	require.NotNil(t, out.Popup)
	assert.Equal(t, types.PopupCurrent, out.Popup.View)
	assert.Equal(t, "Météo actuelle", out.Popup.Title)
	require.NotNil(t, out.Popup.Current)
	assert.NotEmpty(t, out.Popup.Details)
	assert.False(t, out.Popup.Closing)

	w.ClosePopup()
	out = w.Render()
	require.NotNil(t, out.Popup)
	assert.True(t, out.Popup.Closing)
}

func TestPopupUnavailablePlaceholders(t *testing.T) {
	src := newMockSource()
	src.setState(types.EntityState{EntityID: "weather.paris", State: "sunny"})
	w := newTestWidget(t, src)

	// No rain entity configured, no forecast pushed.
	require.NoError(t, w.OpenPopup(types.PopupRain))
	out := w.Render()
	require.NotNil(t, out.Popup)
	assert.True(t, out.Popup.Unavailable)

	require.NoError(t, w.OpenPopup(types.PopupDaily))
	out = w.Render()
	require.NotNil(t, out.Popup)
	assert.True(t, out.Popup.Unavailable)
	assert.Empty(t, out.Popup.Forecast)
}

func TestOpenPopupUnknownView(t *testing.T) {
	src := newMockSource()
	src.setState(primaryState())
	w := newTestWidget(t, src)

	err := w.OpenPopup(types.PopupView("settings"))
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeValidationInvalidView, appErr.Code)
}

func TestForecastPushTriggersRenderListener(t *testing.T) {
	src := newMockSource()
	src.setState(primaryState())
	w := newTestWidget(t, src)

	var mu sync.Mutex
	var last types.RenderOutput
	renders := 0
	w.SetRenderListener(func(out types.RenderOutput) {
		mu.Lock()
		last = out
		renders++
		mu.Unlock()
	})

	temp := 14.0
	src.push(types.ForecastHourly, []types.RawForecast{
		{Datetime: time.Now(), Condition: "rainy", Temperature: &temp},
	})

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, renders)
	require.NotNil(t, last.Summary)
	assert.Len(t, last.Summary.Chips.Hourly, 1)
}

func TestSetConfigEntityChangeResubscribes(t *testing.T) {
	src := newMockSource()
	src.setState(primaryState())
	w := newTestWidget(t, src)

	src.mu.Lock()
	before := src.subscribes
	src.mu.Unlock()
	require.Equal(t, 2, before)

	cfg := testConfig()
	cfg.Entity = "weather.lyon"
	require.NoError(t, w.SetConfig(cfg))

	src.mu.Lock()
	defer src.mu.Unlock()
	assert.Equal(t, 4, src.subscribes, "both kinds re-acquired for the new entity")
	assert.Equal(t, 2, src.cancels, "stale subscriptions released")
}

func TestSubscriptionFailureDegradesGracefully(t *testing.T) {
	src := newMockSource()
	src.subscribeErr = errors.New("feed down")
	src.setState(primaryState())

	w := New()
	w.SetSource(src)
	require.NoError(t, w.SetConfig(testConfig()))
	t.Cleanup(w.Teardown)

	// The widget still renders from snapshots.
	out := w.Render()
	require.Nil(t, out.Error)
	require.NotNil(t, out.Summary)

	// A state push retries the registration.
	src.mu.Lock()
	src.subscribeErr = nil
	src.mu.Unlock()
	w.SourceUpdated()

	src.mu.Lock()
	defer src.mu.Unlock()
	assert.Len(t, src.callbacks, 2)
}

func TestTeardownIdempotentAndFinal(t *testing.T) {
	src := newMockSource()
	src.setState(primaryState())
	w := newTestWidget(t, src)

	renders := 0
	w.SetRenderListener(func(types.RenderOutput) { renders++ })

	w.Teardown()
	w.Teardown()

	src.mu.Lock()
	cancels := src.cancels
	src.mu.Unlock()
	assert.Equal(t, 2, cancels, "one cancel per kind, once")

	err := w.SetConfig(testConfig())
	require.Error(t, err)
	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeWidgetTornDown, appErr.Code)

	// Late pushes stay silent.
	src.push(types.ForecastHourly, []types.RawForecast{{Datetime: time.Now()}})
	assert.Zero(t, renders)
}
