package entity

import (
	"testing"

	"meteocard/internal/types"
)

// mockStateSource is an in-memory StateSource.
type mockStateSource struct {
	states map[string]types.EntityState
}

func (m *mockStateSource) GetState(entityID string) (types.EntityState, bool) {
	e, ok := m.states[entityID]
	return e, ok
}

func TestReaderResolvesConfiguredSlots(t *testing.T) {
	src := &mockStateSource{states: map[string]types.EntityState{
		"weather.paris": {EntityID: "weather.paris", State: "sunny"},
		"sensor.rain":   {EntityID: "sensor.rain", State: "ok"},
		"sensor.uv":     {EntityID: "sensor.uv", State: "4"},
	}}
	cfg := types.CardConfig{
		Entity:             "weather.paris",
		RainForecastEntity: "sensor.rain",
		UVEntity:           "sensor.uv",
	}

	r := NewReader(src, cfg)

	if e, ok := r.Primary(); !ok || e.State != "sunny" {
		t.Errorf("Primary() = (%+v, %v)", e, ok)
	}
	if e, ok := r.RainForecast(); !ok || e.EntityID != "sensor.rain" {
		t.Errorf("RainForecast() = (%+v, %v)", e, ok)
	}
	if e, ok := r.UV(); !ok || e.State != "4" {
		t.Errorf("UV() = (%+v, %v)", e, ok)
	}
}

func TestReaderAbsenceCases(t *testing.T) {
	src := &mockStateSource{states: map[string]types.EntityState{}}

	// Unknown id.
	r := NewReader(src, types.CardConfig{Entity: "weather.nowhere"})
	if _, ok := r.Primary(); ok {
		t.Error("unknown id should report absence")
	}

	// Unset slot.
	if _, ok := r.Alert(); ok {
		t.Error("unset alert entity should report absence")
	}

	// Nil source.
	r = NewReader(nil, types.CardConfig{Entity: "weather.paris"})
	if _, ok := r.Primary(); ok {
		t.Error("nil source should report absence")
	}
}
