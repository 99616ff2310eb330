// Package entity resolves configured entity identifiers against the host
// data source's latest snapshot. Absence (an unset id, or an id unknown
// to the source) is a normal, representable outcome propagated to every
// downstream consumer as "no data", never as a failure.
package entity

import "meteocard/internal/types"

// StateSource provides the latest entity snapshot on demand. Implemented
// by the host data source; the reader only ever takes snapshots from it.
type StateSource interface {
	// GetState returns the current snapshot for an entity id, reporting
	// false when the id is unknown.
	GetState(entityID string) (types.EntityState, bool)
}

// Reader binds a state source to a card configuration and exposes one
// accessor per configured entity slot.
type Reader struct {
	src StateSource
	cfg types.CardConfig
}

// NewReader creates a Reader over the given source and configuration.
// A nil source is tolerated; every accessor then reports absence.
func NewReader(src StateSource, cfg types.CardConfig) *Reader {
	return &Reader{src: src, cfg: cfg}
}

// Primary returns the primary weather entity. Its absence is the
// distinguished case that renders the error placeholder.
func (r *Reader) Primary() (types.EntityState, bool) {
	return r.read(r.cfg.Entity)
}

// RainForecast returns the short-horizon rain forecast entity.
func (r *Reader) RainForecast() (types.EntityState, bool) {
	return r.read(r.cfg.RainForecastEntity)
}

// Alert returns the vigilance alert entity.
func (r *Reader) Alert() (types.EntityState, bool) {
	return r.read(r.cfg.AlertEntity)
}

// RainChance returns the auxiliary rain-risk sensor.
func (r *Reader) RainChance() (types.EntityState, bool) {
	return r.read(r.cfg.RainChanceEntity)
}

// FreezeChance returns the auxiliary freeze-risk sensor.
func (r *Reader) FreezeChance() (types.EntityState, bool) {
	return r.read(r.cfg.FreezeChanceEntity)
}

// SnowChance returns the auxiliary snow-risk sensor.
func (r *Reader) SnowChance() (types.EntityState, bool) {
	return r.read(r.cfg.SnowChanceEntity)
}

// UV returns the auxiliary UV sensor, used when the primary entity lacks
// a uv_index attribute.
func (r *Reader) UV() (types.EntityState, bool) {
	return r.read(r.cfg.UVEntity)
}

func (r *Reader) read(entityID string) (types.EntityState, bool) {
	if r.src == nil || entityID == "" {
		return types.EntityState{}, false
	}
	return r.src.GetState(entityID)
}
