// Package viewmodel turns raw entity snapshots and forecast pushes into the
// stable shapes the presentation layer consumes: current conditions, the
// detail list, the rain timeline, the active alert set, and forecast rows.
// Every builder treats absent input as a valid "no data" case and rebuilds
// its output in full from the latest snapshot on every call; nothing here
// is cached or incrementally updated.
package viewmodel

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"meteocard/internal/lookup"
	"meteocard/internal/types"
)

// rainForecastAttr is the attribute holding the minute-offset → description
// mapping on the rain forecast entity.
const rainForecastAttr = "1_hour_forecast"

// rainRefTimeAttr is the attribute holding the forecast reference time.
const rainRefTimeAttr = "forecast_time_ref"

// OptionalEntities carries the auxiliary sensor snapshots consulted by the
// detail list. Nil members mean the sensor is not configured or not
// resolvable; the corresponding rows are simply omitted.
type OptionalEntities struct {
	UV           *types.EntityState
	RainChance   *types.EntityState
	FreezeChance *types.EntityState
	SnowChance   *types.EntityState
}

// BuildCurrentConditions derives the summary conditions from the primary
// entity. Temperatures are rounded to the nearest integer; the unit
// defaults to °C when the snapshot does not carry one.
func BuildCurrentConditions(e types.EntityState) types.CurrentConditions {
	cc := types.CurrentConditions{
		ConditionCode:   e.State,
		TemperatureUnit: e.AttrStringOr("temperature_unit", "°C"),
	}
	if v, ok := e.AttrFloat("temperature"); ok {
		cc.Temperature = roundedInt(v)
	}
	if v, ok := e.AttrFloat("apparent_temperature"); ok {
		cc.ApparentTemperature = roundedInt(v)
	}
	return cc
}

// BuildDetailList emits at most one DetailItem per recognized attribute, in
// a fixed priority order: humidity, pressure, wind (with compass direction),
// gusts, visibility, UV (substituted by the UV sensor when the attribute is
// absent), cloud coverage, dew point, then the three risk sensors. Fields
// whose source is absent are omitted; the order of the rest is preserved.
func BuildDetailList(e types.EntityState, opt OptionalEntities) []types.DetailItem {
	var items []types.DetailItem

	if v, ok := e.AttrFloat("humidity"); ok {
		items = append(items, types.DetailItem{Icon: "mdi:water-percent", Label: "Humidité", Value: formatNumber(v) + "%"})
	}
	if v, ok := e.AttrFloat("pressure"); ok {
		unit := e.AttrStringOr("pressure_unit", "hPa")
		items = append(items, types.DetailItem{Icon: "mdi:gauge", Label: "Pression", Value: formatNumber(v) + " " + unit})
	}
	if v, ok := e.AttrFloat("wind_speed"); ok {
		unit := e.AttrStringOr("wind_speed_unit", "km/h")
		value := fmt.Sprintf("%d %s", int(math.Round(v)), unit)
		if bearing, ok := e.AttrFloat("wind_bearing"); ok {
			if dir := lookup.CompassLabel(bearing); dir != "" {
				value += " " + dir
			}
		}
		items = append(items, types.DetailItem{Icon: "mdi:weather-windy", Label: "Vent", Value: value})
	}
	if v, ok := e.AttrFloat("wind_gust_speed"); ok {
		unit := e.AttrStringOr("wind_speed_unit", "km/h")
		items = append(items, types.DetailItem{Icon: "mdi:weather-windy-variant", Label: "Rafales", Value: fmt.Sprintf("%d %s", int(math.Round(v)), unit)})
	}
	if v, ok := e.AttrFloat("visibility"); ok {
		unit := e.AttrStringOr("visibility_unit", "km")
		items = append(items, types.DetailItem{Icon: "mdi:eye", Label: "Visibilité", Value: formatNumber(v) + " " + unit})
	}
	if v, ok := e.AttrFloat("uv_index"); ok {
		items = append(items, types.DetailItem{Icon: "mdi:sun-wireless", Label: "UV", Value: formatNumber(v)})
	} else if opt.UV != nil {
		items = append(items, types.DetailItem{Icon: "mdi:sun-wireless", Label: "UV", Value: opt.UV.State})
	}
	if v, ok := e.AttrFloat("cloud_coverage"); ok {
		items = append(items, types.DetailItem{Icon: "mdi:cloud", Label: "Nébulosité", Value: formatNumber(v) + "%"})
	}
	if v, ok := e.AttrFloat("dew_point"); ok {
		items = append(items, types.DetailItem{Icon: "mdi:thermometer-water", Label: "Point de rosée", Value: fmt.Sprintf("%d°", int(math.Round(v)))})
	}

	// Risk sensors carry pre-formatted percentage states.
	if opt.RainChance != nil {
		items = append(items, types.DetailItem{Icon: "mdi:umbrella", Label: "Risque pluie", Value: opt.RainChance.State + "%"})
	}
	if opt.FreezeChance != nil {
		items = append(items, types.DetailItem{Icon: "mdi:snowflake", Label: "Risque gel", Value: opt.FreezeChance.State + "%"})
	}
	if opt.SnowChance != nil {
		items = append(items, types.DetailItem{Icon: "mdi:snowflake-variant", Label: "Risque neige", Value: opt.SnowChance.State + "%"})
	}

	return items
}

// BuildRainTimeline reconstructs the short-horizon rain timeline from the
// rain forecast entity. It returns nil when the entity is absent or its
// snapshot lacks the forecast attribute. Entries are sorted by ascending
// minute offset; unknown descriptions classify as dry.
func BuildRainTimeline(e *types.EntityState) *types.RainTimeline {
	if e == nil {
		return nil
	}
	raw, ok := e.Attributes[rainForecastAttr]
	if !ok || raw == nil {
		return nil
	}
	forecast, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	tl := &types.RainTimeline{Entries: make([]types.RainEntry, 0, len(forecast))}
	for key, value := range forecast {
		minutes, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			continue
		}
		desc, _ := value.(string)
		tl.Entries = append(tl.Entries, types.RainEntry{
			MinutesFromNow: minutes,
			Description:    desc,
			Intensity:      lookup.RainIntensity(desc),
		})
	}
	sort.Slice(tl.Entries, func(i, j int) bool {
		return tl.Entries[i].MinutesFromNow < tl.Entries[j].MinutesFromNow
	})

	for _, entry := range tl.Entries {
		if entry.Intensity > types.IntensityDry {
			tl.HasRain = true
			break
		}
	}

	if ref, ok := e.AttrString(rainRefTimeAttr); ok {
		if t, err := time.Parse(time.RFC3339, ref); err == nil {
			tl.ReferenceTime = &t
		}
	}

	return tl
}

// BuildAlertSet scans the alert entity's attributes for active vigilance
// alerts. An attribute is an alert iff its key carries one of the nine
// category prefixes and its value is a non-empty level other than "Vert".
// Returns nil when no alert entity is available. Keys are visited in
// sorted order so the result is deterministic; duplicates cannot occur
// since each key is distinct.
func BuildAlertSet(e *types.EntityState) *types.AlertSet {
	if e == nil {
		return nil
	}

	keys := make([]string, 0, len(e.Attributes))
	for k := range e.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	set := &types.AlertSet{RawState: e.State}
	for _, k := range keys {
		if !lookup.IsAlertKey(k) {
			continue
		}
		level, _ := e.Attributes[k].(string)
		if level == "" || level == types.AlertLevelGreen {
			continue
		}
		set.Alerts = append(set.Alerts, types.Alert{TypeKey: k, Level: level})
	}
	return set
}

// BuildForecastRows maps pushed forecast elements to normalized rows.
// TempLow is kept only for the daily kind; absent fields stay nil. No
// truncation happens here; row counts are applied at the presentation
// boundary.
func BuildForecastRows(raw []types.RawForecast, kind types.ForecastKind) []types.ForecastRow {
	rows := make([]types.ForecastRow, 0, len(raw))
	for _, f := range raw {
		row := types.ForecastRow{
			Timestamp:                f.Datetime,
			ConditionCode:            f.Condition,
			Temperature:              f.Temperature,
			PrecipitationProbability: f.PrecipitationProbability,
			WindSpeed:                f.WindSpeed,
		}
		if kind == types.ForecastDaily {
			row.TempLow = f.TempLow
		}
		rows = append(rows, row)
	}
	return rows
}

// roundedInt rounds v to the nearest integer and returns a pointer to it.
func roundedInt(v float64) *int {
	n := int(math.Round(v))
	return &n
}

// formatNumber renders a numeric attribute the way the source supplied it:
// integers without a decimal point, fractions with their minimal digits.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
