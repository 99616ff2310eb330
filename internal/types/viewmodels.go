package types

import "time"

// CurrentConditions is the summary view of the primary weather entity.
// Temperatures are rounded to the nearest integer for display; a nil
// pointer means the attribute was absent from the snapshot.
type CurrentConditions struct {
	ConditionCode       string `json:"condition"`
	Temperature         *int   `json:"temperature,omitempty"`
	TemperatureUnit     string `json:"temperature_unit"`
	ApparentTemperature *int   `json:"apparent_temperature,omitempty"`
}

// DetailItem is one row of the detail list: a resolved icon name, a fixed
// French label, and a pre-formatted display value.
type DetailItem struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// RainEntry is one point of the short-horizon rain timeline.
type RainEntry struct {
	MinutesFromNow int            `json:"minutes"`
	Description    string         `json:"description"`
	Intensity      IntensityLevel `json:"intensity"`
}

// RainTimeline is the "pluie dans l'heure" view model, rebuilt in full on
// every render. Entries are sorted by ascending minute offset and HasRain
// holds iff any entry's intensity exceeds IntensityDry.
type RainTimeline struct {
	ReferenceTime *time.Time  `json:"reference_time,omitempty"`
	Entries       []RainEntry `json:"entries"`
	HasRain       bool        `json:"has_rain"`
}

// Alert is a single active vigilance alert.
type Alert struct {
	TypeKey string `json:"type"`
	Level   string `json:"level"`
}

// AlertSet holds the alert entity's raw state plus all active alerts.
// Green-level ("Vert") entries are excluded at build time.
type AlertSet struct {
	RawState string  `json:"state"`
	Alerts   []Alert `json:"alerts"`
}

// HasAlerts reports whether any active alert is present.
func (s *AlertSet) HasAlerts() bool {
	return s != nil && len(s.Alerts) > 0
}

// RawForecast is one forecast element exactly as pushed by the data source.
type RawForecast struct {
	Datetime                 time.Time `json:"datetime"`
	Condition                string    `json:"condition"`
	Temperature              *float64  `json:"temperature"`
	TempLow                  *float64  `json:"templow"`
	PrecipitationProbability *float64  `json:"precipitation_probability"`
	WindSpeed                *float64  `json:"wind_speed"`
}

// ForecastRow is the normalized forecast view model. TempLow is populated
// only for the daily kind. Absent source fields propagate as nil.
type ForecastRow struct {
	Timestamp                time.Time `json:"datetime"`
	ConditionCode            string    `json:"condition"`
	Temperature              *float64  `json:"temperature,omitempty"`
	TempLow                  *float64  `json:"templow,omitempty"`
	PrecipitationProbability *float64  `json:"precipitation_probability,omitempty"`
	WindSpeed                *float64  `json:"wind_speed,omitempty"`
}

// RainChipStatus describes the compact rain chip variant.
type RainChipStatus string

const (
	RainChipRain        RainChipStatus = "rain"
	RainChipDry         RainChipStatus = "dry"
	RainChipUnavailable RainChipStatus = "unavailable"
)

// RainChip is the compact rain summary chip.
type RainChip struct {
	Status RainChipStatus `json:"status"`
	Label  string         `json:"label"`
}

// HourlyChipEntry is one slot of the compact hourly chip (next 3 hours).
type HourlyChipEntry struct {
	TimeLabel   string `json:"time"`
	Icon        string `json:"icon"`
	Temperature int    `json:"temperature"`
}

// DailyChipEntry is one slot of the compact daily chip (next 2 days).
type DailyChipEntry struct {
	DayLabel string `json:"day"`
	Icon     string `json:"icon"`
	TempLow  int    `json:"templow"`
	TempHigh int    `json:"temperature"`
}

// AlertChip is one compact alert chip with its resolved color and icon.
type AlertChip struct {
	TypeKey string `json:"type"`
	Level   string `json:"level"`
	Color   string `json:"color"`
	Icon    string `json:"icon"`
}

// CompactSummary carries the clickable summary chips of the compact view.
// Nil/empty members mean the corresponding chip is not shown, either
// because its section toggle is off or because no data is available.
type CompactSummary struct {
	Rain    *RainChip         `json:"rain,omitempty"`
	Hourly  []HourlyChipEntry `json:"hourly,omitempty"`
	Daily   []DailyChipEntry  `json:"daily,omitempty"`
	Details []string          `json:"details,omitempty"`
	Alerts  []AlertChip       `json:"alerts,omitempty"`
}

// Summary is the compact view of the widget.
type Summary struct {
	Title          string            `json:"title"`
	Current        CurrentConditions `json:"current"`
	ConditionIcon  string            `json:"condition_icon"`
	ConditionLabel string            `json:"condition_label"`
	FeelsLike      *int              `json:"feels_like,omitempty"`
	HasAlerts      bool              `json:"has_alerts"`
	Chips          CompactSummary    `json:"chips"`
}

// PopupOverlay is the payload of the currently open detail view. Only the
// members relevant to View are populated; Unavailable marks an explicit
// "no data" placeholder so the overlay never renders blank.
type PopupOverlay struct {
	View        PopupView          `json:"view"`
	Title       string             `json:"title"`
	Closing     bool               `json:"closing,omitempty"`
	Unavailable bool               `json:"unavailable,omitempty"`
	Current     *CurrentConditions `json:"current,omitempty"`
	Details     []DetailItem       `json:"details,omitempty"`
	Rain        *RainTimeline      `json:"rain,omitempty"`
	Alerts      *AlertSet          `json:"alerts,omitempty"`
	Forecast    []ForecastRow      `json:"forecast,omitempty"`
}

// RenderError is the dedicated placeholder shown when the primary entity
// cannot be resolved from the data source.
type RenderError struct {
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	EntityID string    `json:"entity_id,omitempty"`
}

// RenderOutput is the single composed output of a rebuild: either an error
// placeholder, or a summary plus an optional popup overlay. The exact
// markup is the presentation layer's concern; this is the data contract.
type RenderOutput struct {
	Error   *RenderError  `json:"error,omitempty"`
	Summary *Summary      `json:"summary,omitempty"`
	Popup   *PopupOverlay `json:"popup,omitempty"`
}
