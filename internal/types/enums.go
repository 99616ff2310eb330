package types

// ForecastKind identifies which of the two independent forecast
// subscriptions a row sequence belongs to.
type ForecastKind string

const (
	ForecastHourly ForecastKind = "hourly"
	ForecastDaily  ForecastKind = "daily"
)

// Valid reports whether k is a known forecast kind.
func (k ForecastKind) Valid() bool {
	return k == ForecastHourly || k == ForecastDaily
}

// PopupView names one of the six detail overlays. The zero value is not a
// valid view; "no popup open" is represented by absence, not by a sentinel.
type PopupView string

const (
	PopupCurrent PopupView = "current"
	PopupDetails PopupView = "details"
	PopupRain    PopupView = "rain"
	PopupAlerts  PopupView = "alerts"
	PopupHourly  PopupView = "hourly"
	PopupDaily   PopupView = "daily"
)

// Valid reports whether v names a known popup view.
func (v PopupView) Valid() bool {
	switch v {
	case PopupCurrent, PopupDetails, PopupRain, PopupAlerts, PopupHourly, PopupDaily:
		return true
	}
	return false
}

// IntensityLevel classifies short-term rain severity on the Météo-France
// four-level scale. Level 1 means dry; anything above 1 is rain.
type IntensityLevel int

const (
	IntensityDry IntensityLevel = iota + 1
	IntensityLight
	IntensityModerate
	IntensityHeavy
)

// AlertLevelGreen is the vigilance level meaning "no alert". Attributes at
// this level are excluded from the alert set.
const AlertLevelGreen = "Vert"
