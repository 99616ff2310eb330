// Package lookup holds the immutable, process-wide mapping tables of the
// widget: condition codes to icons and French labels, rain descriptions to
// intensity levels, vigilance levels to colors, alert categories to icons,
// and wind bearings to 16-point compass labels. Every resolution function
// falls back to a safe default so rendering never fails on vocabulary the
// data source invents.
package lookup

import (
	"math"
	"strings"

	"meteocard/internal/types"
)

// FallbackIcon is returned for condition codes absent from the icon table.
const FallbackIcon = "☁️"

// DefaultAlertColor is used for unrecognized vigilance levels.
const DefaultAlertColor = "#FFC107"

// DefaultAlertIcon is used for unrecognized alert categories.
const DefaultAlertIcon = "mdi:alert"

var conditionIcons = map[string]string{
	"clear-night":     "🌙",
	"cloudy":          "☁️",
	"fog":             "🌫️",
	"hail":            "🌨️",
	"lightning":       "⛈️",
	"lightning-rainy": "⛈️",
	"partlycloudy":    "⛅",
	"pouring":         "🌧️",
	"rainy":           "🌧️",
	"snowy":           "❄️",
	"snowy-rainy":     "🌨️",
	"sunny":           "☀️",
	"windy":           "💨",
	"windy-variant":   "🌬️",
	"exceptional":     "⚠️",
}

var conditionLabels = map[string]string{
	"clear-night":     "Nuit dégagée",
	"cloudy":          "Nuageux",
	"fog":             "Brouillard",
	"hail":            "Grêle",
	"lightning":       "Orageux",
	"lightning-rainy": "Orage et pluie",
	"partlycloudy":    "Partiellement nuageux",
	"pouring":         "Fortes pluies",
	"rainy":           "Pluvieux",
	"snowy":           "Neigeux",
	"snowy-rainy":     "Neige et pluie",
	"sunny":           "Ensoleillé",
	"windy":           "Venteux",
	"windy-variant":   "Venteux et nuageux",
	"exceptional":     "Exceptionnel",
}

// rainIntensities maps the fixed Météo-France description vocabulary to
// intensity levels. Exact string match only.
var rainIntensities = map[string]types.IntensityLevel{
	"Temps sec":     types.IntensityDry,
	"Pluie faible":  types.IntensityLight,
	"Pluie modérée": types.IntensityModerate,
	"Pluie forte":   types.IntensityHeavy,
}

var alertColors = map[string]string{
	"Vert":   "#4CAF50",
	"Jaune":  "#FFC107",
	"Orange": "#FF9800",
	"Rouge":  "#F44336",
}

var alertIcons = map[string]string{
	"Vent violent":      "mdi:weather-windy",
	"Pluie-inondation":  "mdi:weather-pouring",
	"Orages":            "mdi:weather-lightning",
	"Inondation":        "mdi:home-flood",
	"Neige-verglas":     "mdi:snowflake-alert",
	"Canicule":          "mdi:thermometer-alert",
	"Grand Froid":       "mdi:snowflake",
	"Avalanches":        "mdi:image-filter-hdr",
	"Vagues-submersion": "mdi:waves",
}

// alertKeyPrefixes are the nine fixed category prefixes that mark an
// attribute key as an alert candidate.
var alertKeyPrefixes = []string{
	"Vent",
	"Pluie",
	"Orage",
	"Inondation",
	"Neige",
	"Canicule",
	"Grand",
	"Avalanche",
	"Vagues",
}

// compassLabels holds the 16-point compass in 22.5° sectors. The 17th
// entry folds bearings near 360° back onto north.
var compassLabels = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSO", "SO", "OSO", "O", "ONO", "NO", "NNO", "N",
}

// ConditionIcon returns the emoji for a condition code, or FallbackIcon
// for unknown codes.
func ConditionIcon(code string) string {
	if icon, ok := conditionIcons[code]; ok {
		return icon
	}
	return FallbackIcon
}

// ConditionLabel returns the French label for a condition code. Unknown
// codes fall back to the code itself so something is always displayable.
func ConditionLabel(code string) string {
	if label, ok := conditionLabels[code]; ok {
		return label
	}
	return code
}

// RainIntensity classifies a rain description string. Any string outside
// the four-entry vocabulary maps to IntensityDry.
func RainIntensity(description string) types.IntensityLevel {
	if level, ok := rainIntensities[description]; ok {
		return level
	}
	return types.IntensityDry
}

// AlertColor returns the display color for a vigilance level.
func AlertColor(level string) string {
	if c, ok := alertColors[level]; ok {
		return c
	}
	return DefaultAlertColor
}

// AlertIcon returns the icon name for an alert category.
func AlertIcon(typeKey string) string {
	if icon, ok := alertIcons[typeKey]; ok {
		return icon
	}
	return DefaultAlertIcon
}

// IsAlertKey reports whether an attribute key starts with one of the nine
// fixed alert-category prefixes.
func IsAlertKey(key string) bool {
	for _, prefix := range alertKeyPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// CompassLabel buckets a wind bearing in degrees into the 16-point
// compass, rounding to the nearest 22.5° sector. Bearings at or near 360°
// wrap back to "N". Out-of-range bearings yield an empty label.
func CompassLabel(bearing float64) string {
	idx := int(math.Round(bearing / 22.5))
	if idx < 0 || idx >= len(compassLabels) {
		return ""
	}
	return compassLabels[idx]
}
