package viewmodel

import (
	"fmt"
	"math"
	"time"

	"meteocard/internal/lookup"
	"meteocard/internal/types"
)

// SummaryInput bundles everything the compact view is built from. Nil
// members are rendered as missing sections, never as errors.
type SummaryInput struct {
	Config     types.CardConfig
	Entity     types.EntityState
	Rain       *types.RainTimeline
	Alerts     *types.AlertSet
	Hourly     []types.ForecastRow
	Daily      []types.ForecastRow
	RainChance *types.EntityState
	Now        time.Time
}

// BuildSummary composes the compact view: title, current conditions with
// resolved icon and label, and the clickable chip row. Each chip honors
// its section toggle and degrades to absence when its data is missing;
// the rain chip alone keeps an explicit "unavailable" variant when its
// entity is configured but unreadable.
func BuildSummary(in SummaryInput) types.Summary {
	current := BuildCurrentConditions(in.Entity)

	s := types.Summary{
		Title:          widgetTitle(in.Config, in.Entity),
		Current:        current,
		ConditionIcon:  lookup.ConditionIcon(current.ConditionCode),
		ConditionLabel: lookup.ConditionLabel(current.ConditionCode),
		FeelsLike:      current.ApparentTemperature,
		HasAlerts:      in.Alerts.HasAlerts(),
	}

	s.Chips.Rain = rainChip(in.Config, in.Rain)
	if in.Config.ShowHourlyForecast {
		s.Chips.Hourly = hourlyChips(in.Hourly)
	}
	if in.Config.ShowDailyForecast {
		s.Chips.Daily = dailyChips(in.Daily, in.Now)
	}
	if in.Config.ShowDetails {
		s.Chips.Details = detailChips(in.Entity, in.RainChance)
	}
	if in.Config.ShowAlert && in.Alerts.HasAlerts() {
		s.Chips.Alerts = alertChips(in.Alerts)
	}

	return s
}

// widgetTitle resolves the display name: configured name, then the primary
// entity's friendly_name attribute, then "Météo".
func widgetTitle(cfg types.CardConfig, e types.EntityState) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	return e.AttrStringOr("friendly_name", "Météo")
}

func rainChip(cfg types.CardConfig, rain *types.RainTimeline) *types.RainChip {
	if !cfg.ShowRainForecast {
		return nil
	}
	switch {
	case rain != nil && rain.HasRain:
		return &types.RainChip{Status: types.RainChipRain, Label: "🌧️ Pluie prévue"}
	case rain != nil:
		return &types.RainChip{Status: types.RainChipDry, Label: "☀️ Sec"}
	case cfg.RainForecastEntity != "":
		return &types.RainChip{Status: types.RainChipUnavailable, Label: "🌧️ N/A"}
	}
	return nil
}

// hourlyChips summarizes the next three hours.
func hourlyChips(rows []types.ForecastRow) []types.HourlyChipEntry {
	n := min(len(rows), 3)
	chips := make([]types.HourlyChipEntry, 0, n)
	for _, row := range rows[:n] {
		var temp int
		if row.Temperature != nil {
			temp = int(math.Round(*row.Temperature))
		}
		chips = append(chips, types.HourlyChipEntry{
			TimeLabel:   FormatHourChip(row.Timestamp),
			Icon:        lookup.ConditionIcon(row.ConditionCode),
			Temperature: temp,
		})
	}
	return chips
}

// dailyChips summarizes the next two days. A missing low defaults to 0,
// matching the compact display's low/high pair.
func dailyChips(rows []types.ForecastRow, now time.Time) []types.DailyChipEntry {
	n := min(len(rows), 2)
	chips := make([]types.DailyChipEntry, 0, n)
	for _, row := range rows[:n] {
		chip := types.DailyChipEntry{
			DayLabel: FormatDayChip(row.Timestamp, now),
			Icon:     lookup.ConditionIcon(row.ConditionCode),
		}
		if row.Temperature != nil {
			chip.TempHigh = int(math.Round(*row.Temperature))
		}
		if row.TempLow != nil {
			chip.TempLow = int(math.Round(*row.TempLow))
		}
		chips = append(chips, chip)
	}
	return chips
}

func detailChips(e types.EntityState, rainChance *types.EntityState) []string {
	var chips []string
	if v, ok := e.AttrFloat("humidity"); ok {
		chips = append(chips, fmt.Sprintf("💧%s%%", formatNumber(v)))
	}
	if v, ok := e.AttrFloat("wind_speed"); ok {
		chips = append(chips, fmt.Sprintf("💨%dkm/h", int(math.Round(v))))
	}
	if rainChance != nil {
		chips = append(chips, fmt.Sprintf("☂%s%%", rainChance.State))
	}
	return chips
}

func alertChips(set *types.AlertSet) []types.AlertChip {
	chips := make([]types.AlertChip, 0, len(set.Alerts))
	for _, a := range set.Alerts {
		chips = append(chips, types.AlertChip{
			TypeKey: a.TypeKey,
			Level:   a.Level,
			Color:   lookup.AlertColor(a.Level),
			Icon:    lookup.AlertIcon(a.TypeKey),
		})
	}
	return chips
}
