package viewmodel

import (
	"testing"
	"time"

	"meteocard/internal/types"
)

func allOnConfig() types.CardConfig {
	cfg := types.DefaultCardConfig()
	cfg.Entity = "weather.paris"
	return cfg
}

func TestWidgetTitlePriority(t *testing.T) {
	e := types.EntityState{Attributes: map[string]any{"friendly_name": "Météo Paris"}}

	cfg := allOnConfig()
	cfg.Name = "Chez moi"
	if got := widgetTitle(cfg, e); got != "Chez moi" {
		t.Errorf("configured name should win, got %q", got)
	}

	cfg.Name = ""
	if got := widgetTitle(cfg, e); got != "Météo Paris" {
		t.Errorf("friendly_name should be next, got %q", got)
	}

	if got := widgetTitle(cfg, types.EntityState{}); got != "Météo" {
		t.Errorf("fallback title = %q, want Météo", got)
	}
}

func TestRainChipVariants(t *testing.T) {
	cfg := allOnConfig()
	cfg.RainForecastEntity = "sensor.rain"

	chip := rainChip(cfg, &types.RainTimeline{HasRain: true})
	if chip == nil || chip.Status != types.RainChipRain {
		t.Errorf("rain variant = %+v", chip)
	}

	chip = rainChip(cfg, &types.RainTimeline{})
	if chip == nil || chip.Status != types.RainChipDry {
		t.Errorf("dry variant = %+v", chip)
	}

	chip = rainChip(cfg, nil)
	if chip == nil || chip.Status != types.RainChipUnavailable {
		t.Errorf("configured but unreadable should show unavailable, got %+v", chip)
	}

	cfg.RainForecastEntity = ""
	if chip = rainChip(cfg, nil); chip != nil {
		t.Errorf("unconfigured entity should show no chip, got %+v", chip)
	}

	cfg.RainForecastEntity = "sensor.rain"
	cfg.ShowRainForecast = false
	if chip = rainChip(cfg, &types.RainTimeline{HasRain: true}); chip != nil {
		t.Errorf("toggle off should suppress the chip, got %+v", chip)
	}
}

func TestBuildSummaryChips(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	temp := 18.0
	rows := []types.ForecastRow{
		{Timestamp: now.Add(1 * time.Hour), ConditionCode: "sunny", Temperature: &temp},
		{Timestamp: now.Add(2 * time.Hour), ConditionCode: "cloudy", Temperature: &temp},
		{Timestamp: now.Add(3 * time.Hour), ConditionCode: "rainy", Temperature: &temp},
		{Timestamp: now.Add(4 * time.Hour), ConditionCode: "rainy", Temperature: &temp},
	}
	days := []types.ForecastRow{
		{Timestamp: now, ConditionCode: "sunny", Temperature: &temp},
		{Timestamp: now.AddDate(0, 0, 1), ConditionCode: "rainy", Temperature: &temp},
		{Timestamp: now.AddDate(0, 0, 2), ConditionCode: "rainy", Temperature: &temp},
	}

	in := SummaryInput{
		Config: allOnConfig(),
		Entity: types.EntityState{
			State: "sunny",
			Attributes: map[string]any{
				"temperature":          21.3,
				"apparent_temperature": 19.8,
				"humidity":             55.0,
				"wind_speed":           12.0,
			},
		},
		Alerts:     &types.AlertSet{Alerts: []types.Alert{{TypeKey: "Orages", Level: "Jaune"}}},
		Hourly:     rows,
		Daily:      days,
		RainChance: &types.EntityState{State: "40"},
		Now:        now,
	}

	s := BuildSummary(in)

	if s.ConditionIcon != "☀️" || s.ConditionLabel != "Ensoleillé" {
		t.Errorf("condition resolution: icon=%q label=%q", s.ConditionIcon, s.ConditionLabel)
	}
	if s.FeelsLike == nil || *s.FeelsLike != 20 {
		t.Errorf("FeelsLike = %v, want 20", s.FeelsLike)
	}
	if !s.HasAlerts {
		t.Error("HasAlerts should hold")
	}
	if len(s.Chips.Hourly) != 3 {
		t.Errorf("hourly chips = %d, want 3", len(s.Chips.Hourly))
	}
	if s.Chips.Hourly[0].TimeLabel != "13h00" {
		t.Errorf("hourly chip time = %q", s.Chips.Hourly[0].TimeLabel)
	}
	if len(s.Chips.Daily) != 2 {
		t.Errorf("daily chips = %d, want 2", len(s.Chips.Daily))
	}
	if s.Chips.Daily[0].DayLabel != "Auj" || s.Chips.Daily[1].DayLabel != "Dem" {
		t.Errorf("daily chip labels = %q, %q", s.Chips.Daily[0].DayLabel, s.Chips.Daily[1].DayLabel)
	}
	wantDetails := []string{"💧55%", "💨12km/h", "☂40%"}
	if len(s.Chips.Details) != len(wantDetails) {
		t.Fatalf("detail chips = %v", s.Chips.Details)
	}
	for i, want := range wantDetails {
		if s.Chips.Details[i] != want {
			t.Errorf("detail chip[%d] = %q, want %q", i, s.Chips.Details[i], want)
		}
	}
	if len(s.Chips.Alerts) != 1 || s.Chips.Alerts[0].Color != "#FFC107" {
		t.Errorf("alert chips = %+v", s.Chips.Alerts)
	}
}

func TestBuildSummaryTogglesOff(t *testing.T) {
	cfg := allOnConfig()
	cfg.ShowHourlyForecast = false
	cfg.ShowDailyForecast = false
	cfg.ShowDetails = false
	cfg.ShowAlert = false

	temp := 18.0
	in := SummaryInput{
		Config: cfg,
		Entity: types.EntityState{State: "sunny", Attributes: map[string]any{"humidity": 50.0}},
		Alerts: &types.AlertSet{Alerts: []types.Alert{{TypeKey: "Orages", Level: "Rouge"}}},
		Hourly: []types.ForecastRow{{Timestamp: time.Now(), Temperature: &temp}},
		Daily:  []types.ForecastRow{{Timestamp: time.Now(), Temperature: &temp}},
		Now:    time.Now(),
	}

	s := BuildSummary(in)
	if s.Chips.Hourly != nil || s.Chips.Daily != nil || s.Chips.Details != nil || s.Chips.Alerts != nil {
		t.Errorf("chips should honor their toggles: %+v", s.Chips)
	}
	if !s.HasAlerts {
		t.Error("HasAlerts reflects the data regardless of the chip toggle")
	}
}
