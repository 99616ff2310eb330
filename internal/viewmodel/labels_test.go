package viewmodel

import (
	"testing"
	"time"

	"meteocard/internal/types"
)

func TestPopupTitles(t *testing.T) {
	tests := []struct {
		view types.PopupView
		want string
	}{
		{types.PopupCurrent, "Météo actuelle"},
		{types.PopupDetails, "Détails"},
		{types.PopupRain, "Pluie dans l'heure"},
		{types.PopupAlerts, "Alertes météo"},
		{types.PopupHourly, "Prévisions horaires"},
		{types.PopupDaily, "Prévisions journalières"},
	}

	for _, tt := range tests {
		if got := PopupTitle(tt.view); got != tt.want {
			t.Errorf("PopupTitle(%q) = %q, want %q", tt.view, got, tt.want)
		}
	}
}

func TestFormatHourChip(t *testing.T) {
	ts := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)
	if got := FormatHourChip(ts); got != "14h30" {
		t.Errorf("FormatHourChip = %q, want 14h30", got)
	}
}

func TestFormatDayRelativeLabels(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) // a Monday

	tests := []struct {
		ts   time.Time
		want string
	}{
		{now, "Aujourd'hui"},
		{now.Add(6 * time.Hour), "Aujourd'hui"},
		{now.AddDate(0, 0, 1), "Demain"},
		{time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC), "mer. 2"},
		{time.Date(2026, 9, 6, 9, 0, 0, 0, time.UTC), "dim. 6"},
	}

	for _, tt := range tests {
		if got := FormatDay(tt.ts, now); got != tt.want {
			t.Errorf("FormatDay(%v) = %q, want %q", tt.ts, got, tt.want)
		}
	}
}

func TestFormatDayChip(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	if got := FormatDayChip(now, now); got != "Auj" {
		t.Errorf("today chip = %q, want Auj", got)
	}
	if got := FormatDayChip(now.AddDate(0, 0, 1), now); got != "Dem" {
		t.Errorf("tomorrow chip = %q, want Dem", got)
	}
	later := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)
	if got := FormatDayChip(later, now); got != "mer" {
		t.Errorf("weekday chip = %q, want mer", got)
	}
}
