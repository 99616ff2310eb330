package viewmodel

import (
	"fmt"
	"strings"
	"time"

	"meteocard/internal/types"
)

// A single fixed locale is assumed; labels are French throughout.

var frWeekdaysShort = [7]string{"dim.", "lun.", "mar.", "mer.", "jeu.", "ven.", "sam."}

var popupTitles = map[types.PopupView]string{
	types.PopupCurrent: "Météo actuelle",
	types.PopupDetails: "Détails",
	types.PopupRain:    "Pluie dans l'heure",
	types.PopupAlerts:  "Alertes météo",
	types.PopupHourly:  "Prévisions horaires",
	types.PopupDaily:   "Prévisions journalières",
}

// PopupTitle returns the fixed French title of a popup view.
func PopupTitle(view types.PopupView) string {
	return popupTitles[view]
}

// FormatTime renders a timestamp as hh:mm.
func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

// FormatHourChip renders a timestamp for the compact hourly chip, in the
// "14h30" style.
func FormatHourChip(t time.Time) string {
	return strings.Replace(FormatTime(t), ":", "h", 1)
}

// FormatDay labels a timestamp relative to now: "Aujourd'hui" for the
// current calendar date, "Demain" for the next one, and a short French
// weekday plus day-of-month otherwise. Dates are compared in now's
// location.
func FormatDay(t, now time.Time) string {
	day := t.In(now.Location())
	if sameDate(day, now) {
		return "Aujourd'hui"
	}
	if sameDate(day, now.AddDate(0, 0, 1)) {
		return "Demain"
	}
	return fmt.Sprintf("%s %d", frWeekdaysShort[day.Weekday()], day.Day())
}

// FormatDayChip renders the compact daily chip label: the first three
// characters of the day label ("Auj", "Dem", "lun").
func FormatDayChip(t, now time.Time) string {
	label := []rune(FormatDay(t, now))
	if len(label) > 3 {
		label = label[:3]
	}
	return string(label)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
