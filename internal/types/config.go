package types

// Default forecast row counts shown in the hourly and daily popups.
const (
	DefaultHourlyForecastCount = 6
	DefaultDailyForecastCount  = 5
)

// CardConfig is the widget configuration supplied by the host. Entity is
// the only required field; every optional entity id may be unset. The
// validate tags bound the forecast row counts to what the configuration
// editor allows.
type CardConfig struct {
	Entity string `json:"entity" validate:"required"`
	Name   string `json:"name,omitempty"`

	RainForecastEntity string `json:"rain_forecast_entity,omitempty"`
	AlertEntity        string `json:"alert_entity,omitempty"`
	RainChanceEntity   string `json:"rain_chance_entity,omitempty"`
	FreezeChanceEntity string `json:"freeze_chance_entity,omitempty"`
	SnowChanceEntity   string `json:"snow_chance_entity,omitempty"`
	UVEntity           string `json:"uv_entity,omitempty"`

	ShowCurrent        bool `json:"show_current"`
	ShowDetails        bool `json:"show_details"`
	ShowRainForecast   bool `json:"show_rain_forecast"`
	ShowAlert          bool `json:"show_alert"`
	ShowHourlyForecast bool `json:"show_hourly_forecast"`
	ShowDailyForecast  bool `json:"show_daily_forecast"`

	HourlyForecastCount int `json:"number_of_hourly_forecasts" validate:"min=1,max=24"`
	DailyForecastCount  int `json:"number_of_daily_forecasts" validate:"min=1,max=7"`
}

// DefaultCardConfig returns the stub configuration: all sections visible,
// default row counts, no entities bound. Hosts decode their configuration
// on top of this so omitted fields keep their defaults.
func DefaultCardConfig() CardConfig {
	return CardConfig{
		ShowCurrent:         true,
		ShowDetails:         true,
		ShowRainForecast:    true,
		ShowAlert:           true,
		ShowHourlyForecast:  true,
		ShowDailyForecast:   true,
		HourlyForecastCount: DefaultHourlyForecastCount,
		DailyForecastCount:  DefaultDailyForecastCount,
	}
}
