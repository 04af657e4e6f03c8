package model

// Forecast is one day of the weather feed.
type Forecast struct {
	Date         string `json:"date"` // YYYY-MM-DD
	TemperatureC int    `json:"temperatureC"`
	TemperatureF int    `json:"temperatureF"`
	Summary      string `json:"summary"`
}
