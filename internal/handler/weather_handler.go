package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"taskmaster/internal/service"
)

// WeatherHandler serves the forecast feed.
type WeatherHandler struct {
	logger         *zap.SugaredLogger
	weatherService service.WeatherService
}

// NewWeatherHandler creates a new weather handler.
func NewWeatherHandler(logger *zap.SugaredLogger, weatherService service.WeatherService) *WeatherHandler {
	return &WeatherHandler{logger: logger, weatherService: weatherService}
}

// Forecast godoc
// @Summary Five-day weather forecast
// @Tags weather
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Forecast
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /weatherforecast [get]
func (h *WeatherHandler) Forecast(c echo.Context) error {
	forecasts, err := h.weatherService.Forecast(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, "weather.forecast", err)
	}
	return c.JSON(http.StatusOK, forecasts)
}
