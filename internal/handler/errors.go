package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"taskmaster/internal/errors"
)

// respondError maps a service error to its HTTP form. Server-side failures are
// logged with the request id; their cause is not sent to the client.
func respondError(c echo.Context, logger *zap.SugaredLogger, handler string, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= 500 {
		logger.Errorw("request failed",
			"handler", handler,
			"error", err,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID))
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(message, code string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: message, Code: code})
}
