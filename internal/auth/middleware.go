package auth

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"taskmaster/internal/errors"
)

// ContextKey is the echo context key holding the verified Identity.
const ContextKey = "identity"

var unauthorized = errors.ErrorResponse{
	Error: "unauthorized",
	Code:  "UNAUTHORIZED",
}

// Middleware authenticates requests carrying "Authorization: Bearer <token>".
// Requests without a valid token are rejected with 401 before the handler runs.
func Middleware(tokens *TokenService, logger *zap.SugaredLogger) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return tokens.Verify(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logger.Debugw("request not authenticated",
				"error", err,
				"path", c.Path(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID))
			return echo.NewHTTPError(http.StatusUnauthorized, unauthorized)
		},
	})
}

// IdentityFrom returns the identity stored by Middleware.
func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(ContextKey).(Identity)
	return id, ok
}

// RequireCapability rejects callers whose role lacks cap. It must run after Middleware.
func RequireCapability(cap Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, unauthorized)
			}
			if !id.Role.Can(cap) {
				return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
					Error: "forbidden",
					Code:  "FORBIDDEN",
				})
			}
			return next(c)
		}
	}
}
