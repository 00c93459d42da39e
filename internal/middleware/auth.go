package middleware

import (
	"net/http"
	"strings"

	"github.com/dmhouse/wallet-api/internal/service"
	"github.com/dmhouse/wallet-api/pkg/logger"
	"github.com/labstack/echo/v4"
)

// ContextKeyUserID is where the authenticated user id lands in the echo
// context.
const ContextKeyUserID = "user_id"

// Auth guards routes with a Bearer JWT. On success the user id is set
// on the echo context and carried in the request context for logging.
func Auth(auth service.AuthService, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "authorization required",
				})
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "invalid authorization header",
				})
			}

			userID, err := auth.ValidateToken(parts[1])
			if err != nil {
				log.Debug(c.Request().Context(), "Token rejected",
					"error", err,
				)
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "invalid or expired token",
				})
			}

			c.Set(ContextKeyUserID, userID)
			ctx := logger.WithUserID(c.Request().Context(), userID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// UserID reads the authenticated user id set by Auth.
func UserID(c echo.Context) string {
	if id, ok := c.Get(ContextKeyUserID).(string); ok {
		return id
	}
	return ""
}
