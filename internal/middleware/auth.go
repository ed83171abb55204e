package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	svcErr "github.com/oggyb/desire-match/internal/errors"
	"github.com/oggyb/desire-match/internal/token"
)

const userIDKey = "userID"

// JWT resolves the bearer token into the caller's user id.
// Missing token -> 401, invalid or expired -> 403.
func JWT(issuer *token.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Access token required")
			}

			claims, err := issuer.Parse(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "Invalid or expired token")
			}

			c.Set(userIDKey, claims.UserID)
			return next(c)
		}
	}
}

func bearer(header string) string {
	scheme, raw, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(raw)
}

// UserID returns the authenticated caller. Only valid behind JWT.
func UserID(c echo.Context) uint64 {
	id, _ := c.Get(userIDKey).(uint64)
	return id
}

// ParamUint parses a positive integer path parameter.
func ParamUint(c echo.Context, name string) (uint64, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, svcErr.InvalidArgument("Invalid " + name)
	}
	return v, nil
}
