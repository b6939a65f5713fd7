package middleware

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
)

// CORS answers preflight requests and echoes the origin back when it matches pattern.
// A nil pattern disables the middleware.
func CORS(pattern *regexp.Regexp) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if pattern == nil {
			return next
		}
		return func(c echo.Context) error {
			respHeader := c.Response().Header()
			respHeader.Add(echo.HeaderVary, echo.HeaderOrigin)
			origin := c.Request().Header.Get(echo.HeaderOrigin)
			if origin == "" || !pattern.MatchString(origin) {
				return next(c)
			}
			respHeader.Set(echo.HeaderAccessControlAllowOrigin, origin)
			if c.Request().Method == http.MethodOptions {
				// `*` only may not cover Authorization header in Safari 12
				respHeader.Set(echo.HeaderAccessControlAllowHeaders, "*, Authorization")
				respHeader.Set(echo.HeaderAccessControlAllowMethods, "OPTIONS, POST, PUT, DELETE, GET")
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}
