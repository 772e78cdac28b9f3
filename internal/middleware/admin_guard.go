package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminGuard rejects non-admin users. Must run after AuthJWT.
func AdminGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := ActorFromContext(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("não autenticado"))
			}

			if !user.Admin {
				return c.JSON(http.StatusForbidden, errorJSON("acesso restrito a administradores"))
			}

			return next(c)
		}
	}
}
