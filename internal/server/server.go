package server

import (
	"app/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// New builds the Echo instance with the ambient middleware and every route
// registered. authMW is the bearer-token middleware shared by the protected
// groups.
func New(authH *handler.AuthHandler, orderH *handler.OrderHandler, authMW echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	authH.RegisterRoutes(e, authMW)
	orderH.RegisterRoutes(e, authMW)

	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
