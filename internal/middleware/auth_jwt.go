package middleware

import (
	"net/http"
	"strings"

	"app/internal/auth"
	"app/internal/domain/model"
	"app/internal/repository"

	"github.com/labstack/echo/v4"
)

// CtxUserKey holds the resolved *model.User for the request.
const CtxUserKey = "usuario"

// AuthJWT verifies the bearer token and resolves it to an existing active
// user. A token whose subject no longer exists (or was deactivated) is as
// good as no token.
func AuthJWT(tokens *auth.TokenService, users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("não autenticado"))
			}

			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("não autenticado"))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("não autenticado"))
			}

			userID, err := tokens.Verify(rawToken)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("token inválido ou expirado"))
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil || user == nil || !user.Active {
				return c.JSON(http.StatusUnauthorized, errorJSON("token inválido ou expirado"))
			}

			c.Set(CtxUserKey, user)
			return next(c)
		}
	}
}

// ActorFromContext returns the user placed by AuthJWT.
func ActorFromContext(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(CtxUserKey).(*model.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
