package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireAuth returns middleware that validates the bearer token and puts
// the caller's identity on the request context.
func RequireAuth(issuer *Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			id, err := issuer.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			ctx := WithIdentity(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequirePermission returns middleware that gates a route group on a
// permission. Runs after RequireAuth. The check is authoritative here, at
// the command boundary; presentation-side checks only hide affordances.
func RequirePermission(perm string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFromContext(c.Request().Context())
			if !Can(id, perm) {
				return echo.NewHTTPError(http.StatusForbidden, "required permission: "+perm)
			}
			return next(c)
		}
	}
}
