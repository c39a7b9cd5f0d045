package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const claimsKey = "admin_claims"

// Middleware rejects requests without a valid bearer token
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := TokenFromRequest(c)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "Missing authorization token",
				})
			}

			claims, err := m.ValidateToken(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "Invalid token",
				})
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// TokenFromRequest reads a bearer token, falling back to the token query
// parameter that browsers must use for websockets.
func TokenFromRequest(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return c.QueryParam("token")
}

// ClaimsFromContext extracts the admin claims set by Middleware
func ClaimsFromContext(c echo.Context) *Claims {
	if claims, ok := c.Get(claimsKey).(*Claims); ok {
		return claims
	}
	return nil
}
