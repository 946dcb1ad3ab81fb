package middlewares

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hmsdev/hospital-backend/pkg/utils"
)

const ContextKeyClaims = "claims"

// JWTMiddleware validates the bearer token and stores the claims in the
// request context.
func JWTMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"status":  http.StatusUnauthorized,
					"message": "Authorization header missing",
					"data":    nil,
				})
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"status":  http.StatusUnauthorized,
					"message": "Invalid authorization header",
					"data":    nil,
				})
			}
			claims, err := utils.ValidateJWTToken(parts[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"status":  http.StatusUnauthorized,
					"message": "Invalid token: " + err.Error(),
					"data":    nil,
				})
			}

			c.Set(ContextKeyClaims, claims)
			return next(c)
		}
	}
}

// RequireRole rejects requests whose token does not carry the given role.
// Must run after JWTMiddleware.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Get(ContextKeyClaims)
			claims, ok := raw.(*utils.Claims)
			if !ok || claims == nil {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"status":  http.StatusUnauthorized,
					"message": "Missing or invalid JWT claims",
					"data":    nil,
				})
			}
			if claims.Role != role {
				return c.JSON(http.StatusForbidden, map[string]interface{}{
					"status":  http.StatusForbidden,
					"message": "Insufficient role",
					"data":    nil,
				})
			}
			return next(c)
		}
	}
}

// ClaimsFromContext returns the validated claims set by JWTMiddleware, or
// nil when the request was not authenticated.
func ClaimsFromContext(c echo.Context) *utils.Claims {
	claims, _ := c.Get(ContextKeyClaims).(*utils.Claims)
	return claims
}
