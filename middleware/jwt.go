package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"parcel-logistics/logger"
	"parcel-logistics/models/role"
	"parcel-logistics/types"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Auth verifies HS256 access tokens signed with the service secret.
type Auth struct {
	secret []byte
}

func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

// VerifyJWT parses tokenString and returns its claims when the signature and expiry are valid.
func (a *Auth) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	if len(a.secret) == 0 {
		return nil, fmt.Errorf("jwt secret is not configured")
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid JWT token")
	}
	return claims, nil
}

func hasRole(claims jwt.MapClaims, allowed []role.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	current := role.Role(claimString(claims, "role"))
	for _, r := range allowed {
		if r == current {
			return true
		}
	}
	return false
}

func claimString(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case []interface{}:
		// tokens issued by older clients carry the role as a one element list
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

// IsAuthenticated reads the token from the Authorization header or the access cookie and
// lets the request through when its role is one of allowed. An empty list allows any role.
func (a *Auth) IsAuthenticated(allowed []role.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		var token string

		if authHeader != "" {
			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.Status(http.StatusUnauthorized).JSON(types.ApiResponse{
					Message: "Invalid authorization header format",
					Status:  http.StatusUnauthorized,
				})
			}
			token = tokenParts[1]
		} else {
			token = c.Cookies("access")
			if token == "" {
				return c.Status(http.StatusUnauthorized).JSON(types.ApiResponse{
					Message: "Access token missing",
					Status:  http.StatusUnauthorized,
				})
			}
		}

		claims, err := a.VerifyJWT(token)
		if err != nil {
			logger.Warning("JWT verification failed: " + err.Error())
			return c.Status(http.StatusUnauthorized).JSON(types.ApiResponse{
				Message: "Invalid or expired token",
				Status:  http.StatusUnauthorized,
			})
		}

		if !hasRole(claims, allowed) {
			return c.Status(http.StatusForbidden).JSON(types.ApiResponse{
				Message: "Access denied: insufficient permissions",
				Status:  http.StatusForbidden,
			})
		}

		c.Locals("user", claims)
		return c.Next()
	}
}
